package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	devenv "marketsnap/dev/env"
)

// FilesystemOutput writes every dumped message into its own file under a directory.
// It serves both HTTP message dumps and captured page markup.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput resolves `dir` (which may start with <dev_state>) and creates it.
// Existing files are left alone so that dumps of consecutive runs can be compared.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, fmt.Errorf("create dump directory: %w", err)
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Directory() string {
	return o.directory
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write dump file", "id", id, "err", err)
	}
}
