package snapshot

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	devenv "marketsnap/dev/env"
	"marketsnap/internal/market"
)

// ExportFilename returns the name of the flat export of a batch taken at `batch.Time`.
func ExportFilename(batch market.Batch) string {
	return fmt.Sprintf("coins-%s.csv", batch.Time.UTC().Format("20060102T150405Z"))
}

// ExportCSV writes the batch into `dir` as a csv file with one row per coin in rank
// order and returns the path of the file. Absent values are written as market.AbsentToken.
func ExportCSV(dir string, batch market.Batch) (string, error) {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return "", err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return "", fmt.Errorf("create snapshot directory: %w", err)
	}

	path := filepath.Join(dir, ExportFilename(batch))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create snapshot file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	err = writer.Write(market.Fields)
	if err != nil {
		return "", err
	}
	for _, coin := range batch.Coins {
		err = writer.Write(coin.Row())
		if err != nil {
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("write snapshot file: %w", err)
	}

	return path, file.Close()
}
