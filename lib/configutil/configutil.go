// Package configutil reads json5 configuration files with optional local overrides.
package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// Layers returns the files that make up the config at `path`, lowest priority first:
//  1. <name>.<ext>
//  2. <name>.local.<ext>
func Layers(path string) []string {
	ext := filepath.Ext(path)
	local := strings.TrimSuffix(path, ext) + ".local" + ext
	return []string{path, local}
}

// readLayer decodes the file at `path` into a fresh T, found is false if the file
// does not exist or is empty.
func readLayer[T any](path string) (layer T, found bool, err error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return layer, false, nil
	}
	if err != nil {
		return layer, false, err
	}
	if len(strings.TrimSpace(string(contents))) == 0 {
		return layer, false, nil
	}
	err = json5.Unmarshal(contents, &layer)
	if err != nil {
		return layer, false, fmt.Errorf("parse %s: %w", path, err)
	}
	return layer, true, nil
}

// ReadConfig merges every layer of the config at `path`, fields set by a later layer
// override earlier ones. It returns an error satisfying os.IsNotExist when no layer
// exists.
func ReadConfig[T any](path string) (T, error) {
	var out T
	found := false

	for i, layerPath := range Layers(path) {
		layer, ok, err := readLayer[T](layerPath)
		if err != nil {
			return out, err
		}
		if !ok {
			continue
		}
		if i > 0 {
			slog.Info("merging config with local overrides", "local", layerPath)
		}
		err = mergo.Merge(&out, layer, mergo.WithOverride)
		if err != nil {
			return out, fmt.Errorf("merge %s: %w", layerPath, err)
		}
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively looks for a config called `name` in the working directory and every
// parent of it, the closest one is read with ReadConfig.
func ReadRecursively[T any](name string) (T, error) {
	var out T

	current, err := os.Getwd()
	if err != nil {
		return out, err
	}
	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if err == nil {
			return config, nil
		}
		if !os.IsNotExist(err) {
			return out, err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return out, os.ErrNotExist
		}
		current = parent
	}
}

// FillDefaults sets every zero valued field of `config` to the value it has in `defaults`.
func FillDefaults[T any](config *T, defaults T) error {
	return mergo.Merge(config, defaults)
}
