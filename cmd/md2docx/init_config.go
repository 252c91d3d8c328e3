package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/fileutil"
)

// configPermissions is rw-r--r--.
const configPermissions = 0o644

// ErrConfigExists is returned when --init-config would overwrite a file.
var ErrConfigExists = errors.New("config file already exists")

// runInitConfig writes the built-in configuration to path, or to stdout
// when path is "-". A .json extension selects JSON, anything else YAML.
func runInitConfig(path string, env *Environment) error {
	asJSON := strings.EqualFold(filepath.Ext(path), ".json")
	data, err := config.Marshal(config.DefaultConfig(), asJSON)
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}

	if path == "-" {
		_, err := env.Stdout.Write(data)
		return err
	}

	if fileutil.FileExists(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := fileutil.WriteFileAtomic(path, data, configPermissions); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintf(env.Stdout, "Created %s\n", path)
	return nil
}
