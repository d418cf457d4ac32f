// Package storage persists settings and progress as YAML files in the
// app's config directory.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Dir is the app's config directory.
type Dir struct {
	path string
}

// NewDir returns the directory appName inside configRoot.
func NewDir(configRoot, appName string) Dir {
	return Dir{path: filepath.Join(configRoot, appName)}
}

// Path returns the directory path.
func (dir Dir) Path() string {
	return dir.path
}

func (dir Dir) file(name string) string {
	return filepath.Join(dir.path, name)
}

// readYAML decodes name into out. It reports false when the file does
// not exist.
func (dir Dir) readYAML(name string, out any) (bool, error) {
	rawData, err := os.ReadFile(dir.file(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(rawData, out); err != nil {
		return false, fmt.Errorf("parse %s: %w", name, err)
	}
	return true, nil
}

// writeYAML replaces name atomically so a crash never leaves a torn file.
func (dir Dir) writeYAML(name string, value any) error {
	if err := os.MkdirAll(dir.path, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	temp, err := os.CreateTemp(dir.path, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(serialized); err != nil {
		_ = temp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(temp.Name(), dir.file(name)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
