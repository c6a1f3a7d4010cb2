package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the medtwin home directory.
	DefaultDirName = ".medtwin"

	// StagingDirName is the subdirectory for uploads staged during analysis.
	StagingDirName = "staging"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the medtwin home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.medtwin).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// StagingPath returns the directory where uploaded documents are staged.
// Files there only live for the duration of one request.
func (d *Dir) StagingPath() string {
	return filepath.Join(d.path, StagingDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	// Staging lives under the root, so this also creates the parent
	if err := os.MkdirAll(d.StagingPath(), 0o700); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// CleanStaging removes files left in the staging directory by a process
// that exited mid-request. It returns the number of files removed.
func (d *Dir) CleanStaging() (int, error) {
	entries, err := os.ReadDir(d.StagingPath())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read staging directory: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(d.StagingPath(), e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
