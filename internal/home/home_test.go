package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-medtwin")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-medtwin" {
			t.Errorf("expected path /tmp/test-medtwin, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-medtwin")

	t.Run("StagingPath", func(t *testing.T) {
		expected := "/tmp/test-medtwin/staging"
		if dir.StagingPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.StagingPath())
		}
	})

	t.Run("ConfigPath", func(t *testing.T) {
		expected := "/tmp/test-medtwin/config.yaml"
		if dir.ConfigPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ConfigPath())
		}
	})
}

func TestDir_EnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	dir, err := New(filepath.Join(tmpDir, "medtwin-test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Directory shouldn't exist yet
	if dir.Exists() {
		t.Error("directory should not exist before EnsureExists")
	}

	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	if !dir.Exists() {
		t.Error("directory should exist after EnsureExists")
	}
	if _, err := os.Stat(dir.StagingPath()); os.IsNotExist(err) {
		t.Error("staging directory should exist after EnsureExists")
	}
}

func TestDir_ConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := New(tmpDir)

	if dir.ConfigExists() {
		t.Error("config should not exist initially")
	}

	if err := os.WriteFile(dir.ConfigPath(), []byte("test: true\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if !dir.ConfigExists() {
		t.Error("config should exist after creation")
	}
}

func TestDir_CleanStaging(t *testing.T) {
	dir, _ := New(t.TempDir())

	t.Run("missing staging dir", func(t *testing.T) {
		n, err := dir.CleanStaging()
		if err != nil || n != 0 {
			t.Errorf("CleanStaging() = %d, %v; want 0, nil", n, err)
		}
	})

	t.Run("removes leftovers", func(t *testing.T) {
		if err := dir.EnsureExists(); err != nil {
			t.Fatalf("EnsureExists failed: %v", err)
		}
		for _, name := range []string{"a.pdf", "b.pdf"} {
			if err := os.WriteFile(filepath.Join(dir.StagingPath(), name), []byte("x"), 0o600); err != nil {
				t.Fatalf("write leftover: %v", err)
			}
		}

		n, err := dir.CleanStaging()
		if err != nil {
			t.Fatalf("CleanStaging() error = %v", err)
		}
		if n != 2 {
			t.Errorf("CleanStaging() removed %d, want 2", n)
		}
		entries, _ := os.ReadDir(dir.StagingPath())
		if len(entries) != 0 {
			t.Errorf("staging not empty: %v", entries)
		}
	})
}
