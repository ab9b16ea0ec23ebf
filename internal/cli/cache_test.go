package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	files := []string{"ab/abcdef.json", "ab/abc123.json", "cd/cdef00.json", "top.json"}
	for _, f := range files {
		path := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	count, err := clearDir(dir)
	if err != nil {
		t.Fatalf("clearDir() error: %v", err)
	}
	if count != len(files) {
		t.Errorf("clearDir() = %d, want %d", count, len(files))
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("dir still has %d entries", len(entries))
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir itself was removed: %v", err)
	}
}

func TestClearDirMissing(t *testing.T) {
	count, err := clearDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil || count != 0 {
		t.Errorf("clearDir(missing) = %d, %v, want 0, nil", count, err)
	}
}

func TestCachePathCommand(t *testing.T) {
	c := testCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"cache", "path"})

	got := captureOutput(t, func() {
		if err := root.Execute(); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
	})

	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if strings.TrimSpace(got) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(got), want)
	}
}
