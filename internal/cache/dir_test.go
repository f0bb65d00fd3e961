package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
)

func TestResolveDir_Override(t *testing.T) {
	override := filepath.Join(t.TempDir(), "custom-cache")

	dir, err := ResolveDir(override)
	if err != nil {
		t.Fatalf("ResolveDir failed: %v", err)
	}
	if dir != override {
		t.Errorf("Resolved dir mismatch: got %s, want %s", dir, override)
	}

	info, err := os.Stat(filepath.Join(dir, sessionsDir))
	if err != nil || !info.IsDir() {
		t.Errorf("Sessions directory was not created under %s", dir)
	}
}

func TestResolveDir_XDGCacheHome(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := ResolveDir("")
	if err != nil {
		t.Fatalf("ResolveDir failed: %v", err)
	}

	want := filepath.Join(xdg, dirName)
	if dir != want {
		t.Errorf("Resolved dir mismatch: got %s, want %s", dir, want)
	}
}

func TestResolveDir_HomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", home)
	homedir.Reset()
	t.Cleanup(homedir.Reset)

	dir, err := ResolveDir("")
	if err != nil {
		t.Fatalf("ResolveDir failed: %v", err)
	}

	want := filepath.Join(home, ".cache", dirName)
	if dir != want {
		t.Errorf("Resolved dir mismatch: got %s, want %s", dir, want)
	}
}

func TestResolveDir_Idempotent(t *testing.T) {
	override := filepath.Join(t.TempDir(), "cache")

	first, err := ResolveDir(override)
	if err != nil {
		t.Fatalf("First ResolveDir failed: %v", err)
	}
	second, err := ResolveDir(override)
	if err != nil {
		t.Fatalf("Second ResolveDir failed: %v", err)
	}
	if first != second {
		t.Errorf("ResolveDir not stable: %s vs %s", first, second)
	}
}

func TestResolveDir_CreateFailure(t *testing.T) {
	// A regular file where the cache root should be makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write blocker file: %v", err)
	}

	_, err := ResolveDir(blocker)
	if !errors.Is(err, ErrConfig) {
		t.Errorf("Expected ErrConfig, got %v", err)
	}
}
