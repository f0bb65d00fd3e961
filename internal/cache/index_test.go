package cache

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadIndex_MissingFileIsEmptyCache(t *testing.T) {
	s := newTestStore(t, DefaultLimits())

	index, err := s.loadIndex()
	if err != nil {
		t.Fatalf("loadIndex on missing file failed: %v", err)
	}
	if len(index.Entries) != 0 {
		t.Errorf("Expected empty index, got %d entries", len(index.Entries))
	}
}

func TestLoadIndex_CorruptFile(t *testing.T) {
	s := newTestStore(t, DefaultLimits())

	if err := os.WriteFile(s.indexPath(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write corrupt index: %v", err)
	}

	_, err := s.loadIndex()
	if !errors.Is(err, ErrCorruptIndex) {
		t.Errorf("Expected ErrCorruptIndex, got %v", err)
	}
}

func TestPersistIndex_RoundTrip(t *testing.T) {
	s := newTestStore(t, DefaultLimits())

	want := Index{Entries: []IndexEntry{
		{
			Filename:        "2024-01-02_03-04-05_deadbeef.cache",
			Timestamp:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			TokenCount:      42,
			TokenCounter:    "estimate",
			FileSize:        10,
			SourceFileCount: 3,
			ArgsUsed:        "--minify",
			WorkingDir:      "/tmp/project",
		},
	}}

	if err := s.persistIndex(want); err != nil {
		t.Fatalf("persistIndex failed: %v", err)
	}

	got, err := s.loadIndex()
	if err != nil {
		t.Fatalf("loadIndex failed: %v", err)
	}
	if len(got.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(got.Entries))
	}
	if got.Entries[0] != want.Entries[0] {
		t.Errorf("Round-trip mismatch: got %+v, want %+v", got.Entries[0], want.Entries[0])
	}
}

func TestPersistIndex_LeavesNoTempFile(t *testing.T) {
	s := newTestStore(t, DefaultLimits())

	if err := s.persistIndex(Index{}); err != nil {
		t.Fatalf("persistIndex failed: %v", err)
	}

	for _, name := range sessionFiles(t, s) {
		if strings.HasSuffix(name, ".tmp") {
			t.Errorf("Temp file left behind: %s", name)
		}
	}
}

func TestPersistIndex_OverwritesWhole(t *testing.T) {
	s := newTestStore(t, DefaultLimits())

	if err := s.persistIndex(Index{Entries: []IndexEntry{{Filename: "a.cache"}, {Filename: "b.cache"}}}); err != nil {
		t.Fatalf("First persist failed: %v", err)
	}
	if err := s.persistIndex(Index{Entries: []IndexEntry{{Filename: "c.cache"}}}); err != nil {
		t.Fatalf("Second persist failed: %v", err)
	}

	got, err := s.loadIndex()
	if err != nil {
		t.Fatalf("loadIndex failed: %v", err)
	}
	if len(got.Entries) != 1 || got.Entries[0].Filename != "c.cache" {
		t.Errorf("Expected index to be replaced wholesale, got %+v", got.Entries)
	}
}

func TestIndexPath(t *testing.T) {
	s := New("/some/root", DefaultLimits())

	want := filepath.Join("/some/root", "sessions", "cache_index.json")
	if s.indexPath() != want {
		t.Errorf("Index path mismatch: got %s, want %s", s.indexPath(), want)
	}
}
