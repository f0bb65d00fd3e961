package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEvict_AgeBound(t *testing.T) {
	limits := DefaultLimits()
	s := newTestStore(t, limits)

	final := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	setClock(s, final.Add(-limits.MaxAge).Add(-time.Hour))
	stale := mustSave(t, s, "stale entry", SaveMeta{})

	setClock(s, final)
	fresh := mustSave(t, s, "fresh entry", SaveMeta{})

	index, err := s.loadIndex()
	if err != nil {
		t.Fatalf("loadIndex failed: %v", err)
	}
	if len(index.Entries) != 1 {
		t.Fatalf("Expected 1 surviving entry, got %d", len(index.Entries))
	}
	if index.Entries[0].Filename != fresh.Filename {
		t.Errorf("Wrong survivor: %s", index.Entries[0].Filename)
	}
	if payloadExists(s, stale.Filename) {
		t.Error("Stale payload file still on disk after eviction")
	}
	if !payloadExists(s, fresh.Filename) {
		t.Error("Fresh payload file was deleted")
	}
}

func TestEvict_AgeBoundaryRetained(t *testing.T) {
	limits := DefaultLimits()
	s := newTestStore(t, limits)

	final := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// Exactly at the cutoff: age equals the retention window.
	setClock(s, final.Add(-limits.MaxAge))
	boundary := mustSave(t, s, "boundary entry", SaveMeta{})

	setClock(s, final)
	mustSave(t, s, "fresh entry", SaveMeta{})

	index, err := s.loadIndex()
	if err != nil {
		t.Fatalf("loadIndex failed: %v", err)
	}
	if len(index.Entries) != 2 {
		t.Fatalf("Expected boundary entry to survive, got %d entries", len(index.Entries))
	}
	if !payloadExists(s, boundary.Filename) {
		t.Error("Boundary payload file was deleted")
	}
}

func TestEvict_CountBound(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxEntries = 3
	s := newTestStore(t, limits)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var saved []SaveResult
	for i := 0; i < 5; i++ {
		setClock(s, base.Add(time.Duration(i)*time.Minute))
		saved = append(saved, mustSave(t, s, "entry "+string(rune('a'+i)), SaveMeta{}))
	}

	index, err := s.loadIndex()
	if err != nil {
		t.Fatalf("loadIndex failed: %v", err)
	}
	if len(index.Entries) != limits.MaxEntries {
		t.Fatalf("Expected %d entries, got %d", limits.MaxEntries, len(index.Entries))
	}

	// The three most recent survive, oldest first in the index.
	for i, want := range saved[2:] {
		if index.Entries[i].Filename != want.Filename {
			t.Errorf("Entry %d: got %s, want %s", i, index.Entries[i].Filename, want.Filename)
		}
	}
	for _, old := range saved[:2] {
		if payloadExists(s, old.Filename) {
			t.Errorf("Evicted payload %s still on disk", old.Filename)
		}
	}
}

func TestEvict_SizeBound(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxTotalBytes = 90
	s := newTestStore(t, limits)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	sizes := []int{10, 20, 70}
	var saved []SaveResult
	for i, n := range sizes {
		setClock(s, base.Add(time.Duration(i)*time.Minute))
		content := make([]byte, n)
		for j := range content {
			content[j] = byte('a' + i)
		}
		saved = append(saved, mustSave(t, s, string(content), SaveMeta{}))
	}

	index, err := s.loadIndex()
	if err != nil {
		t.Fatalf("loadIndex failed: %v", err)
	}

	var total int64
	for _, e := range index.Entries {
		total += e.FileSize
	}
	if total != 90 {
		t.Errorf("Surviving total mismatch: got %d, want 90", total)
	}
	if len(index.Entries) != 2 {
		t.Fatalf("Expected 2 survivors, got %d", len(index.Entries))
	}
	if payloadExists(s, saved[0].Filename) {
		t.Error("Oldest payload should have been evicted first")
	}
	if !payloadExists(s, saved[1].Filename) || !payloadExists(s, saved[2].Filename) {
		t.Error("Surviving payload files missing from disk")
	}
}

func TestEvict_OrphanSweep(t *testing.T) {
	s := newTestStore(t, DefaultLimits())

	// Simulates a partial-write crash: a payload file never referenced by
	// the index.
	orphan := filepath.Join(s.sessionsPath(), "2020-01-01_00-00-00_deadbeef.cache")
	if err := os.WriteFile(orphan, []byte(`{"content":"orphan"}`), 0o644); err != nil {
		t.Fatalf("Failed to plant orphan: %v", err)
	}
	unrelated := filepath.Join(s.sessionsPath(), "notes.txt")
	if err := os.WriteFile(unrelated, []byte("keep me"), 0o644); err != nil {
		t.Fatalf("Failed to plant unrelated file: %v", err)
	}

	res := mustSave(t, s, "real entry", SaveMeta{})

	if _, err := os.Stat(orphan); !os.IsNotExist(err) {
		t.Error("Orphan payload file survived the sweep")
	}
	if !payloadExists(s, res.Filename) {
		t.Error("Indexed payload file was deleted by the sweep")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Error("Sweep touched a file without the payload suffix")
	}
	if _, err := os.Stat(s.indexPath()); err != nil {
		t.Error("Sweep touched the index file")
	}

	if res.Evicted.OrphansRemoved != 1 {
		t.Errorf("Orphan count mismatch: got %d, want 1", res.Evicted.OrphansRemoved)
	}
}

func TestEvict_EmptyCache(t *testing.T) {
	s := newTestStore(t, DefaultLimits())

	stats, err := s.Evict()
	if err != nil {
		t.Fatalf("Evict on empty cache failed: %v", err)
	}
	if stats.Total() != 0 {
		t.Errorf("Expected nothing evicted, got %+v", stats)
	}

	// Eviction persists the final index even when nothing changed.
	if _, err := os.Stat(s.indexPath()); err != nil {
		t.Errorf("Index file not persisted: %v", err)
	}
}

func TestEvict_BoundsApplyInOrder(t *testing.T) {
	// Old entries removed by the age bound must not count against the
	// entry-count bound.
	limits := DefaultLimits()
	limits.MaxEntries = 2
	s := newTestStore(t, limits)

	final := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	setClock(s, final.Add(-limits.MaxAge).Add(-time.Hour))
	mustSave(t, s, "ancient", SaveMeta{})

	setClock(s, final.Add(-2*time.Minute))
	a := mustSave(t, s, "recent a", SaveMeta{})
	setClock(s, final.Add(-time.Minute))
	b := mustSave(t, s, "recent b", SaveMeta{})
	setClock(s, final)
	c := mustSave(t, s, "recent c", SaveMeta{})

	index, err := s.loadIndex()
	if err != nil {
		t.Fatalf("loadIndex failed: %v", err)
	}
	if len(index.Entries) != 2 {
		t.Fatalf("Expected 2 survivors, got %d", len(index.Entries))
	}
	if index.Entries[0].Filename != b.Filename || index.Entries[1].Filename != c.Filename {
		t.Errorf("Wrong survivors: %+v", index.Entries)
	}
	if payloadExists(s, a.Filename) {
		t.Error("Count-evicted payload still on disk")
	}
}
