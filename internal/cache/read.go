package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// MostRecent loads the full entry with the newest timestamp.
func (s *Store) MostRecent() (Entry, error) {
	index, err := s.loadIndex()
	if err != nil {
		return Entry{}, err
	}
	if len(index.Entries) == 0 {
		return Entry{}, ErrEmptyCache
	}

	newest := index.Entries[0]
	for _, e := range index.Entries[1:] {
		if e.Timestamp.After(newest.Timestamp) {
			newest = e
		}
	}
	return s.Load(newest.Filename)
}

// Load reads and decodes one payload file by its index filename.
func (s *Store) Load(filename string) (Entry, error) {
	path := filepath.Join(s.sessionsPath(), filename)

	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %s: %w", ErrMissingPayload, path, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, fmt.Errorf("%w: %s: %w", ErrMissingPayload, path, err)
	}
	return entry, nil
}

// List returns all index records sorted newest-first. A missing index is an
// empty listing, not an error.
func (s *Store) List() ([]IndexEntry, error) {
	index, err := s.loadIndex()
	if err != nil {
		return nil, err
	}

	entries := index.Entries
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

// Clear deletes the entire sessions directory and recreates it empty.
// Clearing an already-empty cache succeeds.
func (s *Store) Clear() error {
	dir := s.sessionsPath()

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove cache directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to recreate cache directory %s: %w", dir, err)
	}
	return nil
}
