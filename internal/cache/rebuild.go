package cache

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Rebuild reconstructs the index from the payload files on disk. It exists
// for recovery after index corruption and only runs on demand, never as
// part of a normal load. Unreadable payload files are skipped with a log
// line. Returns the number of recovered entries.
func (s *Store) Rebuild() (int, error) {
	dirEntries, err := os.ReadDir(s.sessionsPath())
	if err != nil {
		return 0, err
	}

	var index Index
	for _, de := range dirEntries {
		name := de.Name()
		if !strings.HasSuffix(name, fileSuffix) {
			continue
		}

		entry, err := s.Load(name)
		if err != nil {
			log.Debug("skipping unreadable cache file during rebuild", "file", name, "err", err)
			continue
		}

		index.Entries = append(index.Entries, IndexEntry{
			Filename:        name,
			Timestamp:       entry.Timestamp,
			TokenCount:      entry.TokenCount,
			TokenCounter:    entry.TokenCounter,
			FileSize:        entry.FileSize,
			SourceFileCount: entry.SourceFileCount,
			ArgsUsed:        entry.ArgsUsed,
			WorkingDir:      entry.WorkingDir,
		})
	}

	// Payload filenames sort by timestamp, so this restores append order.
	sortOldestFirst(index.Entries)

	if err := s.persistIndex(index); err != nil {
		return 0, err
	}

	// Drop the recovered set back under the retention bounds.
	if _, err := s.Evict(); err != nil {
		return 0, err
	}

	log.Debug("rebuilt cache index",
		"path", filepath.Join(s.sessionsPath(), indexFile),
		"entries", len(index.Entries),
	)
	return len(index.Entries), nil
}
