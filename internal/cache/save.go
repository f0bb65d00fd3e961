package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
)

// Save persists one aggregation result: it writes the full entry to a new
// payload file, appends the lightweight record to the index, then runs an
// eviction pass over the updated directory state.
func (s *Store) Save(content string, meta SaveMeta) (SaveResult, error) {
	timestamp := s.now()
	filename := payloadFilename(timestamp, content)

	workingDir, err := os.Getwd()
	if err != nil {
		workingDir = "."
	}

	entry := Entry{
		Timestamp:       timestamp,
		Content:         content,
		TokenCount:      meta.TokenCount,
		TokenCounter:    meta.TokenCounter,
		FileSize:        int64(len(content)),
		SourceFileCount: meta.SourceFileCount,
		ArgsUsed:        meta.ArgsUsed,
		WorkingDir:      workingDir,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return SaveResult{}, fmt.Errorf("failed to serialize cache entry: %w", err)
	}
	path := filepath.Join(s.sessionsPath(), filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return SaveResult{}, fmt.Errorf("failed to write cache file %s: %w", path, err)
	}

	if err := s.appendToIndex(entry, filename); err != nil {
		// The payload file stays behind; the next eviction's orphan
		// sweep removes it since it never made it into the index.
		return SaveResult{}, err
	}

	stats, err := s.Evict()
	if err != nil {
		return SaveResult{}, err
	}

	log.Debug("saved cache entry",
		"file", filename,
		"bytes", entry.FileSize,
		"tokens", entry.TokenCount,
		"evicted", stats.Total(),
	)

	return SaveResult{
		Filename: filename,
		Bytes:    entry.FileSize,
		Tokens:   entry.TokenCount,
		Evicted:  stats,
	}, nil
}

// appendToIndex loads the index, appends the projection of entry, and
// persists the result.
func (s *Store) appendToIndex(entry Entry, filename string) error {
	index, err := s.loadIndex()
	if err != nil {
		return err
	}

	index.Entries = append(index.Entries, IndexEntry{
		Filename:        filename,
		Timestamp:       entry.Timestamp,
		TokenCount:      entry.TokenCount,
		TokenCounter:    entry.TokenCounter,
		FileSize:        entry.FileSize,
		SourceFileCount: entry.SourceFileCount,
		ArgsUsed:        entry.ArgsUsed,
		WorkingDir:      entry.WorkingDir,
	})

	return s.persistIndex(index)
}

// payloadFilename derives the on-disk name for a payload: a sortable
// second-granularity timestamp plus a short content fingerprint, so two
// saves within the same second only collide when the content is identical.
func payloadFilename(timestamp time.Time, content string) string {
	fingerprint := fmt.Sprintf("%016x", xxhash.Sum64String(content))[:8]
	return timestamp.Format(filenameLayout) + "_" + fingerprint + fileSuffix
}
