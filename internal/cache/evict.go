package cache

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// Evict enforces the three retention bounds against the entire index, in
// fixed order: age, then entry count, then total size. Each bound operates
// on the survivors of the previous one. Afterwards a reconciliation sweep
// deletes every payload file absent from the surviving index, and the final
// index is persisted.
//
// File deletion failures are best-effort: they are counted, logged at debug
// level and otherwise ignored, so eviction always completes and the index
// always reflects intended state. A lingering file is an orphan the next
// pass retries.
func (s *Store) Evict() (EvictStats, error) {
	var stats EvictStats

	index, err := s.loadIndex()
	if err != nil {
		return stats, err
	}

	index.Entries = s.applyAgeBound(index.Entries, &stats)
	index.Entries = s.applyCountBound(index.Entries, &stats)
	index.Entries = s.applySizeBound(index.Entries, &stats)

	s.sweepOrphans(index.Entries, &stats)

	if err := s.persistIndex(index); err != nil {
		return stats, err
	}
	return stats, nil
}

// applyAgeBound drops every entry older than the retention window.
// An entry exactly at the cutoff is retained.
func (s *Store) applyAgeBound(entries []IndexEntry, stats *EvictStats) []IndexEntry {
	cutoff := s.now().Add(-s.limits.MaxAge)

	kept := entries[:0]
	for _, e := range entries {
		if e.Timestamp.Before(cutoff) {
			stats.AgeEvicted++
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// applyCountBound keeps only the newest MaxEntries entries, truncating from
// the oldest end.
func (s *Store) applyCountBound(entries []IndexEntry, stats *EvictStats) []IndexEntry {
	if len(entries) <= s.limits.MaxEntries {
		return entries
	}

	sortOldestFirst(entries)
	drop := len(entries) - s.limits.MaxEntries
	stats.CountEvicted += drop
	return entries[drop:]
}

// applySizeBound sums the stored file_size of the survivors and removes the
// oldest entry, deleting its payload file, until the total fits the byte
// budget or nothing is left. Sizes are trusted as stored, never re-read.
func (s *Store) applySizeBound(entries []IndexEntry, stats *EvictStats) []IndexEntry {
	var total int64
	for _, e := range entries {
		total += e.FileSize
	}
	if total <= s.limits.MaxTotalBytes {
		return entries
	}

	sortOldestFirst(entries)
	for total > s.limits.MaxTotalBytes && len(entries) > 0 {
		oldest := entries[0]
		total -= oldest.FileSize
		entries = entries[1:]
		stats.SizeEvicted++
		s.removeFile(filepath.Join(s.sessionsPath(), oldest.Filename), stats)
	}
	return entries
}

// sweepOrphans deletes every payload file in the sessions directory whose
// name is not referenced by a surviving index entry. It only touches files
// ending in the payload suffix; the index file itself and anything
// unrelated are left alone.
func (s *Store) sweepOrphans(entries []IndexEntry, stats *EvictStats) {
	referenced := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		referenced[e.Filename] = struct{}{}
	}

	dirEntries, err := os.ReadDir(s.sessionsPath())
	if err != nil {
		log.Debug("could not list sessions directory", "dir", s.sessionsPath(), "err", err)
		return
	}

	for _, de := range dirEntries {
		name := de.Name()
		if !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		if _, ok := referenced[name]; ok {
			continue
		}
		if s.removeFile(filepath.Join(s.sessionsPath(), name), stats) {
			stats.OrphansRemoved++
		}
	}
}

// removeFile deletes a payload file, counting and logging failures instead
// of surfacing them.
func (s *Store) removeFile(path string, stats *EvictStats) bool {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		stats.FailedDeletes++
		log.Debug("could not remove cache file", "path", path, "err", err)
		return false
	}
	return true
}

func sortOldestFirst(entries []IndexEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}
