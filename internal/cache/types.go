package cache

import (
	"errors"
	"time"
)

// Common errors for cache operations
var (
	// ErrConfig is returned when the cache directory cannot be resolved or created
	ErrConfig = errors.New("cache directory unavailable")

	// ErrCorruptIndex is returned when the index file exists but cannot be parsed
	ErrCorruptIndex = errors.New("cache index corrupted")

	// ErrMissingPayload is returned when the index references a file that cannot be read
	ErrMissingPayload = errors.New("cache payload missing")

	// ErrEmptyCache is returned when no entries are available for lookup
	ErrEmptyCache = errors.New("cache is empty")
)

const (
	// dirName is the cache root directory name under XDG_CACHE_HOME or ~/.cache.
	dirName = "xhinobi"

	// sessionsDir holds the payload files and the index, beneath the cache root.
	sessionsDir = "sessions"

	// indexFile enumerates all entries without their payload bodies.
	indexFile = "cache_index.json"

	// fileSuffix marks payload files; the orphan sweep only touches files with it.
	fileSuffix = ".cache"

	// filenameLayout is the sortable timestamp prefix of payload filenames.
	filenameLayout = "2006-01-02_15-04-05"
)

// Entry is one cached aggregation result, persisted one-per-file.
// It is created exactly once at save time and never mutated.
type Entry struct {
	Timestamp       time.Time `json:"timestamp"`
	Content         string    `json:"content"`
	TokenCount      int       `json:"token_count"`
	TokenCounter    string    `json:"token_counter,omitempty"`
	FileSize        int64     `json:"file_size"`
	SourceFileCount int       `json:"source_file_count"`
	ArgsUsed        string    `json:"args_used"`
	WorkingDir      string    `json:"working_dir"`
}

// IndexEntry is the lightweight projection of an Entry: everything but the
// payload, plus the name of the on-disk file holding the full record.
type IndexEntry struct {
	Filename        string    `json:"filename"`
	Timestamp       time.Time `json:"timestamp"`
	TokenCount      int       `json:"token_count"`
	TokenCounter    string    `json:"token_counter,omitempty"`
	FileSize        int64     `json:"file_size"`
	SourceFileCount int       `json:"source_file_count"`
	ArgsUsed        string    `json:"args_used"`
	WorkingDir      string    `json:"working_dir"`
}

// Index enumerates all cache entries. It is the single source of truth:
// payload files are never scanned to discover entries, only to reconcile.
// On-disk order is append order from saves.
type Index struct {
	Entries []IndexEntry `json:"entries"`
}

// Limits holds the three independent eviction bounds.
type Limits struct {
	MaxEntries    int           // maximum number of surviving entries
	MaxTotalBytes int64         // byte budget summed over stored file_size values
	MaxAge        time.Duration // retention window measured back from now
}

// DefaultLimits returns the standard retention policy: 50 entries,
// 100MB total, 90 days.
func DefaultLimits() Limits {
	return Limits{
		MaxEntries:    50,
		MaxTotalBytes: 100 * 1024 * 1024,
		MaxAge:        90 * 24 * time.Hour,
	}
}

// SaveMeta carries the scalar metadata stored alongside a payload.
type SaveMeta struct {
	SourceFileCount int
	ArgsUsed        string
	TokenCount      int
	TokenCounter    string
}

// SaveResult reports what a save stored, for display by the caller.
type SaveResult struct {
	Filename string
	Bytes    int64
	Tokens   int
	Evicted  EvictStats
}

// EvictStats counts what an eviction pass removed. FailedDeletes counts
// best-effort file deletions that did not succeed; those files remain as
// orphans until a later pass.
type EvictStats struct {
	AgeEvicted     int
	CountEvicted   int
	SizeEvicted    int
	OrphansRemoved int
	FailedDeletes  int
}

// Total returns the number of index entries removed by the bound passes.
func (s EvictStats) Total() int {
	return s.AgeEvicted + s.CountEvicted + s.SizeEvicted
}
