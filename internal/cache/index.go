package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store gives access to one cache directory. The directory and its index
// are shared, unsynchronized state across separate process invocations;
// within a single Store all operations are strictly sequential.
type Store struct {
	root   string
	limits Limits

	// now is the UTC clock; tests substitute it to steer timestamps.
	now func() time.Time
}

// New returns a Store over a resolved cache root directory.
func New(root string, limits Limits) *Store {
	return &Store{
		root:   root,
		limits: limits,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Root returns the cache root directory.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) sessionsPath() string {
	return filepath.Join(s.root, sessionsDir)
}

func (s *Store) indexPath() string {
	return filepath.Join(s.sessionsPath(), indexFile)
}

// loadIndex reads the whole index. A missing index file is an empty cache,
// never an error. A present but unparsable index is a hard stop for the
// calling operation.
func (s *Store) loadIndex() (Index, error) {
	var index Index

	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return index, nil
		}
		return index, fmt.Errorf("failed to read cache index: %w", err)
	}

	if err := json.Unmarshal(data, &index); err != nil {
		return Index{}, fmt.Errorf("%w: %s: %w", ErrCorruptIndex, s.indexPath(), err)
	}
	return index, nil
}

// persistIndex serializes the whole index and replaces the index file.
// The write goes to a temp file first and is moved into place with a
// rename, so a crash mid-write never leaves a truncated index behind.
func (s *Store) persistIndex(index Index) error {
	data, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to serialize cache index: %w", err)
	}
	return atomicWrite(s.indexPath(), data)
}

// atomicWrite writes data to a temp file next to path, then renames it
// into place.
func atomicWrite(path string, data []byte) error {
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tempPath, err)
	}

	_, err = file.Write(data)
	closeErr := file.Close()

	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write %s: %w", tempPath, err)
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close %s: %w", tempPath, closeErr)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
