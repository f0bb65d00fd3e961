package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// newTestStore returns a Store rooted in a fresh temp directory with its
// sessions subdirectory created, using a clock the test can reassign.
func newTestStore(t *testing.T, limits Limits) *Store {
	t.Helper()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, sessionsDir), 0o755); err != nil {
		t.Fatalf("Failed to create sessions dir: %v", err)
	}
	return New(root, limits)
}

// setClock pins the store's clock to a fixed instant.
func setClock(s *Store, at time.Time) {
	s.now = func() time.Time { return at }
}

func mustSave(t *testing.T, s *Store, content string, meta SaveMeta) SaveResult {
	t.Helper()

	res, err := s.Save(content, meta)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return res
}

func sessionFiles(t *testing.T, s *Store) []string {
	t.Helper()

	dirEntries, err := os.ReadDir(s.sessionsPath())
	if err != nil {
		t.Fatalf("Failed to read sessions dir: %v", err)
	}

	var names []string
	for _, de := range dirEntries {
		names = append(names, de.Name())
	}
	return names
}

func payloadExists(s *Store, filename string) bool {
	_, err := os.Stat(filepath.Join(s.sessionsPath(), filename))
	return err == nil
}
