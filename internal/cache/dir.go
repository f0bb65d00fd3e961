package cache

import (
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
)

// ResolveDir computes the cache root directory and ensures the sessions
// subdirectory beneath it exists. An explicit override wins; otherwise
// XDG_CACHE_HOME is used, falling back to ~/.cache. Idempotent, and
// side-effect-free beyond directory creation.
func ResolveDir(override string) (string, error) {
	root := override
	if root == "" {
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			root = filepath.Join(xdg, dirName)
		} else {
			home, err := homedir.Dir()
			if err != nil {
				return "", fmt.Errorf("%w: could not find home directory: %w", ErrConfig, err)
			}
			root = filepath.Join(home, ".cache", dirName)
		}
	}

	if err := os.MkdirAll(filepath.Join(root, sessionsDir), 0o755); err != nil {
		return "", fmt.Errorf("%w: could not create %s: %w", ErrConfig, root, err)
	}
	return root, nil
}
