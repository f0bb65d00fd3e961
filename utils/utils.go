// Package utils provides small helpers shared across the CLI.
package utils

import (
	"os"

	homedir "github.com/mitchellh/go-homedir"
)

// ExpandPath expands a leading ~ and any environment variables in path.
func ExpandPath(path string) string {
	if expanded, err := homedir.Expand(path); err == nil {
		path = expanded
	}
	return os.ExpandEnv(path)
}
