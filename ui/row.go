package ui

import (
	"fmt"
	"strings"

	humanize "github.com/dustin/go-humanize"
	runewidth "github.com/mattn/go-runewidth"
	homedir "github.com/mitchellh/go-homedir"

	"github.com/xhinobi/xhinobi/internal/cache"
	"github.com/xhinobi/xhinobi/internal/token"
)

const maxDirWidth = 40

// entryRow renders one index entry as a picker line:
//
//	[01] 02 Jun 2024 15:04 | 1.2 kB | est. 42 tokens | 3 files | ~/proj
func entryRow(i int, e cache.IndexEntry) string {
	return fmt.Sprintf("[%02d] %s | %s | %s%d tokens | %d files | %s",
		i+1,
		e.Timestamp.Local().Format("02 Jan 2006 15:04"),
		humanize.Bytes(uint64(e.FileSize)),
		token.Prefix(e.TokenCounter),
		e.TokenCount,
		e.SourceFileCount,
		displayDir(e.WorkingDir),
	)
}

// displayDir collapses the home directory to ~ and truncates long paths
// from the left, keeping the most specific part.
func displayDir(dir string) string {
	if home, err := homedir.Dir(); err == nil && home != "" {
		if strings.HasPrefix(dir, home) {
			dir = "~" + strings.TrimPrefix(dir, home)
		}
	}

	if runewidth.StringWidth(dir) <= maxDirWidth {
		return dir
	}
	return "…" + runewidth.TruncateLeft(dir, runewidth.StringWidth(dir)-maxDirWidth+1, "")
}
