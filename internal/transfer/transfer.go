// Package transfer moves aggregated text to the user: local clipboard,
// OSC52 escape sequence for remote terminals, or a temp file opened in an
// editor for cloud shells without clipboard access.
package transfer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/editor"
	"github.com/muesli/termenv"
)

// tempFileName is the file written for cloud-shell handoff.
const tempFileName = "tempfile.txt"

// Method names reported back for the status line.
const (
	MethodOSC52     = "OSC52"
	MethodClipboard = "clipboard"
	MethodEditor    = "editor"
)

// Copy delivers content using the best available strategy. OSC52 is used
// when forced; cloud shells get a temp file opened in an editor; everything
// else goes through the system clipboard.
func Copy(content string, osc52 bool) (string, error) {
	if osc52 {
		termenv.Copy(content)
		return MethodOSC52, nil
	}

	env := DetectEnvironment()
	if env.IsCloud() {
		if err := openInEditor(content, env); err != nil {
			return "", err
		}
		return MethodEditor, nil
	}

	if err := clipboard.WriteAll(content); err != nil {
		return "", fmt.Errorf("unable to write to clipboard: %w", err)
	}
	return MethodClipboard, nil
}

// openInEditor writes content to a well-known temp file and opens it.
// Google Cloud Shell gets its own open command; elsewhere the user's
// editor is used.
func openInEditor(content string, env Environment) error {
	path := tempFilePath(env)

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("unable to write temp file %s: %w", path, err)
	}
	log.Debug("wrote transfer temp file", "path", path, "bytes", len(content))

	if env.IsGoogleCloud() {
		if err := exec.Command("cloudshell", "open", path).Start(); err != nil {
			return fmt.Errorf("unable to open %s in cloudshell: %w", path, err)
		}
		return nil
	}

	c, err := editor.Cmd("xhinobi", path)
	if err != nil {
		return fmt.Errorf("unable to resolve editor: %w", err)
	}
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("unable to open %s in editor: %w", path, err)
	}
	return nil
}

// tempFilePath keeps the handoff file in the home directory on cloud
// shells, where the workspace survives, and in the system temp dir
// elsewhere.
func tempFilePath(env Environment) string {
	if env.IsCloud() && env.Home != "" {
		return filepath.Join(env.Home, tempFileName)
	}
	return filepath.Join(os.TempDir(), tempFileName)
}
