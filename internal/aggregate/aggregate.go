// Package aggregate turns a list of input files into the single text blob
// that gets copied to the clipboard and cached.
package aggregate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/muesli/gitcha"

	"github.com/xhinobi/xhinobi/internal/decomment"
)

// Options selects how input files are read and assembled.
type Options struct {
	PrependFileName bool
	Minify          bool
	Tree            bool
	Decomment       bool
	Ignore          []string // glob patterns matched against the input path
}

// File is one input file's contribution to the output.
type File struct {
	Text string
	Name string // display name, "<basename>"
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ReadPaths reads newline-separated file paths, skipping empty lines.
func ReadPaths(r io.Reader) []string {
	var paths []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			paths = append(paths, line)
		}
	}
	return paths
}

// Discover walks dir for known text files, honoring .gitignore files along
// the way. Used when no file list arrives on stdin.
func Discover(dir string, ignore []string) ([]string, error) {
	ch, err := gitcha.FindFilesExcept(dir, []string{"*"}, ignore)
	if err != nil {
		return nil, fmt.Errorf("unable to search %s: %w", dir, err)
	}

	var paths []string
	for res := range ch {
		if res.Info.IsDir() || !IsTextFile(filepath.Base(res.Path)) {
			continue
		}
		if rel, err := filepath.Rel(dir, res.Path); err == nil {
			paths = append(paths, rel)
		}
	}
	return paths, nil
}

// Gather reads every input file, applying ignore patterns, text-file
// detection and optional comment stripping. Unreadable files are logged and
// skipped; binary-looking files contribute their basename only.
func Gather(paths []string, opts Options) []File {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	var files []File
outer:
	for _, p := range paths {
		if p == "" {
			continue
		}
		for _, pattern := range opts.Ignore {
			if ok, err := filepath.Match(pattern, p); err == nil && ok {
				continue outer
			}
		}

		path := p
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, p)
		}
		basename := filepath.Base(path)

		var text string
		if IsTextFile(basename) {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Error("Error reading file", "file", p, "err", err)
				continue
			}
			text = string(data)
		} else {
			text = basename
		}

		if opts.Decomment {
			if stripped, ok := decomment.Strip(basename, text); ok {
				text = stripped
			}
		}

		files = append(files, File{
			Text: text,
			Name: "<" + basename + ">",
		})
	}
	return files
}

// Build assembles the final output: optional tree header, each file's text
// with an optional name prefix, and optional whitespace minification.
func Build(files []File, opts Options) string {
	var out strings.Builder

	if opts.Tree {
		out.WriteString(treeOutput(opts.Ignore))
	}

	for _, f := range files {
		if opts.PrependFileName {
			out.WriteString(f.Name)
			out.WriteString(" ")
		}
		out.WriteString(f.Text)
	}

	result := out.String()
	if opts.Minify {
		result = strings.TrimSpace(whitespaceRun.ReplaceAllString(result, " "))
	}
	return result
}

// treeOutput shells out to the tree command for a directory listing header.
// A missing binary degrades to an empty header with a warning.
func treeOutput(ignore []string) string {
	if _, err := exec.LookPath("tree"); err != nil {
		log.Warn("'tree' command not found, skipping tree generation")
		return ""
	}

	args := []string{"-I", "node_modules|dist|vendor|*.log|tmp|images|go.sum|*.lock"}
	for _, pattern := range ignore {
		args = append(args, "-I", pattern)
	}

	out, err := exec.Command("tree", args...).Output()
	if err != nil {
		log.Warn("'tree' command finished with an error", "err", err)
		return ""
	}
	return "--- FOLDER TREE ---\n" + string(out) + "\n--- FILE CONTENT ---\n\n"
}
