package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

var keywordStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "36", Dark: "86"})

// keyword colors a word for emphasis in status lines and help text.
func keyword(s string) string {
	return keywordStyle.Render(s)
}

// paragraph wraps and indents long-form command help.
func paragraph(s string) string {
	return strings.TrimRight(indent.String(wordwrap.String(s, 78), 2), "\n")
}
