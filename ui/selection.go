// Package ui provides the interactive picker for cached sessions.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"

	"github.com/xhinobi/xhinobi/internal/cache"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}).MarginBottom(1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"})
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"})
	helpStyle     = dimStyle.MarginTop(1)
)

const visibleRows = 10

// Select runs the picker over entries (expected newest-first) and returns
// the chosen entry, or nil if the user cancelled.
func Select(entries []cache.IndexEntry) (*cache.IndexEntry, error) {
	m := newModel(entries)

	out, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, fmt.Errorf("unable to run picker: %w", err)
	}

	final, ok := out.(model)
	if !ok || final.choice < 0 {
		return nil, nil
	}
	return &final.entries[final.choice], nil
}

type model struct {
	entries []cache.IndexEntry
	rows    []string // rendered once, filtered against

	visible   []int // indices into entries, after filtering
	cursor    int
	offset    int
	filtering bool
	filter    textinput.Model

	choice int // index into entries; -1 until chosen
}

func newModel(entries []cache.IndexEntry) model {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/"

	rows := make([]string, len(entries))
	visible := make([]int, len(entries))
	for i, e := range entries {
		rows[i] = entryRow(i, e)
		visible[i] = i
	}

	return model{
		entries: entries,
		rows:    rows,
		visible: visible,
		filter:  ti,
		choice:  -1,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFiltering(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "/":
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink
	case "enter":
		if len(m.visible) > 0 {
			m.choice = m.visible[m.cursor]
			log.Debug("cache entry selected", "file", m.entries[m.choice].Filename)
		}
		return m, tea.Quit
	}
	m.scroll()
	return m, nil
}

func (m model) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.filtering = false
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	case "enter":
		m.filtering = false
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter recomputes the visible rows with a fuzzy match against the
// rendered row text.
func (m *model) applyFilter() {
	query := m.filter.Value()
	if query == "" {
		m.visible = m.visible[:0]
		for i := range m.entries {
			m.visible = append(m.visible, i)
		}
	} else {
		matches := fuzzy.Find(query, m.rows)
		m.visible = m.visible[:0]
		for _, match := range matches {
			m.visible = append(m.visible, match.Index)
		}
	}

	if m.cursor >= len(m.visible) {
		m.cursor = max(0, len(m.visible)-1)
	}
	m.scroll()
}

// scroll keeps the cursor inside the visible window.
func (m *model) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visibleRows {
		m.offset = m.cursor - visibleRows + 1
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Select a cache entry to copy to clipboard:"))
	b.WriteString("\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	if len(m.visible) == 0 {
		b.WriteString(dimStyle.Render("  (no matching entries)"))
		b.WriteString("\n")
	}

	end := min(m.offset+visibleRows, len(m.visible))
	for pos := m.offset; pos < end; pos++ {
		row := m.rows[m.visible[pos]]
		if pos == m.cursor {
			b.WriteString(selectedStyle.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ move · / filter · enter copy · q quit"))
	return b.String()
}
