// Package tui is the interactive target picker for the standalone preview
// command: it lists previewable documents and project roots under a
// directory and returns the user's choice.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxVisible = 15

// Item is one pickable preview target.
type Item struct {
	Path      string // relative to the scanned root
	IsProject bool   // directory containing the project marker
}

// Run shows the picker over the previewable targets under root. It returns
// the chosen path relative to root, or "" if the user cancelled.
func Run(root string, exts []string, marker string) (string, error) {
	items, err := Scan(root, exts, marker)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", fmt.Errorf("no previewable documents under %s", root)
	}
	m := newModel(items)
	p := tea.NewProgram(&m)
	if _, err := p.Run(); err != nil {
		return "", err
	}
	return m.chosen, nil
}

// ===== Model =====

type model struct {
	items    []Item
	filtered []Item
	cursor   int
	input    textinput.Model
	chosen   string
}

func newModel(items []Item) model {
	ti := textinput.New()
	ti.Placeholder = "filter documents and projects"
	ti.Prompt = "> "
	ti.Focus()
	return model{
		items:    items,
		filtered: items,
		input:    ti,
	}
}

func (m *model) Init() tea.Cmd { return textinput.Blink }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.chosen = ""
			return m, tea.Quit
		case "enter":
			if len(m.filtered) > 0 {
				m.chosen = m.filtered[m.cursor].Path
			}
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filtered = Filter(m.items, m.input.Value())
	if m.cursor >= len(m.filtered) {
		m.cursor = 0
	}
	return m, cmd
}

// ===== View =====

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3D6DFF"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2AA876")).Bold(true)
	projectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0AD4E"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("quarto-preview: pick a target") + "\n")
	b.WriteString(m.input.View() + "\n\n")

	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	end := start + maxVisible
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	for i := start; i < end; i++ {
		it := m.filtered[i]
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		label := it.Path
		if it.IsProject {
			label = projectStyle.Render(label + "/ (project)")
		}
		b.WriteString(marker + label + "\n")
	}
	if len(m.filtered) == 0 {
		b.WriteString(mutedStyle.Render("  (no matches)") + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("enter: preview  •  esc: cancel") + "\n")
	return b.String()
}

// Filter keeps the items whose path contains every space-separated term of
// query, case-insensitively.
func Filter(items []Item, query string) []Item {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		hay := strings.ToLower(it.Path)
		ok := true
		for _, term := range terms {
			if !strings.Contains(hay, term) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, it)
		}
	}
	return out
}
