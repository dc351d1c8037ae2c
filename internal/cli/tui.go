package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zestlabs/zest/pkg/errors"
	"github.com/zestlabs/zest/pkg/manifest"
)

// List styles.
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// manifestEntry is one selectable manifest file.
type manifestEntry struct {
	Path    string
	Circuit string // declared circuit name, or "" when the file does not parse
}

// ManifestPickerModel is the bubbletea model for interactive manifest
// selection when several candidates exist in the working directory.
type ManifestPickerModel struct {
	Entries  []manifestEntry
	Cursor   int
	Selected *manifestEntry
}

// NewManifestPickerModel creates a picker over the given manifest paths,
// annotating each with its declared circuit name where readable.
func NewManifestPickerModel(paths []string) ManifestPickerModel {
	entries := make([]manifestEntry, len(paths))
	for i, path := range paths {
		entries[i] = manifestEntry{Path: path}
		if f, err := manifest.Load(path); err == nil {
			entries[i].Circuit = f.Name
		}
	}
	return ManifestPickerModel{Entries: entries}
}

func (m ManifestPickerModel) Init() tea.Cmd {
	return nil
}

func (m ManifestPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Entries[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ManifestPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Circuit Manifest"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, e := range m.Entries {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		var status string
		if e.Circuit != "" {
			status = StyleSuccess.Render("*")
		} else {
			status = StyleWarning.Render("!")
		}

		name := e.Circuit
		if name == "" {
			name = "unreadable"
		}
		line := fmt.Sprintf("%s%s %-30s  %s", cursor, status, e.Path, listDimStyle.Render(name))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if e.Circuit == "" {
			b.WriteString(listDimStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s valid   %s failed to parse\n",
		StyleSuccess.Render("*"), StyleWarning.Render("!")))

	return b.String()
}

// pickManifest runs the interactive picker and returns the chosen path.
func pickManifest(paths []string) (string, error) {
	program := tea.NewProgram(NewManifestPickerModel(paths))
	final, err := program.Run()
	if err != nil {
		return "", err
	}
	model, ok := final.(ManifestPickerModel)
	if !ok || model.Selected == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "no manifest selected")
	}
	return model.Selected.Path, nil
}
