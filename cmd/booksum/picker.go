package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/thywilljoshua/booksum/internal/pipeline"
)

var pickerTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

type pickerModel struct {
	fp       filepicker.Model
	selected string
}

func newPickerModel(dir string) pickerModel {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf"}
	fp.CurrentDirectory = dir
	return pickerModel{fp: fp}
}

func (m pickerModel) Init() tea.Cmd { return m.fp.Init() }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.fp, cmd = m.fp.Update(msg)
	if ok, path := m.fp.DidSelectFile(msg); ok {
		m.selected = path
		return m, tea.Quit
	}
	return m, cmd
}

func (m pickerModel) View() string {
	return pickerTitle.Render("Select a PDF to summarize (q to cancel)") + "\n\n" + m.fp.View() + "\n"
}

// pickDocument lets the user choose a PDF interactively. Without a terminal,
// or when the user cancels, it reports that no document was selected.
func pickDocument(ctx context.Context) (string, error) {
	if fi, err := os.Stdin.Stat(); err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		return "", pipeline.ErrNoDocument
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	final, err := tea.NewProgram(newPickerModel(dir), tea.WithContext(ctx), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return "", fmt.Errorf("file picker: %w", err)
	}
	m, ok := final.(pickerModel)
	if !ok || m.selected == "" {
		return "", pipeline.ErrNoDocument
	}
	return m.selected, nil
}
