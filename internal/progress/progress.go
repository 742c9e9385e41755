package progress

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// titleStyle for stage headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle frames the end-of-run report
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

// Printer writes human-facing progress notices. Diagnostics go to the logger;
// this is only what the user watches while a run is going.
type Printer struct {
	w io.Writer
}

func New(w io.Writer) *Printer {
	if w == nil {
		w = io.Discard
	}
	return &Printer{w: w}
}

func (p *Printer) Stage(format string, args ...any) {
	fmt.Fprintln(p.w, titleStyle.Render("▸ "+fmt.Sprintf(format, args...)))
}

// Processing announces section index of total.
func (p *Printer) Processing(index, total int, title string) {
	fmt.Fprintf(p.w, "%s Processing %s...\n", dimStyle.Render(fmt.Sprintf("[%d/%d]", index, total)), title)
}

func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.w, warnStyle.Render("⚠ Warning: "+fmt.Sprintf(format, args...)))
}

func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.w, errorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Report renders label/value rows in a box.
func (p *Printer) Report(title string, rows [][2]string) {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(r[0] + ":"))
		b.WriteString(" ")
		b.WriteString(r[1])
	}
	fmt.Fprintln(p.w, boxStyle.Render(b.String()))
}
