package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// palette is a small stylesheet for CLI status lines, bound to the runner's output so that
// non-terminal writers receive plain text.
type palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	bold := func(fg string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(fg)).Bold(true)
	}

	return &palette{
		title: bold("#7D56F4"),
		ok:    bold("#04B575"),
		err:   bold("#FF0000"),
	}
}

// writeOK writes a ✓-prefixed status line.
func (r *Runner) writeOK(format string, args ...any) error {
	return r.writePlain(r.palette.ok.Render("✓")+" "+format+"\n", args...)
}

// writeFailed writes a ✗-prefixed status line.
func (r *Runner) writeFailed(format string, args ...any) error {
	return r.writePlain(r.palette.err.Render("✗")+" "+format+"\n", args...)
}

func (r *Runner) writeTitle(title string) error {
	return r.writePlain("%s\n", r.palette.title.Render(title))
}
