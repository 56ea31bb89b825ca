package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

const (
	fallbackWidth  = 100
	minRenderWidth = 40
)

// Terminal describes the stream human output is written to.
type Terminal struct {
	Width int
	TTY   bool
}

// DetectTerminal inspects f. Pipes and files get the fallback width.
func DetectTerminal(f *os.File) Terminal {
	fd := f.Fd()
	t := Terminal{
		Width: fallbackWidth,
		TTY:   isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
	if t.TTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			t.Width = w
		}
	}
	return t
}

// RenderWidth is the wrap width for rendered markdown inside both margins.
func (t Terminal) RenderWidth() int {
	w := t.Width - 2*MarkdownRenderMargin
	if w < minRenderWidth {
		return minRenderWidth
	}
	return w
}
