package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// newLogger builds the stderr logger. verbose forces debug level; level
// defaults to warn. Timestamps are only written when w is not a terminal.
func newLogger(w io.Writer, verbose bool, level string) (*log.Logger, error) {
	lvl := log.WarnLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}
	if verbose {
		lvl = log.DebugLevel
	}

	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "cite",
		ReportTimestamp: !tty,
	}), nil
}
