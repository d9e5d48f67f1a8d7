// Package output provides terminal output formatting utilities for the
// changelog-md CLI. It has no internal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// DefaultWidth is used when the width of the output cannot be detected.
const DefaultWidth = 80

// fd returns the file descriptor behind w, or false if w is not a file.
func fd(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	return int(f.Fd()), true
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	n, ok := fd(w)
	return ok && term.IsTerminal(n)
}

// GetTerminalWidth returns the width of the terminal behind w, defaulting to
// DefaultWidth if unavailable.
func GetTerminalWidth(w io.Writer) int {
	if n, ok := fd(w); ok {
		if width, _, err := term.GetSize(n); err == nil && width > 0 {
			return width
		}
	}
	return DefaultWidth
}

// ConfigureColor disables color output when plain is set or w is not a
// terminal. NO_COLOR is honoured by fatih/color itself.
func ConfigureColor(w io.Writer, plain bool) {
	if (plain || !IsTerminal(w)) && !color.NoColor {
		color.NoColor = true
	}
}

// PrintWatchSeparator prints a dim rule naming the file and the time of the
// render, so successive renders in watch mode are easy to tell apart.
func PrintWatchSeparator(out io.Writer, path string, at time.Time) {
	termWidth := GetTerminalWidth(out)
	magenta := color.New(color.FgMagenta, color.Faint).SprintFunc()

	label := fmt.Sprintf(" %s %s ", path, at.Format(time.TimeOnly))
	lineLen := (termWidth - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "%s%s%s\n", magenta(line), magenta(label), magenta(line))
}
