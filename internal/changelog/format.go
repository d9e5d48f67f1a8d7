package changelog

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

var (
	versionColor    = color.New(color.Bold)
	dateColor       = color.New(color.Faint)
	unreleasedColor = color.New(color.FgYellow)
)

// FormatEntries writes one line per entry: version, date and title.
// Titles are truncated to fit the terminal unless Plain is set.
func FormatEntries(entries []Entry, w io.Writer, opts FormatOptions) error {
	if len(entries) == 0 {
		return nil
	}

	versionWidth := 0
	for _, e := range entries {
		versionWidth = max(versionWidth, runewidth.StringWidth(entryVersion(e)))
	}

	if opts.Plain {
		for _, e := range entries {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", entryVersion(e), entryDate(e), e.Title); err != nil {
				return err
			}
		}
		return nil
	}

	width := resolveWidth(opts.MaxWidth)
	for _, e := range entries {
		if err := writeEntryLine(e, w, versionWidth, width); err != nil {
			return fmt.Errorf("formatting entry %q: %w", e.Title, err)
		}
	}
	return nil
}

func writeEntryLine(e Entry, w io.Writer, versionWidth, width int) error {
	version := runewidth.FillRight(entryVersion(e), versionWidth)
	date := runewidth.FillRight(entryDate(e), len("2006-01-02"))
	prefix := 2 + versionWidth + 2 + len("2006-01-02") + 2
	title := truncateText(e.Title, width-prefix)

	vc := versionColor
	if e.IsUnreleased() {
		vc = unreleasedColor
	}
	_, err := fmt.Fprintf(w, "  %s  %s  %s\n", vc.Sprint(version), dateColor.Sprint(date), title)
	return err
}

func entryVersion(e Entry) string {
	if e.Version != "" {
		return e.Version
	}
	return "-"
}

func entryDate(e Entry) string {
	if e.Date != "" {
		return e.Date
	}
	return "-"
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// truncateText truncates text to maxLen display columns, adding an ellipsis
// if needed.
func truncateText(text string, maxLen int) string {
	if maxLen < 4 || runewidth.StringWidth(text) <= maxLen {
		return text
	}
	return runewidth.Truncate(text, maxLen, "...")
}
