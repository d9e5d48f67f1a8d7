package changelog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/asdf-format/changelog-md/internal/rst"
)

// ErrNoSection is returned when a changelog has no top-level section.
var ErrNoSection = errors.New("no top-level section found")

// PreambleError is returned when the first top-level section does not start
// on the first line of the document.
type PreambleError struct {
	Title string
	Line  int // 0-indexed start of the first section
}

func (e *PreambleError) Error() string {
	return fmt.Sprintf("first section %q starts at line %d, expected line 1 (content before the first heading)",
		e.Title, e.Line+1)
}

// Parse splits src into entries, one per top-level section.
// Returns ErrNoSection when there are none and a PreambleError when the
// first section is preceded by other content, unless opts allow it.
func Parse(src string, opts ParseOptions) (*Changelog, error) {
	doc, err := rst.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing changelog: %w", err)
	}

	sections := doc.Sections()
	if len(sections) == 0 {
		return nil, ErrNoSection
	}
	if first := sections[0]; first.Start != 0 && !opts.AllowPreamble {
		return nil, &PreambleError{Title: first.Title, Line: first.Start}
	}

	c := &Changelog{
		Source:  src,
		Entries: make([]Entry, 0, len(sections)),
		offsets: lineOffsets(src),
	}
	for _, sec := range sections {
		c.Entries = append(c.Entries, newEntry(sec))
	}
	return c, nil
}

// ExtractFirstSection returns the source text of the first top-level section
// of src, heading included. The text ends just before the newline that
// precedes the second section, or runs to the end of src when there is only
// one section.
func ExtractFirstSection(src string) (string, error) {
	c, err := Parse(src, ParseOptions{})
	if err != nil {
		return "", err
	}
	return c.Segment(c.Latest()), nil
}

// Latest returns the first entry of the changelog.
func (c *Changelog) Latest() Entry {
	return c.Entries[0]
}

// Segment returns the verbatim source text of an entry.
func (c *Changelog) Segment(e Entry) string {
	if e.Start >= len(c.offsets) {
		return ""
	}
	from := c.offsets[e.Start]
	if e.End >= len(c.offsets) {
		return c.Source[from:]
	}
	// Drop the line break that ends the previous line.
	to := c.offsets[e.End] - 1
	if c.Source[to] == '\n' && to > from && c.Source[to-1] == '\r' {
		to--
	}
	return c.Source[from:to]
}

// NormalizeVersion normalizes a version string by removing the "v" prefix.
// This allows accepting both "v0.6.0" and "0.6.0" as input.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(version)), "v")
}
