package changelog

import (
	"regexp"
	"strings"

	"github.com/asdf-format/changelog-md/internal/rst"
)

var (
	versionPattern = regexp.MustCompile(`(?i)\bv?(\d+(?:\.\d+)+(?:[-.+]?(?:a|b|c|rc|dev|post|alpha|beta)\.?\d*)*)\b`)
	datePattern    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// Changelog is a parsed changelog document. Entries appear in document
// order, so the newest release comes first.
type Changelog struct {
	Source  string
	Entries []Entry

	offsets []int
}

// Entry is one top-level section of a changelog.
//
// Start and End delimit the section's 0-indexed source lines [Start, End).
// Version and Date are best-effort values parsed from the title, e.g.
// "0.2.0 (2024-05-01)"; either may be empty.
type Entry struct {
	Title   string
	Version string
	Date    string
	Line    int
	Start   int
	End     int
}

// ParseOptions controls how strictly a changelog is checked.
type ParseOptions struct {
	// AllowPreamble accepts content before the first top-level heading.
	// The preamble is never part of an entry.
	AllowPreamble bool
}

// IsUnreleased returns true if the entry is titled as unreleased changes.
func (e Entry) IsUnreleased() bool {
	return strings.Contains(strings.ToLower(e.Title), "unreleased")
}

// Label returns the version when known, otherwise the title.
func (e Entry) Label() string {
	if e.Version != "" {
		return e.Version
	}
	return e.Title
}

func newEntry(sec *rst.Node) Entry {
	e := Entry{
		Title: sec.Title,
		Line:  sec.Line,
		Start: sec.Start,
		End:   sec.End,
	}
	if m := versionPattern.FindStringSubmatch(sec.Title); m != nil {
		e.Version = m[1]
	}
	e.Date = datePattern.FindString(sec.Title)
	return e
}

// lineOffsets returns the byte offset at which each line of src starts. Line
// breaks are the ones rst.SplitLines recognizes.
func lineOffsets(src string) []int {
	offsets := []int{0}
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c != '\n' && c != '\r' {
			continue
		}
		if c == '\r' && i+1 < len(src) && src[i+1] == '\n' {
			continue
		}
		if i+1 < len(src) {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}
