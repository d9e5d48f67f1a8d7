// Package rst parses the reStructuredText subset found in project changelogs
// into a block tree and renders it as HTML.
//
// Section structure follows docutils: any line of one repeated 7-bit
// punctuation character adorns a title, levels are assigned in the order
// adornment styles are first seen, and inconsistent levels, mismatched
// overlines and titles nested inside body elements are reported as
// ParseError. Each section records the exact source lines it spans, so callers
// can slice the original text without re-deriving offsets from the
// underline position.
package rst
