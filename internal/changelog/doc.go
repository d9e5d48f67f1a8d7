// Package changelog reads reStructuredText changelogs such as CHANGES.rst.
//
// This package implements:
//   - Splitting a changelog into entries, one per top-level section
//   - Extracting the exact source text of an entry, newest first
//   - Entry lookup by version or title, with fuzzy suggestions
//   - Terminal listing of entries
//   - The tool's own release notes, embedded via go:embed
//
// A changelog must open with its newest entry: any content before the first
// top-level heading is rejected unless ParseOptions.AllowPreamble is set.
package changelog
