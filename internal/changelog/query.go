package changelog

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// EntryNotFoundError is returned when a requested entry doesn't exist.
type EntryNotFoundError struct {
	Query       string
	Available   []string
	Suggestions []string
}

func (e *EntryNotFoundError) Error() string {
	msg := fmt.Sprintf("entry %q not found (available: %s)", e.Query, strings.Join(e.Available, ", "))
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf("; did you mean %s?", strings.Join(e.Suggestions, " or "))
	}
	return msg
}

// GetEntry retrieves an entry by version or title.
// Versions accept both "v0.6.0" and "0.6.0"; titles match case-insensitively.
// "latest" selects the first entry, "release" the newest entry that is not
// unreleased and "unreleased" the first unreleased one.
// Returns EntryNotFoundError if nothing matches.
func (c *Changelog) GetEntry(query string) (*Entry, error) {
	q := strings.TrimSpace(query)
	switch strings.ToLower(q) {
	case "", "latest":
		return &c.Entries[0], nil
	case "release":
		if e := c.GetLatestRelease(); e != nil {
			return e, nil
		}
	case "unreleased":
		for i := range c.Entries {
			if c.Entries[i].IsUnreleased() {
				return &c.Entries[i], nil
			}
		}
	}

	normalized := NormalizeVersion(q)
	for i := range c.Entries {
		e := &c.Entries[i]
		if e.Version != "" && NormalizeVersion(e.Version) == normalized {
			return e, nil
		}
		if strings.EqualFold(e.Title, q) {
			return e, nil
		}
	}

	return nil, &EntryNotFoundError{
		Query:       query,
		Available:   c.ListLabels(),
		Suggestions: c.suggest(q),
	}
}

// ListLabels returns the label of each entry in document order.
func (c *Changelog) ListLabels() []string {
	labels := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		labels[i] = e.Label()
	}
	return labels
}

// ListTitles returns the title of each entry in document order.
func (c *Changelog) ListTitles() []string {
	titles := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		titles[i] = e.Title
	}
	return titles
}

func (c *Changelog) suggest(query string) []string {
	if query == "" {
		return nil
	}
	matches := fuzzy.Find(query, c.ListTitles())
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// GetLatestRelease returns the most recent entry that is not unreleased.
// Returns nil if every entry is unreleased.
func (c *Changelog) GetLatestRelease() *Entry {
	for i := range c.Entries {
		if !c.Entries[i].IsUnreleased() {
			return &c.Entries[i]
		}
	}
	return nil
}
