package changelog

import (
	_ "embed"
	"fmt"
)

//go:embed CHANGES.rst
var embeddedChangelog string

// LoadEmbedded parses the embedded CHANGES.rst.
func LoadEmbedded() (*Changelog, error) {
	if len(embeddedChangelog) == 0 {
		return nil, fmt.Errorf("embedded changelog is empty (binary may have been built without embedded content)")
	}
	return Parse(embeddedChangelog, ParseOptions{})
}
