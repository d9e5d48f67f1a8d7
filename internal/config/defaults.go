package config

import "time"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# changelog-md configuration
# See 'changelog-md config keys' for all options.
# Precedence: flags > CHANGELOG_MD_* env > project file > user file > defaults

# Conversion
target: markdown                      # Output dialect: markdown | html | plain | ansi
engine: native                        # RST reader: native | gorst | pandoc
wrap: none                            # Line wrapping: none | auto
columns: 72                           # Wrap width when wrap is auto
sanitize_html: true                   # Sanitize output of the html target
style: auto                           # Glamour style for the ansi target (auto, dark, light, notty, dracula)
pandoc: pandoc                        # pandoc binary for the pandoc engine

# Input
section: ""                           # Entry to print: version, title, latest, release or unreleased (empty = first)
allow_preamble: false                 # Accept content before the first heading
timeout: 5s                           # Timeout for fetching an http(s) changelog

# Watch mode
watch_debounce: 100ms                 # Settle time before re-rendering after a save
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"target":  "markdown",
		"engine":  "native",
		"wrap":    "none",
		"columns": 72,
		// sanitize_html: raw HTML blocks in the changelog are stripped from
		// the html target.
		"sanitize_html":  true,
		"style":          "auto",
		"pandoc":         "pandoc",
		"section":        "",
		"allow_preamble": false,
		"timeout":        (5 * time.Second).String(),
		"watch_debounce": (100 * time.Millisecond).String(),
	}
}
