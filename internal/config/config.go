// Package config provides hierarchical configuration management for
// changelog-md using koanf. Configuration is loaded with priority:
// environment variables (CHANGELOG_MD_*) > explicit --config file > project
// config (.changelog-md.yml) > user config ($XDG_CONFIG_HOME/changelog-md/config.yml)
// > defaults. Command-line flags are applied on top by the cli package.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asdf-format/changelog-md/internal/logging"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as configuration.
const EnvPrefix = "CHANGELOG_MD_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceFile    ConfigSource = "file"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the changelog-md configuration
type Configuration struct {
	// Target is the output dialect: markdown, html, plain or ansi.
	Target string `koanf:"target" yaml:"target" validate:"oneof=markdown html plain ansi"`
	// Engine selects the RST reader: native, gorst or pandoc.
	Engine string `koanf:"engine" yaml:"engine" validate:"oneof=native gorst pandoc"`
	// Wrap is none (long lines preserved) or auto (reflow at Columns).
	Wrap    string `koanf:"wrap" yaml:"wrap" validate:"oneof=none auto"`
	Columns int    `koanf:"columns" yaml:"columns" validate:"min=20,max=1000"`

	SanitizeHTML bool   `koanf:"sanitize_html" yaml:"sanitize_html"`
	Style        string `koanf:"style" yaml:"style" validate:"required"`
	Pandoc       string `koanf:"pandoc" yaml:"pandoc" validate:"required"`

	// Section selects an entry other than the first. Empty means the first
	// top-level section.
	Section       string `koanf:"section" yaml:"section"`
	AllowPreamble bool   `koanf:"allow_preamble" yaml:"allow_preamble"`

	Timeout       time.Duration `koanf:"timeout" yaml:"timeout" validate:"gt=0"`
	WatchDebounce time.Duration `koanf:"watch_debounce" yaml:"watch_debounce" validate:"gte=0"`

	// Sources lists the config files that were merged, in load order.
	Sources []string `koanf:"-" yaml:"-"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectDir is searched for a project config (default: current directory).
	ProjectDir string
	// ConfigFile is an explicit config file. Unlike the user and project
	// files it must exist.
	ConfigFile string
	// Logger receives unknown-key warnings and debug output.
	Logger *logging.Logger
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	log := logging.OrDiscard(opts.Logger)
	var sources []string

	loadDefaults(k)

	if path := UserConfigPath(); fileExists(path) {
		if err := loadFile(k, path, SourceUser, log); err != nil {
			return nil, err
		}
		sources = append(sources, path)
	}

	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	if path := findProjectConfig(projectDir); path != "" {
		if err := loadFile(k, path, SourceProject, log); err != nil {
			return nil, err
		}
		sources = append(sources, path)
	}

	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return nil, &ValidationError{FilePath: opts.ConfigFile, Message: "config file not found"}
		}
		if err := loadFile(k, opts.ConfigFile, SourceFile, log); err != nil {
			return nil, err
		}
		sources = append(sources, opts.ConfigFile)
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	cfg, err := finalizeConfig(k)
	if err != nil {
		return nil, err
	}
	cfg.Sources = sources
	log.ConfigLoaded(sources)
	return cfg, nil
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// findProjectConfig returns the first project config candidate that exists.
func findProjectConfig(dir string) string {
	for _, path := range ProjectConfigCandidates(dir) {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// loadFile loads one config file into k. Keys that are not in KnownKeys are
// reported and ignored.
func loadFile(k *koanf.Koanf, path string, source ConfigSource, log *logging.Logger) error {
	fk := koanf.New(".")
	var parser koanf.Parser = yaml.Parser()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		parser = json.Parser()
	} else if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", source, err)
	}

	if err := fk.Load(file.Provider(path), parser); err != nil {
		return &ValidationError{FilePath: path, Message: err.Error()}
	}

	for _, key := range fk.Keys() {
		if _, ok := KnownKeys[key]; !ok {
			log.Warn("ignoring unknown config key", "file", path, "key", key)
			fk.Delete(key)
		}
	}

	if err := k.Merge(fk); err != nil {
		return fmt.Errorf("merging %s config %s: %w", source, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, &ValidationError{FilePath: "config", Message: err.Error()}
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: CHANGELOG_MD_ALLOW_PREAMBLE -> allow_preamble. Variables that do
// not name a known key are skipped.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if _, ok := KnownKeys[key]; !ok {
		return ""
	}
	return key
}

// Values returns the configuration as a map keyed like the config file, with
// durations formatted as strings.
func (c *Configuration) Values() map[string]interface{} {
	return map[string]interface{}{
		"target":         c.Target,
		"engine":         c.Engine,
		"wrap":           c.Wrap,
		"columns":        c.Columns,
		"sanitize_html":  c.SanitizeHTML,
		"style":          c.Style,
		"pandoc":         c.Pandoc,
		"section":        c.Section,
		"allow_preamble": c.AllowPreamble,
		"timeout":        c.Timeout.String(),
		"watch_debounce": c.WatchDebounce.String(),
	}
}
