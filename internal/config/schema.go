package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/v2"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeDuration
	TypeString
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeDuration:
		return "duration"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Key name (e.g., "target")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"target": {
		Path:          "target",
		Type:          TypeEnum,
		AllowedValues: []string{"markdown", "html", "plain", "ansi"},
		Description:   "Output dialect",
		Default:       "markdown",
	},
	"engine": {
		Path:          "engine",
		Type:          TypeEnum,
		AllowedValues: []string{"native", "gorst", "pandoc"},
		Description:   "Implementation that reads the RST input",
		Default:       "native",
	},
	"wrap": {
		Path:          "wrap",
		Type:          TypeEnum,
		AllowedValues: []string{"none", "auto"},
		Description:   "Line wrapping of the output",
		Default:       "none",
	},
	"columns": {
		Path:        "columns",
		Type:        TypeInt,
		Description: "Wrap width when wrap is auto (20-1000)",
		Default:     72,
	},
	"sanitize_html": {
		Path:        "sanitize_html",
		Type:        TypeBool,
		Description: "Strip unsafe HTML from the html target",
		Default:     true,
	},
	"style": {
		Path:        "style",
		Type:        TypeString,
		Description: "Glamour style for the ansi target",
		Default:     "auto",
	},
	"pandoc": {
		Path:        "pandoc",
		Type:        TypeString,
		Description: "pandoc binary used by the pandoc engine",
		Default:     "pandoc",
	},
	"section": {
		Path:        "section",
		Type:        TypeString,
		Description: "Entry to print: version, title, latest, release or unreleased",
		Default:     "",
	},
	"allow_preamble": {
		Path:        "allow_preamble",
		Type:        TypeBool,
		Description: "Accept content before the first heading",
		Default:     false,
	},
	"timeout": {
		Path:        "timeout",
		Type:        TypeDuration,
		Description: "Timeout for fetching an http(s) changelog",
		Default:     "5s",
	},
	"watch_debounce": {
		Path:        "watch_debounce",
		Type:        TypeDuration,
		Description: "Settle time before re-rendering in watch mode",
		Default:     "100ms",
	},
}

// SortedKeys returns the known key names in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// ParsedValue represents a configuration value after type inference and validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
// Numeric values must also satisfy the limits of the loaded configuration,
// so a value accepted here never makes a later load fail.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	parsed, err := validateAgainstSchema(schema, value)
	if err != nil {
		return ParsedValue{}, err
	}
	if schema.Type == TypeInt || schema.Type == TypeDuration {
		if err := checkLimits(key, parsed); err != nil {
			return ParsedValue{}, err
		}
	}
	return parsed, nil
}

// checkLimits applies the Configuration validation rules to a single value
// layered over the defaults.
func checkLimits(key string, parsed ParsedValue) error {
	k := koanf.New(".")
	loadDefaults(k)
	if err := k.Set(key, parsed.Parsed); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return fmt.Errorf("invalid value: %q (%v)", parsed.Raw, err)
	}

	err := ValidateConfigValues(&cfg, key)
	var verr *ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("invalid value: %q (%s)", parsed.Raw, verr.Message)
	}
	return err
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeInt:
		return parseIntValue(value)
	case TypeDuration:
		return parseDurationValue(value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseIntValue parses and validates an integer value.
func parseIntValue(value string) (ParsedValue, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
	}
	return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
}

// parseDurationValue parses and validates a duration value.
func parseDurationValue(value string) (ParsedValue, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid duration: %q (examples: 5s, 250ms, 1m)", value)
	}
	return ParsedValue{Raw: value, Parsed: d.String(), Type: TypeDuration}, nil
}

// parseEnumValue validates a value against allowed enum options.
func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	for _, allowed := range schema.AllowedValues {
		if value == allowed {
			return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}
