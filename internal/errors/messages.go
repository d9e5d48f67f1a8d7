package errors

import "fmt"

// Common error messages for the changelog-md CLI.
// These templates ensure consistent, actionable error messages.

// MissingChangelogPath creates an error for a missing changelog argument.
func MissingChangelogPath() *CLIError {
	return NewArgumentErrorWithUsage(
		"a changelog path is required",
		"changelog-md <path|url|->",
		"Pass the path to the changelog, e.g. CHANGES.rst",
		"Use '-' to read from standard input",
	)
}

// TooManyArguments creates an error when more than one changelog is given.
func TooManyArguments(count int) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("expected one changelog path, got %d", count),
		"changelog-md <path|url|->",
		"Convert one changelog per invocation",
	)
}

// ConflictingFlags creates an error for flags that cannot be combined.
func ConflictingFlags(a, b string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("--%s cannot be combined with --%s", a, b),
		fmt.Sprintf("Remove either --%s or --%s", a, b),
	)
}

// WatchNeedsFile creates an error when --watch is used with a non-file source.
func WatchNeedsFile(location string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("--watch needs a local file, got %s", location),
		"Pass a file path instead of a URL or '-'",
		"Or drop --rev, which reads a fixed revision",
	)
}

// ConfigFileExists creates an error when config init would overwrite a file.
func ConfigFileExists(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file already exists: %s", path),
		"Use --force to overwrite it",
		"Or edit single values with 'changelog-md config set <key> <value>'",
	)
}
