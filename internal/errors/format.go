package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	// Color functions with auto-detection for terminal support.
	// These fall back gracefully when colors are unavailable.
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText   = color.New(color.FgCyan).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// FormatError formats a CLIError for display in the terminal. The first line
// is always "error: <message>". Category, usage and remediation follow only
// when verbose is set.
func FormatError(err *CLIError, verbose bool) string {
	if err == nil {
		return ""
	}
	return formatError(err, verbose, !color.NoColor)
}

func formatError(err *CLIError, verbose, useColors bool) string {
	var sb strings.Builder

	paint := func(f func(a ...interface{}) string, s string) string {
		if useColors {
			return f(s)
		}
		return s
	}

	sb.WriteString(paint(errorLabel, "error"))
	sb.WriteString(": ")
	sb.WriteString(err.Message)
	sb.WriteString("\n")

	if !verbose {
		return sb.String()
	}

	sb.WriteString("  [")
	sb.WriteString(paint(categoryFmt, err.Category.String()))
	sb.WriteString("]\n")

	// Correct usage (for argument errors)
	if err.Usage != "" {
		sb.WriteString("\n")
		sb.WriteString(paint(usageLabel, "Usage: "))
		sb.WriteString(paint(usageText, err.Usage))
		sb.WriteString("\n")
	}

	if len(err.Remediation) > 0 {
		sb.WriteString("\n")
		sb.WriteString(paint(fixLabel, "To fix this:"))
		sb.WriteString("\n")
		for _, step := range err.Remediation {
			sb.WriteString("  ")
			sb.WriteString(paint(bullet, "•"))
			sb.WriteString(" ")
			sb.WriteString(step)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// FprintError prints a formatted CLIError to the given writer.
func FprintError(w io.Writer, err *CLIError, verbose bool) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err, verbose))
}
