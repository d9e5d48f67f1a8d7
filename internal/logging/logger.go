// Package logging wraps charmbracelet/log with helpers for the events the
// changelog pipeline reports. Diagnostics always go to stderr so that stdout
// carries nothing but the rendered release notes.
package logging

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a logger that reports warnings and above.
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.WarnLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: level <= log.DebugLevel,
		TimeFormat:      time.TimeOnly,
		Level:           level,
		Prefix:          "changelog-md",
	})
	return &Logger{Logger: l}
}

// NewDebug creates a logger at debug level when debug is set, and at the
// default warn level otherwise.
func NewDebug(w io.Writer, debug bool) *Logger {
	if debug {
		return NewWithLevel(w, log.DebugLevel)
	}
	return New(w)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *Logger) *Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// SourceRead logs a successfully read changelog source.
func (l *Logger) SourceRead(source string, bytes int, duration time.Duration) {
	l.Debug("source read",
		"source", source,
		"bytes", bytes,
		"duration", duration.Round(time.Microsecond))
}

// SectionExtracted logs the entry chosen for conversion.
func (l *Logger) SectionExtracted(title string, start, end int) {
	l.Debug("section extracted",
		"title", title,
		"start_line", start,
		"end_line", end)
}

// ConversionDone logs a finished conversion.
func (l *Logger) ConversionDone(engine, target string, bytes int, duration time.Duration) {
	l.Debug("conversion done",
		"engine", engine,
		"target", target,
		"bytes", bytes,
		"duration", duration.Round(time.Microsecond))
}

// ConfigLoaded logs the configuration files that were merged.
func (l *Logger) ConfigLoaded(files []string) {
	l.Debug("config loaded", "files", files)
}

// CommandRun logs an external command invocation.
func (l *Logger) CommandRun(name string, args []string) {
	l.Debug("running command", "name", name, "args", args)
}

// WatchEvent logs a file system event that triggers a re-render.
func (l *Logger) WatchEvent(path, op string) {
	l.Debug("change detected", "path", path, "op", op)
}

// WatchError logs a failure inside the watch loop. The loop keeps running.
func (l *Logger) WatchError(path string, err error) {
	l.Error("render failed", "path", path, "error", err)
}
