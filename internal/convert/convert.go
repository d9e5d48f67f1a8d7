// Package convert turns reStructuredText into Markdown and the other output
// dialects the CLI offers.
//
// Conversion runs in two steps. An engine turns RST into HTML (the built-in
// parser or gorst) or straight into the target dialect (pandoc). The target
// step then renders that HTML as Markdown, sanitized HTML, plain text or
// terminal output. Line wrapping is disabled unless Wrap is WrapAuto.
package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asdf-format/changelog-md/internal/logging"
	"github.com/asdf-format/changelog-md/internal/rst"
)

// Target is an output dialect.
type Target string

const (
	TargetMarkdown Target = "markdown"
	TargetHTML     Target = "html"
	TargetPlain    Target = "plain"
	TargetANSI     Target = "ansi"
)

// Engine is the implementation that reads the RST input.
type Engine string

const (
	EngineNative Engine = "native"
	EngineGorst  Engine = "gorst"
	EnginePandoc Engine = "pandoc"
)

// WrapMode controls line wrapping of the output.
type WrapMode string

const (
	WrapNone WrapMode = "none"
	WrapAuto WrapMode = "auto"
)

const (
	// DefaultColumns is the wrap width used by WrapAuto.
	DefaultColumns = 72
	// DefaultStyle is the glamour style used by the ansi target.
	DefaultStyle = "auto"
	// DefaultWidth is the ansi render width when no terminal width is known.
	DefaultWidth = 80
	// DefaultPandoc is the pandoc binary looked up on PATH.
	DefaultPandoc = "pandoc"
)

// ErrHeadingLost is reported when the input has a section but the Markdown
// output has no heading.
var ErrHeadingLost = errors.New("output has no heading although the input has a section title")

// Converter transforms RST text into the configured output dialect.
type Converter interface {
	Convert(ctx context.Context, src string) (string, error)
}

// Options configures a Pipeline.
type Options struct {
	Target       Target
	Engine       Engine
	Wrap         WrapMode
	Columns      int    // wrap width for WrapAuto
	Width        int    // terminal width for the ansi target when Wrap is none
	SanitizeHTML bool   // run the html target through bluemonday
	Style        string // glamour style name, or "auto"
	PandocPath   string
	Logger       *logging.Logger
}

// DefaultOptions returns Markdown output from the built-in engine with
// wrapping disabled.
func DefaultOptions() Options {
	return Options{
		Target:       TargetMarkdown,
		Engine:       EngineNative,
		Wrap:         WrapNone,
		Columns:      DefaultColumns,
		SanitizeHTML: true,
		Style:        DefaultStyle,
		PandocPath:   DefaultPandoc,
	}
}

// ConversionError is returned when an engine fails or its output is not
// usable.
type ConversionError struct {
	Engine Engine
	Target Target
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting to %s with the %s engine: %v", e.Target, e.Engine, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Pipeline is the Converter built from Options.
type Pipeline struct {
	opts   Options
	log    *logging.Logger
	engine htmlEngine // nil for the built-in parser
	pandoc *pandocEngine
}

// New validates opts and builds a Pipeline. Zero-valued fields take their
// defaults.
func New(opts Options) (*Pipeline, error) {
	opts = withDefaults(opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{opts: opts, log: logging.OrDiscard(opts.Logger)}
	switch opts.Engine {
	case EngineGorst:
		p.engine = gorstEngine{}
	case EnginePandoc:
		p.pandoc = newPandocEngine(opts.PandocPath, &osExecutor{}, p.log)
	}
	return p, nil
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.Target == "" {
		opts.Target = def.Target
	}
	if opts.Engine == "" {
		opts.Engine = def.Engine
	}
	if opts.Wrap == "" {
		opts.Wrap = def.Wrap
	}
	if opts.Columns == 0 {
		opts.Columns = def.Columns
	}
	if opts.Style == "" {
		opts.Style = def.Style
	}
	if opts.PandocPath == "" {
		opts.PandocPath = def.PandocPath
	}
	return opts
}

// Validate checks that every option names a known value.
func (o Options) Validate() error {
	if _, err := ParseTarget(string(o.Target)); err != nil {
		return err
	}
	if _, err := ParseEngine(string(o.Engine)); err != nil {
		return err
	}
	if _, err := ParseWrapMode(string(o.Wrap)); err != nil {
		return err
	}
	if o.Columns < 1 {
		return fmt.Errorf("columns must be positive, got %d", o.Columns)
	}
	return nil
}

// Options returns the effective options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Convert renders src in the configured target dialect. Failures are
// returned as *ConversionError.
func (p *Pipeline) Convert(ctx context.Context, src string) (string, error) {
	start := time.Now()
	out, err := p.convert(ctx, src)
	if err != nil {
		return "", &ConversionError{Engine: p.opts.Engine, Target: p.opts.Target, Err: err}
	}
	p.log.ConversionDone(string(p.opts.Engine), string(p.opts.Target), len(out), time.Since(start))
	return out, nil
}

func (p *Pipeline) convert(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, parseErr := rst.Parse(src)
	if parseErr != nil && p.opts.Engine == EngineNative {
		return "", parseErr
	}
	expectHeading := parseErr == nil && doc.HasSections()

	if p.pandoc != nil {
		return p.viaPandoc(ctx, src, expectHeading)
	}

	var html string
	if p.engine != nil {
		var err error
		if html, err = p.engine.HTML(src); err != nil {
			return "", err
		}
	} else {
		html = doc.HTML()
	}

	switch p.opts.Target {
	case TargetHTML:
		return p.sanitize(html), nil
	case TargetPlain:
		return plainText(html, p.wrapColumns())
	}

	md, err := p.markdown(html, expectHeading)
	if err != nil {
		return "", err
	}
	if p.opts.Target == TargetANSI {
		return p.ansi(md)
	}
	return md, nil
}

func (p *Pipeline) viaPandoc(ctx context.Context, src string, expectHeading bool) (string, error) {
	format := "markdown"
	switch p.opts.Target {
	case TargetHTML:
		format = "html"
	case TargetPlain:
		format = "plain"
	}

	out, err := p.pandoc.Convert(ctx, src, format, p.opts.Wrap, p.opts.Columns)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)

	switch p.opts.Target {
	case TargetHTML:
		return p.sanitize(out), nil
	case TargetPlain:
		return out, nil
	}
	if expectHeading && !hasHeading(out) {
		return "", ErrHeadingLost
	}
	if p.opts.Target == TargetANSI {
		return p.ansi(out)
	}
	return out, nil
}

// wrapColumns returns the wrap width, or 0 when wrapping is disabled.
func (p *Pipeline) wrapColumns() int {
	if p.opts.Wrap == WrapAuto {
		return p.opts.Columns
	}
	return 0
}

// ParseTarget validates a target name.
func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case TargetMarkdown, TargetHTML, TargetPlain, TargetANSI:
		return t, nil
	}
	return "", fmt.Errorf("unknown target %q (valid: markdown, html, plain, ansi)", s)
}

// ParseEngine validates an engine name.
func ParseEngine(s string) (Engine, error) {
	switch e := Engine(s); e {
	case EngineNative, EngineGorst, EnginePandoc:
		return e, nil
	}
	return "", fmt.Errorf("unknown engine %q (valid: native, gorst, pandoc)", s)
}

// ParseWrapMode validates a wrap mode.
func ParseWrapMode(s string) (WrapMode, error) {
	switch w := WrapMode(s); w {
	case WrapNone, WrapAuto:
		return w, nil
	}
	return "", fmt.Errorf("unknown wrap mode %q (valid: none, auto)", s)
}
