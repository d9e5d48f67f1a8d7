package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/asdf-format/changelog-md/internal/changelog"
	"github.com/asdf-format/changelog-md/internal/config"
	"github.com/asdf-format/changelog-md/internal/convert"
	clierrors "github.com/asdf-format/changelog-md/internal/errors"
	"github.com/asdf-format/changelog-md/internal/logging"
	"github.com/asdf-format/changelog-md/internal/output"
	"github.com/asdf-format/changelog-md/internal/source"
	"github.com/asdf-format/changelog-md/internal/watch"
	"github.com/spf13/cobra"
)

// job is one read-parse-slice-convert pass over a changelog.
type job struct {
	location string
	rev      string
	list     bool
	plain    bool
	cfg      *config.Configuration
	stdin    io.Reader
	stdout   io.Writer
	log      *logging.Logger
}

func (o *rootOptions) run(cmd *cobra.Command, location string) error {
	log := o.logger(cmd)

	cfg, err := o.loadConfig(log)
	if err != nil {
		return err
	}
	if err := o.applyFlags(cmd, cfg); err != nil {
		return err
	}
	if err := o.checkFlags(location); err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	output.ConfigureColor(stdout, o.plain)

	j := &job{
		location: location,
		rev:      o.rev,
		list:     o.list,
		plain:    o.plain || !output.IsTerminal(stdout),
		cfg:      cfg,
		stdin:    cmd.InOrStdin(),
		stdout:   stdout,
		log:      log,
	}

	if o.watch {
		return j.watch(cmd.Context(), cmd.ErrOrStderr())
	}

	out, err := j.render(cmd.Context())
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, out)
	return err
}

// applyFlags overrides configuration values with the flags the user set and
// validates the result.
func (o *rootOptions) applyFlags(cmd *cobra.Command, cfg *config.Configuration) error {
	f := cmd.Flags()
	if f.Changed("to") {
		cfg.Target = o.target
	}
	if f.Changed("engine") {
		cfg.Engine = o.engine
	}
	if f.Changed("wrap") {
		cfg.Wrap = o.wrap
	}
	if f.Changed("columns") {
		cfg.Columns = o.columns
	}
	if f.Changed("style") {
		cfg.Style = o.style
	}
	if f.Changed("section") {
		cfg.Section = o.section
	}
	if f.Changed("allow-preamble") {
		cfg.AllowPreamble = o.allowPreamble
	}
	if o.plain && cfg.Target == string(convert.TargetANSI) && !f.Changed("style") {
		cfg.Style = "notty"
	}
	return config.ValidateConfigValues(cfg, "command line")
}

// checkFlags rejects flag combinations that cannot work together.
func (o *rootOptions) checkFlags(location string) error {
	if o.list && o.section != "" {
		return clierrors.ConflictingFlags("list", "section")
	}
	if o.watch {
		if o.rev != "" {
			return clierrors.ConflictingFlags("watch", "rev")
		}
		if o.list {
			return clierrors.ConflictingFlags("watch", "list")
		}
		if location == source.Stdin || source.IsURL(location) {
			return clierrors.WatchNeedsFile(location)
		}
	}
	return nil
}

// render runs the pipeline once and returns what should be written to
// stdout, including the trailing newline.
func (j *job) render(ctx context.Context) (string, error) {
	text, err := source.Read(ctx, j.location, source.Options{
		Revision: j.rev,
		Timeout:  j.cfg.Timeout,
		Stdin:    j.stdin,
		Logger:   j.log,
	})
	if err != nil {
		return "", err
	}

	cl, err := changelog.Parse(text, changelog.ParseOptions{AllowPreamble: j.cfg.AllowPreamble})
	if err != nil {
		return "", err
	}

	if j.list {
		return listEntries(cl, j.plain)
	}

	entry := cl.Latest()
	if j.cfg.Section != "" {
		e, err := cl.GetEntry(j.cfg.Section)
		if err != nil {
			return "", err
		}
		entry = *e
	}
	j.log.SectionExtracted(entry.Title, entry.Start, entry.End)

	out, err := convertSegment(ctx, cl.Segment(entry), j.cfg, j.stdout, j.log)
	if err != nil {
		return "", err
	}
	return out + "\n", nil
}

// convertSegment converts one entry's source text with the configured engine
// and target.
func convertSegment(ctx context.Context, segment string, cfg *config.Configuration, stdout io.Writer, log *logging.Logger) (string, error) {
	pipeline, err := convert.New(convert.Options{
		Target:       convert.Target(cfg.Target),
		Engine:       convert.Engine(cfg.Engine),
		Wrap:         convert.WrapMode(cfg.Wrap),
		Columns:      cfg.Columns,
		Width:        output.GetTerminalWidth(stdout),
		SanitizeHTML: cfg.SanitizeHTML,
		Style:        cfg.Style,
		PandocPath:   cfg.Pandoc,
		Logger:       log,
	})
	if err != nil {
		return "", err
	}
	return pipeline.Convert(ctx, segment)
}

func listEntries(cl *changelog.Changelog, plain bool) (string, error) {
	var buf strings.Builder
	if err := changelog.FormatEntries(cl.Entries, &buf, changelog.FormatOptions{Plain: plain}); err != nil {
		return "", fmt.Errorf("listing entries: %w", err)
	}
	return buf.String(), nil
}

// watch renders now and after every change until ctx is cancelled. Each
// render is preceded by a separator on stderr.
func (j *job) watch(ctx context.Context, stderr io.Writer) error {
	w, err := watch.New(j.location,
		watch.WithDebounce(j.cfg.WatchDebounce),
		watch.WithLogger(j.log))
	if err != nil {
		return err
	}
	defer w.Close()

	return w.Run(ctx, func(ctx context.Context) error {
		out, err := j.render(ctx)
		if err != nil {
			return err
		}
		output.PrintWatchSeparator(stderr, j.location, time.Now())
		_, err = io.WriteString(j.stdout, out)
		return err
	})
}
