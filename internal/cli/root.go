// Package cli implements the changelog-md command line: the root command
// that converts a changelog entry, and the version and config subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/asdf-format/changelog-md/internal/cli/shared"
	"github.com/asdf-format/changelog-md/internal/config"
	clierrors "github.com/asdf-format/changelog-md/internal/errors"
	"github.com/asdf-format/changelog-md/internal/git"
	"github.com/asdf-format/changelog-md/internal/logging"
	"github.com/asdf-format/changelog-md/internal/output"
	"github.com/asdf-format/changelog-md/internal/version"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	debug      bool
	plain      bool
}

// rootOptions holds the flags of the root command.
type rootOptions struct {
	globalOptions

	target        string
	engine        string
	wrap          string
	columns       int
	style         string
	section       string
	list          bool
	rev           string
	watch         bool
	allowPreamble bool
}

func newRootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "changelog-md <path|url|->",
		Short: "Render the latest changelog entry as Markdown",
		Long: `Render the latest entry of a reStructuredText changelog as Markdown.

changelog-md reads a CHANGES.rst file, takes its first top-level section
(heading included, up to the next top-level heading) and converts it to
Markdown with line wrapping disabled. The result is printed to stdout,
ready to be used as release notes.

The changelog must start with a section title. Content before the first
heading is an error unless --allow-preamble is given.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (CHANGELOG_MD_*)
  3. --config file
  4. Project config (.changelog-md.yml)
  5. User config ($XDG_CONFIG_HOME/changelog-md/config.yml)
  6. Built-in defaults`,
		Example: `  # Release notes for the newest entry
  changelog-md CHANGES.rst

  # A specific release, as HTML
  changelog-md CHANGES.rst --section 1.2.0 --to html

  # The changelog as it was tagged
  changelog-md CHANGES.rst --rev v1.2.0

  # Read from a URL or standard input
  changelog-md https://raw.githubusercontent.com/asdf-format/asdf/main/CHANGES.rst
  cat CHANGES.rst | changelog-md -

  # Preview in the terminal while editing
  changelog-md CHANGES.rst --to ansi --watch`,
		Version:       version.Version,
		Args:          validateArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args[0])
		},
	}

	cmd.SetVersionTemplate(version.String() + "\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierrors.Wrap(err, clierrors.Argument, "Run 'changelog-md --help' for usage")
	})

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configFile, shared.FlagConfig, "c", "", "Config file to load on top of the user and project config")
	pf.BoolVar(&opts.debug, shared.FlagDebug, false, "Log pipeline steps to stderr and show error remediation")
	pf.BoolVar(&opts.plain, shared.FlagPlain, false, "Disable colors and terminal formatting")

	f := cmd.Flags()
	f.StringVarP(&opts.target, "to", "t", "", "Output dialect: markdown, html, plain, ansi")
	f.StringVarP(&opts.engine, "engine", "e", "", "RST reader: native, gorst, pandoc")
	f.StringVar(&opts.wrap, "wrap", "", "Line wrapping: none, auto")
	f.IntVar(&opts.columns, "columns", 0, "Wrap width when --wrap=auto")
	f.StringVar(&opts.style, "style", "", "Glamour style for --to ansi (auto, dark, light, notty, dracula)")
	f.StringVarP(&opts.section, "section", "s", "", "Entry to render: version, title, latest, release or unreleased")
	f.BoolVarP(&opts.list, "list", "l", false, "List the entries of the changelog instead of rendering one")
	f.StringVar(&opts.rev, "rev", "", "Read the changelog as committed at a git revision")
	f.BoolVarP(&opts.watch, "watch", "w", false, "Re-render whenever the file changes")
	f.BoolVar(&opts.allowPreamble, "allow-preamble", false, "Accept content before the first heading")

	cmd.AddGroup(
		&cobra.Group{ID: shared.GroupConvert, Title: "Release Notes:"},
		&cobra.Group{ID: shared.GroupConfiguration, Title: "Configuration:"},
	)
	cmd.AddCommand(newVersionCmd(&opts.globalOptions))
	cmd.AddCommand(newConfigCmd(&opts.globalOptions))

	return cmd, opts
}

func validateArgs(_ *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return clierrors.MissingChangelogPath()
	case 1:
		return nil
	default:
		return clierrors.TooManyArguments(len(args))
	}
}

// Run executes the CLI with args and returns the process exit code. Output
// goes to stdout only on success; errors are printed to stderr as a single
// "error: <message>" line, followed by remediation with --debug.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd, opts := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return shared.ExitSuccess
	}

	var exitErr *shared.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	output.ConfigureColor(stderr, opts.plain)
	clierrors.FprintError(stderr, clierrors.Classify(err), opts.debug)
	return shared.ExitFailure
}

// Execute runs the CLI against the process arguments and standard streams.
// SIGINT and SIGTERM cancel the context, which ends watch mode cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if code := Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); code != shared.ExitSuccess {
		return shared.NewExitError(code)
	}
	return nil
}

// logger returns the diagnostics logger for a command. It also routes go-git
// debug output through it.
func (g *globalOptions) logger(cmd *cobra.Command) *logging.Logger {
	log := logging.NewDebug(cmd.ErrOrStderr(), g.debug)
	if g.debug {
		git.SetDebugLogger(log.Debugf)
	}
	return log
}

// loadConfig loads the layered configuration for a command.
func (g *globalOptions) loadConfig(log *logging.Logger) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ConfigFile: g.configFile,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
