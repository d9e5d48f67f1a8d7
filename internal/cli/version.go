package cli

import (
	"fmt"
	"runtime"

	"github.com/asdf-format/changelog-md/internal/changelog"
	"github.com/asdf-format/changelog-md/internal/cli/shared"
	"github.com/asdf-format/changelog-md/internal/version"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newVersionCmd(g *globalOptions) *cobra.Command {
	var notes bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long: `Display version, commit, build date, and Go version information for changelog-md.

With --notes, print the release notes of this build instead. They are taken
from the CHANGES.rst embedded in the binary and rendered through the same
pipeline as any other changelog.`,
		Example: `  # Show version info
  changelog-md version

  # Plain output (for scripts)
  changelog-md version --plain

  # What changed in this release
  changelog-md version --notes`,
		Args:    cobra.NoArgs,
		GroupID: shared.GroupConvert,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if notes {
				return printReleaseNotes(cmd, g)
			}
			if g.plain {
				printPlainVersion(cmd)
				return nil
			}
			printPrettyVersion(cmd)
			return nil
		},
	}
	cmd.Flags().BoolVar(&notes, "notes", false, "Print the release notes of this version")
	return cmd
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "changelog-md %s\n", version.Version)
	fmt.Fprintf(out, "commit: %s\n", version.Commit)
	fmt.Fprintf(out, "built: %s\n", version.BuildDate)
	fmt.Fprintf(out, "go: %s\n", runtime.Version())
	fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func printPrettyVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(out, "%s %s\n", bold("changelog-md"), version.Version)
	fmt.Fprintf(out, "  %s %s\n", dim("commit:  "), version.Commit)
	fmt.Fprintf(out, "  %s %s\n", dim("built:   "), version.BuildDate)
	fmt.Fprintf(out, "  %s %s %s/%s\n", dim("go:      "), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "  %s %s\n", dim("source:  "), version.SourceURL)
}

// printReleaseNotes renders the latest entry of the embedded changelog with
// the configured target and engine.
func printReleaseNotes(cmd *cobra.Command, g *globalOptions) error {
	log := g.logger(cmd)
	cfg, err := g.loadConfig(log)
	if err != nil {
		return err
	}

	cl, err := changelog.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("loading embedded changelog: %w", err)
	}
	entry := cl.Latest()
	if !version.IsDevBuild() {
		if e, err := cl.GetEntry(version.Version); err == nil {
			entry = *e
		}
	}

	out, err := convertSegment(cmd.Context(), cl.Segment(entry), cfg, cmd.OutOrStdout(), log)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
