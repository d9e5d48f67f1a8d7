package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/asdf-format/changelog-md/internal/cli/shared"
	"github.com/asdf-format/changelog-md/internal/config"
	clierrors "github.com/asdf-format/changelog-md/internal/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage changelog-md configuration",
		Long: `Manage changelog-md configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (CHANGELOG_MD_*)
  3. --config file
  4. Project config (.changelog-md.yml, .changelog-md.yaml or .changelog-md.json)
  5. User config ($XDG_CONFIG_HOME/changelog-md/config.yml)
  6. Built-in defaults`,
		Example: `  # Show the merged configuration
  changelog-md config show

  # Create a commented user config
  changelog-md config init

  # Always wrap at 80 columns in this project
  changelog-md config set --project wrap auto
  changelog-md config set --project columns 80`,
		GroupID: shared.GroupConfiguration,
	}

	cmd.AddCommand(
		newConfigShowCmd(g),
		newConfigInitCmd(),
		newConfigKeysCmd(),
		newConfigSetCmd(),
		newConfigPathCmd(),
	)
	return cmd
}

func newConfigShowCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig(g.logger(cmd))
			if err != nil {
				return err
			}
			return writeConfigYAML(cmd.OutOrStdout(), cfg)
		},
	}
}

// writeConfigYAML writes cfg as YAML, preceded by comments naming the files
// it was merged from.
func writeConfigYAML(w io.Writer, cfg *config.Configuration) error {
	if len(cfg.Sources) == 0 {
		fmt.Fprintln(w, "# sources: defaults only")
	}
	for _, src := range cfg.Sources {
		fmt.Fprintf(w, "# source: %s\n", src)
	}

	values := cfg.Values()
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range config.SortedKeys() {
		var v yaml.Node
		if err := v.Encode(values[key]); err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, &v)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

func newConfigInitCmd() *cobra.Command {
	var project, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config file with the default values",
		Long: `Write a commented config file with every option at its default value.

By default the user config is created. Use --project to create
.changelog-md.yml in the current directory instead. An existing file is
left unchanged unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := configTarget(project)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return clierrors.ConfigFileExists(path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			green := color.New(color.FgGreen).SprintFunc()
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", green("✓"), path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&project, "project", "p", false, "Create .changelog-md.yml in the current directory")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the configuration keys with their types and defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			bold := color.New(color.Bold).SprintFunc()
			dim := color.New(color.Faint).SprintFunc()

			for _, key := range config.SortedKeys() {
				schema := config.KnownKeys[key]
				typ := schema.Type.String()
				if len(schema.AllowedValues) > 0 {
					typ = strings.Join(schema.AllowedValues, "|")
				}
				fmt.Fprintf(out, "%s  %s\n", bold(key), dim(fmt.Sprintf("(%s, default %v)", typ, schema.Default)))
				fmt.Fprintf(out, "    %s\n", schema.Description)
			}
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var project bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one value in the user or project config file",
		Long: `Set one value in the user config file, or in .changelog-md.yml with
--project. The value is checked against the key's type first. Comments and
other keys in the file are kept.`,
		Example: `  changelog-md config set target html
  changelog-md config set --project allow_preamble true`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configTarget(project)
			if err != nil {
				return err
			}
			if err := config.SetConfigValue(path, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&project, "project", "p", false, "Write to .changelog-md.yml in the current directory")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "user:    %s\n", config.UserConfigPath())
			for _, path := range config.ProjectConfigCandidates(".") {
				fmt.Fprintf(out, "project: %s\n", path)
			}
			return nil
		},
	}
}

// configTarget returns the config file that init and set write to.
func configTarget(project bool) (string, error) {
	if !project {
		return config.UserConfigPath(), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return config.ProjectConfigPath(cwd), nil
}
