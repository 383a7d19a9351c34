package cli

import (
	"fmt"
	"io"

	"github.com/javanhut/topograph/internal/colors"
	"github.com/javanhut/topograph/internal/config"
	"github.com/javanhut/topograph/internal/repo"
	"github.com/spf13/cobra"
)

var configKeys = []string{"core.cache", "core.cachepath", "color.ui"}

type configOptions struct {
	*rootOptions
	global bool
	list   bool
}

func newConfigCommand(root *rootOptions) *cobra.Command {
	opts := &configOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Get and set configuration options",
		Long: `Get and set topograph configuration options.

Configuration can be set at two levels:
- Global (~/.topographconfig) - applies to all repositories
- Repository (.git/topograph.json) - applies to the current repository only

Keys: core.cache, core.cachepath, color.ui

Examples:
  topograph config core.cache true
  topograph config --global color.ui never
  topograph config --list
  topograph config color.ui`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.global, "global", false, "Use global config file")
	cmd.Flags().BoolVar(&opts.list, "list", false, "List all configuration")

	return cmd
}

func runConfig(cmd *cobra.Command, opts *configOptions, args []string) error {
	gitDir := ""
	if !opts.global {
		root, err := repo.Locate(opts.dir)
		if err != nil {
			return err
		}
		gitDir = repo.GitDir(root)
	}

	out := cmd.OutOrStdout()
	switch {
	case opts.list:
		return listConfig(out, gitDir)
	case len(args) == 1:
		return getConfigValue(out, gitDir, args[0])
	case len(args) == 2:
		return setConfigValue(out, gitDir, args[0], args[1])
	}
	return fmt.Errorf("invalid usage. See: topograph config --help")
}

func listConfig(out io.Writer, gitDir string) error {
	cfg, err := config.LoadConfig(gitDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	for _, key := range configKeys {
		value, _ := cfg.GetValue(key)
		if value == "" {
			value = colors.Gray("(not set)")
		} else {
			value = colors.InfoText(value)
		}
		fmt.Fprintf(out, "%s = %s\n", colors.Bold(key), value)
	}
	return nil
}

func getConfigValue(out io.Writer, gitDir, key string) error {
	cfg, err := config.LoadConfig(gitDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	value, err := cfg.GetValue(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, value)
	return nil
}

// setConfigValue writes only the key being set, so values inherited from
// the other level are not copied into the selected file.
func setConfigValue(out io.Writer, gitDir, key, value string) error {
	var err error
	if gitDir == "" {
		err = config.SetGlobalValue(key, value)
	} else {
		err = config.SetRepoValue(gitDir, key, value)
	}
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	fmt.Fprintf(out, "%s %s = %s\n", colors.Green("Set"), key, value)
	return nil
}
