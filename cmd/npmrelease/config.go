// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"npmrelease-cli/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCommand(app *App, flags *runFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect npmrelease configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as CUE",
		Long: `Print the effective configuration as CUE.

The output includes defaults and NPMRELEASE_* environment overrides and can be
saved as .releaserc.cue.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.showConfig(cmd, flags)
		},
	})

	return configCmd
}

func (a *App) showConfig(cmd *cobra.Command, flags *runFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	baseDir := flags.cwd
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return a.fail(cmd, fmt.Errorf("failed to get working directory: %w", err), flags.verbose)
		}
		baseDir = wd
	}
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return a.fail(cmd, fmt.Errorf("failed to resolve working directory: %w", err), flags.verbose)
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath, BaseDir: baseDir})
	if err != nil {
		return a.fail(cmd, &configLoadError{err: err}, flags.verbose)
	}

	source := cfg.Source
	if source == "" {
		source = "(defaults)"
	}
	fmt.Fprintln(a.stderr, SubtitleStyle.Render("# source: ")+CmdStyle.Render(source))
	fmt.Fprint(a.stdout, config.GenerateCUE(cfg))
	return nil
}
