// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for npmrelease.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:   "npmrelease",
		Short: "Publish npm packages as part of an automated release",
		Long: TitleStyle.Render("npmrelease") + SubtitleStyle.Render(" - npm lifecycle hooks for automated releases") + `

npmrelease verifies npm credentials, writes the release version into
package.json, publishes packages and moves dist-tags. Each hook accepts
one or several package roots (pkgRoot) and shares one temporary .npmrc.

` + SubtitleStyle.Render("Examples:") + `
  npmrelease verify                              Check config, manifests and NPM_TOKEN
  npmrelease run --next-version 1.4.0            Verify, prepare and publish
  npmrelease publish --channel next --output r.toml
  npmrelease add-channel --next-version 1.4.0 --channel latest
  npmrelease config show                         Show the loaded configuration`,
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.configPath, "config", "", "config file (default is ./.releaserc.cue)")
	pf.StringVar(&flags.cwd, "cwd", "", "project directory package roots are resolved against (default is the current directory)")
	pf.StringVar(&flags.nextVersion, "next-version", "", "version being released (overrides release.version)")
	pf.StringVar(&flags.channel, "channel", "", "release channel (overrides release.channel)")

	rootCmd.AddCommand(newVerifyCommand(app, flags))
	rootCmd.AddCommand(newPrepareCommand(app, flags))
	rootCmd.AddCommand(newPublishCommand(app, flags))
	rootCmd.AddCommand(newAddChannelCommand(app, flags))
	rootCmd.AddCommand(newRunCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the application and runs the command tree.
// This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	// fang overrides rootCmd.Version, so the version goes through fang.WithVersion.
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
