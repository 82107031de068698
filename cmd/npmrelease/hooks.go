// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"npmrelease-cli/internal/core/lifecycle"
	"npmrelease-cli/internal/release"

	"github.com/spf13/cobra"
)

func newVerifyCommand(app *App, flags *runFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Validate options, read every package.json and check npm credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runHooks(cmd, flags, lifecycle.PhaseVerify)
		},
	}
}

func newPrepareCommand(app *App, flags *runFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Write the next version into every package.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runHooks(cmd, flags, lifecycle.PhasePrepare)
		},
	}
	return cmd
}

func newPublishCommand(app *App, flags *runFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish every package root to its registry",
		Long: `Publish every package root to its registry.

Roots that were not prepared by an earlier hook in the same invocation are
prepared first. Private packages and npmPublish: false are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runHooks(cmd, flags, lifecycle.PhasePublish)
		},
	}
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the release descriptors to this TOML file")
	return cmd
}

func newAddChannelCommand(app *App, flags *runFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-channel",
		Short: "Point the channel's dist-tag at the released version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runHooks(cmd, flags, lifecycle.PhaseAddChannel)
		},
	}
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the release descriptors to this TOML file")
	return cmd
}

func newRunCommand(app *App, flags *runFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Verify, prepare and publish in one session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runHooks(cmd, flags, lifecycle.PhaseVerify, lifecycle.PhasePrepare, lifecycle.PhasePublish)
		},
	}
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the release descriptors to this TOML file")
	return cmd
}

// runHooks runs phases in order on one session and reports the releases.
func (a *App) runHooks(cmd *cobra.Command, flags *runFlags, phases ...lifecycle.Phase) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	run, err := a.startRun(ctx, flags)
	if err != nil {
		return a.fail(cmd, err, flags.verbose)
	}
	defer func() { _ = run.Close() }()

	var releases []release.Release
	for _, phase := range phases {
		run.rctx.Log().Debug("Running hook", "hook", phase)
		got, err := run.execute(ctx, phase)
		if err != nil {
			return a.fail(cmd, err, run.verbose)
		}
		releases = append(releases, got...)
	}

	printReleases(a.stdout, releases)
	if flags.output != "" {
		if err := writeReleases(flags.output, releases); err != nil {
			return a.fail(cmd, err, run.verbose)
		}
	}
	return nil
}

func (r *releaseRun) execute(ctx context.Context, phase lifecycle.Phase) ([]release.Release, error) {
	switch phase {
	case lifecycle.PhaseVerify:
		return nil, r.session.Verify(ctx, r.plugin, r.rctx)
	case lifecycle.PhasePrepare:
		return nil, r.session.Prepare(ctx, r.plugin, r.rctx)
	case lifecycle.PhasePublish:
		res, err := r.session.Publish(ctx, r.plugin, r.rctx)
		return res.Releases, err
	case lifecycle.PhaseAddChannel:
		return r.session.AddChannel(ctx, r.plugin, r.rctx)
	}
	if err := phase.Validate(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("hook %s is not runnable", phase)
}
