// SPDX-License-Identifier: MPL-2.0

package npm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"npmrelease-cli/internal/release"
	"npmrelease-cli/internal/shell"

	"github.com/Masterminds/semver/v3"
)

// Commands prepares, publishes and tags package roots with the npm CLI.
// It implements release.Preparer, release.Publisher and release.ChannelAdder.
type Commands struct {
	runner shell.Runner
	bin    string
}

// CommandsOption configures Commands.
type CommandsOption func(*Commands)

// WithNpmBinary runs bin instead of "npm".
func WithNpmBinary(bin string) CommandsOption {
	return func(c *Commands) {
		c.bin = bin
	}
}

// NewCommands creates Commands running npm through runner.
func NewCommands(runner shell.Runner, opts ...CommandsOption) *Commands {
	c := &Commands{runner: runner, bin: "npm"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prepare writes the next version into the root's package.json and, when a
// tarball directory is configured, packs the root into it.
func (c *Commands) Prepare(ctx context.Context, credPath string, cfg release.PluginConfig, rctx *release.Context) error {
	version := rctx.NextRelease.Version
	if _, err := semver.StrictNewVersion(version); err != nil {
		return fmt.Errorf("invalid next release version %q: %w", version, err)
	}

	basePath := filepath.Join(rctx.Cwd, cfg.Root())
	log := rctx.Log()

	log.Info("Write version to package.json", "version", version, "path", basePath)
	if err := c.npm(ctx, rctx, basePath, rctx.Out(),
		"version", version, "--userconfig", credPath, "--no-git-tag-version", "--allow-same-version"); err != nil {
		return err
	}

	tarballDir := strings.TrimSpace(cfg.Tarball())
	if tarballDir == "" {
		return nil
	}

	log.Info("Creating npm package", "version", version)
	var out bytes.Buffer
	if err := c.npm(ctx, rctx, rctx.Cwd, io.MultiWriter(&out, rctx.Out()),
		"pack", basePath, "--userconfig", credPath); err != nil {
		return err
	}

	tarball := lastLine(out.String())
	if tarball == "" {
		return errors.New("npm pack did not report a tarball name")
	}

	src := filepath.Join(rctx.Cwd, tarball)
	dst := filepath.Join(rctx.Cwd, tarballDir, tarball)
	if src == dst {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create tarball directory: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to move tarball: %w", err)
	}
	log.Debug("Moved tarball", "path", dst)
	return nil
}

// Publish publishes the root under the channel's dist-tag.
func (c *Commands) Publish(ctx context.Context, credPath string, cfg release.PluginConfig, m release.Manifest, rctx *release.Context) (release.Release, error) {
	version := rctx.NextRelease.Version
	log := rctx.Log()

	if reason := skipReason(cfg, m); reason != "" {
		log.Info("Skip publishing to npm registry as " + reason)
		return release.Release{Package: m.Name, Version: version, Skipped: true}, nil
	}

	distTag := DistTag(rctx.NextRelease.Channel)
	registry, err := ResolveRegistry(m, rctx)
	if err != nil {
		return release.Release{}, err
	}

	log.Info("Publishing version to npm registry", "version", version, "tag", distTag, "registry", registry)
	if err := c.npm(ctx, rctx, rctx.Cwd, rctx.Out(),
		"publish", filepath.Join(rctx.Cwd, cfg.Root()),
		"--userconfig", credPath, "--tag", distTag, "--registry", registry); err != nil {
		return release.Release{}, err
	}

	info := releaseInfo(m, registry, distTag, version)
	log.Info("Published", "package", m.Name+"@"+version, "tag", distTag, "url", info.URL)
	return info, nil
}

// AddChannel points the channel's dist-tag at the released version.
func (c *Commands) AddChannel(ctx context.Context, credPath string, cfg release.PluginConfig, m release.Manifest, rctx *release.Context) (release.Release, error) {
	version := rctx.NextRelease.Version
	log := rctx.Log()

	if reason := skipReason(cfg, m); reason != "" {
		log.Info("Skip adding to npm channel as " + reason)
		return release.Release{Package: m.Name, Version: version, Skipped: true}, nil
	}

	distTag := DistTag(rctx.NextRelease.Channel)
	registry, err := ResolveRegistry(m, rctx)
	if err != nil {
		return release.Release{}, err
	}

	log.Info("Adding version to npm dist-tag", "package", m.Name+"@"+version, "tag", distTag, "registry", registry)
	if err := c.npm(ctx, rctx, rctx.Cwd, rctx.Out(),
		"dist-tag", "add", m.Name+"@"+version, distTag,
		"--userconfig", credPath, "--registry", registry); err != nil {
		return release.Release{}, err
	}

	return releaseInfo(m, registry, distTag, version), nil
}

func (c *Commands) npm(ctx context.Context, rctx *release.Context, dir string, stdout io.Writer, args ...string) error {
	return c.runner.Run(ctx, shell.Command{
		Args:   append([]string{c.bin}, args...),
		Dir:    dir,
		Env:    rctx.Env,
		Stdout: stdout,
		Stderr: rctx.ErrOut(),
	})
}

func skipReason(cfg release.PluginConfig, m release.Manifest) string {
	switch {
	case !cfg.PublishEnabled():
		return "npmPublish is false"
	case m.Private:
		return "package.json's private property is true"
	}
	return ""
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
