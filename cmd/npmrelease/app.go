// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"npmrelease-cli/internal/config"
	"npmrelease-cli/internal/npm"
	"npmrelease-cli/internal/npmrc"
	"npmrelease-cli/internal/release"
	"npmrelease-cli/internal/shell"

	"github.com/charmbracelet/log"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer; every command handler receives an App reference.
	App struct {
		Config     ConfigProvider
		Runner     shell.Runner
		HTTPClient *http.Client
		environ    func() []string
		tempDir    string
		stdout     io.Writer
		stderr     io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// Runner executes npm. Defaults to the mvdan/sh interpreter.
		Runner shell.Runner
		// HTTPClient replaces the retrying whoami client when set.
		HTTPClient *http.Client
		// Environ supplies the environment handed to npm. Defaults to os.Environ.
		Environ func() []string
		// TempDir holds the credential directory. Empty means os.TempDir().
		TempDir string
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// runFlags are the flags shared by every hook command.
	runFlags struct {
		verbose     bool
		configPath  string
		cwd         string
		nextVersion string
		channel     string
		output      string
	}

	// configLoadError marks failures that happened before any hook ran.
	configLoadError struct {
		err error
	}

	// releaseRun is one invocation's session and the resources it owns.
	releaseRun struct {
		session *release.Session
		rctx    *release.Context
		plugin  release.PluginConfig
		store   *npmrc.Store
		verbose bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = shell.NewInterpreter()
	}
	if deps.Environ == nil {
		deps.Environ = os.Environ
	}

	return &App{
		Config:     deps.Config,
		Runner:     deps.Runner,
		HTTPClient: deps.HTTPClient,
		environ:    deps.Environ,
		tempDir:    deps.TempDir,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}, nil
}

// newLogger builds the hook logger. Verbose output includes debug records.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "npm"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// startRun loads configuration, opens the credential file and builds the
// session shared by every hook run in this invocation. Callers must Close it.
func (a *App) startRun(ctx context.Context, flags *runFlags) (*releaseRun, error) {
	cwd := flags.cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		cwd = wd
	}
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath, BaseDir: cwd})
	if err != nil {
		return nil, &configLoadError{err: err}
	}

	verbose := flags.verbose || cfg.UI.Verbose
	next := cfg.Release
	if flags.nextVersion != "" {
		next.Version = flags.nextVersion
	}
	if flags.channel != "" {
		next.Channel = flags.channel
	}

	env := envMap(a.environ())
	rctx := &release.Context{
		Cwd:         cwd,
		Env:         env,
		Logger:      newLogger(a.stderr, verbose),
		Stdout:      a.stdout,
		Stderr:      a.stderr,
		Options:     cfg.Options(),
		NextRelease: next,
	}

	store, err := npmrc.Open(
		npmrc.WithTempDir(a.tempDir),
		npmrc.WithBaseConfig(npmrc.UserConfigPaths(cwd, env)...),
	)
	if err != nil {
		return nil, err
	}

	authOpts := []npm.AuthOption{npm.WithWhoamiOnAllRegistries(cfg.Registry.WhoamiAllRegistries)}
	if a.HTTPClient != nil {
		authOpts = append(authOpts, npm.WithHTTPClient(a.HTTPClient))
	}
	commands := npm.NewCommands(a.Runner, npm.WithNpmBinary(cfg.Registry.NpmBinary))

	session, err := release.NewSession(release.Dependencies{
		CredentialPath: store.Path(),
		Loader:         npm.NewPackageLoader(),
		Auth:           npm.NewAuthVerifier(store, authOpts...),
		Preparer:       commands,
		Publisher:      commands,
		ChannelAdder:   commands,
		LegacyToken:    npm.SetLegacyToken,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	rctx.Log().Debug("Credential file ready", "path", store.Path())
	return &releaseRun{
		session: session,
		rctx:    rctx,
		plugin:  session.ResolveConfig(cfg.Plugin, rctx),
		store:   store,
		verbose: verbose,
	}, nil
}

// Close removes the credential file.
func (r *releaseRun) Close() error {
	return r.store.Close()
}

func (e *configLoadError) Error() string { return e.err.Error() }

func (e *configLoadError) Unwrap() error { return e.err }

func envMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}
