// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"errors"

	"npmrelease-cli/internal/core/lifecycle"
	"npmrelease-cli/internal/issue"

	"golang.org/x/sync/errgroup"
)

type (
	// PackageLoader reads the manifest of one package root. It is called afresh
	// for every root in every hook because earlier release steps may rewrite it.
	PackageLoader interface {
		Load(ctx context.Context, rctx *Context, root string) (Manifest, error)
	}

	// AuthVerifier confirms the registry accepts the configured credentials for
	// the package's registry and scope. Multiple causes may be returned as Errors.
	AuthVerifier interface {
		Verify(ctx context.Context, credPath string, m Manifest, rctx *Context) error
	}

	// Preparer updates one package root for release (version bump, tarball).
	Preparer interface {
		Prepare(ctx context.Context, credPath string, cfg PluginConfig, rctx *Context) error
	}

	// Publisher publishes one package root. cfg carries exactly that root.
	Publisher interface {
		Publish(ctx context.Context, credPath string, cfg PluginConfig, m Manifest, rctx *Context) (Release, error)
	}

	// ChannelAdder points the release channel's dist-tag at the package version.
	ChannelAdder interface {
		AddChannel(ctx context.Context, credPath string, cfg PluginConfig, m Manifest, rctx *Context) (Release, error)
	}

	// TokenInjector derives credential aliases into the context environment.
	// It must be idempotent; every hook calls it once per invocation.
	TokenInjector func(rctx *Context)

	// Dependencies are the collaborators a Session delegates to.
	// LegacyToken and Lookup are optional; every other field is required.
	Dependencies struct {
		// CredentialPath is the shared credential file, created before any hook runs.
		CredentialPath string
		Loader         PackageLoader
		Auth           AuthVerifier
		Preparer       Preparer
		Publisher      Publisher
		ChannelAdder   ChannelAdder
		LegacyToken    TokenInjector
		// Lookup finds the sibling publish-step configuration. Defaults to
		// StepLookup(DefaultPluginName).
		Lookup SiblingLookup
	}

	// Session runs the lifecycle hooks for one release run.
	//
	// The verified and prepared latches belong to the session, so concurrent
	// release runs in one process never observe each other's progress.
	Session struct {
		deps    Dependencies
		latches lifecycle.Latches
	}
)

// NewSession creates a Session with both latches unset.
func NewSession(deps Dependencies) (*Session, error) {
	var missing []error
	if deps.CredentialPath == "" {
		missing = append(missing, errors.New("credential path is required"))
	}
	if deps.Loader == nil {
		missing = append(missing, errors.New("package loader is required"))
	}
	if deps.Auth == nil {
		missing = append(missing, errors.New("auth verifier is required"))
	}
	if deps.Preparer == nil {
		missing = append(missing, errors.New("preparer is required"))
	}
	if deps.Publisher == nil {
		missing = append(missing, errors.New("publisher is required"))
	}
	if deps.ChannelAdder == nil {
		missing = append(missing, errors.New("channel adder is required"))
	}
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	if deps.LegacyToken == nil {
		deps.LegacyToken = func(*Context) {}
	}
	if deps.Lookup == nil {
		deps.Lookup = StepLookup(DefaultPluginName)
	}

	return &Session{deps: deps, latches: lifecycle.NewLatches()}, nil
}

// Verified reports whether a Verify call has fully succeeded in this session.
func (s *Session) Verified() bool {
	return s.latches.Verified.IsSet()
}

// Prepared reports whether a Prepare call has fully succeeded in this session.
func (s *Session) Prepared() bool {
	return s.latches.Prepared.IsSet()
}

// CredentialPath returns the shared credential file path.
func (s *Session) CredentialPath() string {
	return s.deps.CredentialPath
}

// ResolveConfig fills options left out of cfg from the plugin's publish step.
// Drivers pass the result to every hook so all phases act on the same roots
// and options that Verify checked.
func (s *Session) ResolveConfig(cfg PluginConfig, rctx *Context) PluginConfig {
	if sibling, ok := s.deps.Lookup(rctx); ok {
		return cfg.WithDefaults(sibling)
	}
	return cfg
}

// Verify validates the configuration and, for every publishable root, the
// registry credentials. Every root is checked even after a failure; all
// collected errors are returned together. On success the verified latch is set
// and later hooks skip validation and authentication.
func (s *Session) Verify(ctx context.Context, cfg PluginConfig, rctx *Context) error {
	logger := rctx.Log().With("step", lifecycle.PhaseVerify)

	cfg = s.ResolveConfig(cfg, rctx)

	errs := ValidateConfig(cfg)
	s.deps.LegacyToken(rctx)

	for _, root := range cfg.Roots() {
		outcome := s.gate(ctx, cfg, root, rctx, true)
		if !outcome.ok() {
			logger.Debug("package root failed verification", "root", root, "errors", len(outcome.errs))
		}
		errs = drain(errs, outcome)
	}

	if err := aggregate(errs); err != nil {
		return err
	}

	logger.Debug("verified", "roots", len(cfg.Roots()))
	return s.latches.Verified.Set(lifecycle.PhaseVerify)
}

// Prepare updates every root for release. Validation and authentication are
// skipped once the session is verified. The first root that leaves errors in
// the collection stops the hook; later roots are not touched.
func (s *Session) Prepare(ctx context.Context, cfg PluginConfig, rctx *Context) error {
	logger := rctx.Log().With("step", lifecycle.PhasePrepare)

	errs := s.validateUnlessVerified(cfg)
	s.deps.LegacyToken(rctx)

	for _, root := range cfg.Roots() {
		var stop bool
		if errs, stop = failFast(errs, s.gate(ctx, cfg, root, rctx, !s.Verified())); stop {
			return aggregate(errs)
		}

		if err := s.deps.Preparer.Prepare(ctx, s.deps.CredentialPath, cfg.WithRoot(root), rctx); err != nil {
			return delegateError(lifecycle.PhasePrepare, root, err)
		}
		logger.Debug("prepared package root", "root", root)
	}

	return s.latches.Prepared.Set(lifecycle.PhasePrepare)
}

// Publish publishes every root and returns one Release per root, in root order.
//
// Roots are gated one after the other exactly like Prepare, preparing a root
// first when the session was never prepared. Each publish is dispatched as
// soon as its root clears the gate, so publishes overlap with the gating of
// later roots; all of them are awaited before returning. If a later root
// fails the gate, in-flight publishes are cancelled and awaited.
func (s *Session) Publish(ctx context.Context, cfg PluginConfig, rctx *Context) (PublishResult, error) {
	logger := rctx.Log().With("step", lifecycle.PhasePublish)

	errs := s.validateUnlessVerified(cfg)
	s.deps.LegacyToken(rctx)

	roots := cfg.Roots()
	releases := make([]Release, len(roots))

	dispatchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(dispatchCtx)

	abort := func(err error) (PublishResult, error) {
		cancel()
		_ = g.Wait() // In-flight publishes are cancelled; their errors are superseded by err.
		return PublishResult{}, err
	}

	for i, root := range roots {
		outcome := s.gate(ctx, cfg, root, rctx, !s.Verified())
		var stop bool
		if errs, stop = failFast(errs, outcome); stop {
			return abort(aggregate(errs))
		}

		rootCfg := cfg.WithRoot(root)
		if !s.Prepared() {
			if err := s.deps.Preparer.Prepare(ctx, s.deps.CredentialPath, rootCfg, rctx); err != nil {
				return abort(delegateError(lifecycle.PhasePrepare, root, err))
			}
		}

		manifest := outcome.manifest
		g.Go(func() error {
			rel, err := s.deps.Publisher.Publish(gctx, s.deps.CredentialPath, rootCfg, manifest, rctx)
			if err != nil {
				return delegateError(lifecycle.PhasePublish, root, err)
			}
			releases[i] = rel
			return nil
		})
		logger.Debug("dispatched publish", "root", root, "package", manifest.Name)
	}

	if err := g.Wait(); err != nil {
		return PublishResult{}, err
	}
	return PublishResult{Releases: releases}, nil
}

// AddChannel tags every root's current version with the release channel and
// returns the per-root releases in root order. It neither reads nor sets the
// prepared latch and hands the whole configuration to the channel adder.
func (s *Session) AddChannel(ctx context.Context, cfg PluginConfig, rctx *Context) ([]Release, error) {
	logger := rctx.Log().With("step", lifecycle.PhaseAddChannel)

	errs := s.validateUnlessVerified(cfg)
	s.deps.LegacyToken(rctx)

	roots := cfg.Roots()
	releases := make([]Release, 0, len(roots))
	for _, root := range roots {
		outcome := s.gate(ctx, cfg, root, rctx, !s.Verified())
		var stop bool
		if errs, stop = failFast(errs, outcome); stop {
			return nil, aggregate(errs)
		}

		rel, err := s.deps.ChannelAdder.AddChannel(ctx, s.deps.CredentialPath, cfg, outcome.manifest, rctx)
		if err != nil {
			return nil, delegateError(lifecycle.PhaseAddChannel, root, err)
		}
		logger.Debug("added channel", "root", root, "package", outcome.manifest.Name)
		releases = append(releases, rel)
	}

	return releases, nil
}

func (s *Session) validateUnlessVerified(cfg PluginConfig) []error {
	if s.Verified() {
		return nil
	}
	return ValidateConfig(cfg)
}

// gate loads the root's manifest and, when authenticate is set and the package
// is publishable, checks the registry credentials.
func (s *Session) gate(ctx context.Context, cfg PluginConfig, root string, rctx *Context, authenticate bool) rootOutcome {
	m, err := s.deps.Loader.Load(ctx, rctx, root)
	if err != nil {
		return failedOutcome(root, err)
	}

	if authenticate && cfg.PublishEnabled() && !m.Private {
		if err := s.deps.Auth.Verify(ctx, s.deps.CredentialPath, m, rctx); err != nil {
			return failedOutcome(root, err)
		}
	}

	return okOutcome(root, m)
}

func delegateError(phase lifecycle.Phase, root string, err error) error {
	var op string
	switch phase {
	case lifecycle.PhasePrepare:
		op = "prepare npm package"
	case lifecycle.PhasePublish:
		op = "publish npm package"
	default:
		op = "add npm dist-tag"
	}
	return issue.NewErrorContext().
		WithOperation(op).
		WithResource(root).
		WithSuggestion("Re-run with --verbose to see the npm output").
		Wrap(err).
		BuildError()
}
