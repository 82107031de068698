// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"errors"
	"sync"
	"time"
)

// recorder collects collaborator calls; publish calls arrive from several goroutines.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type fakeLoader struct {
	rec       *recorder
	manifests map[string]Manifest
	errs      map[string]error
}

func (f *fakeLoader) Load(_ context.Context, _ *Context, root string) (Manifest, error) {
	f.rec.record("load:" + root)
	if err, ok := f.errs[root]; ok {
		return Manifest{}, err
	}
	if m, ok := f.manifests[root]; ok {
		return m, nil
	}
	return Manifest{Root: root, Name: "pkg-" + root, Version: "1.0.0"}, nil
}

type fakeAuth struct {
	rec  *recorder
	errs map[string]error // keyed by root
}

func (f *fakeAuth) Verify(_ context.Context, credPath string, m Manifest, _ *Context) error {
	if credPath == "" {
		return errors.New("empty credential path")
	}
	f.rec.record("auth:" + m.Root)
	return f.errs[m.Root]
}

type fakePreparer struct {
	rec  *recorder
	errs map[string]error
}

func (f *fakePreparer) Prepare(_ context.Context, _ string, cfg PluginConfig, _ *Context) error {
	f.rec.record("prepare:" + cfg.Root())
	return f.errs[cfg.Root()]
}

type fakePublisher struct {
	rec    *recorder
	delays map[string]time.Duration
	errs   map[string]error
}

func (f *fakePublisher) Publish(ctx context.Context, _ string, cfg PluginConfig, m Manifest, rctx *Context) (Release, error) {
	root := cfg.Root()
	f.rec.record("publish:" + root)
	if d := f.delays[root]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return Release{}, ctx.Err()
		}
	}
	if err := f.errs[root]; err != nil {
		return Release{}, err
	}
	return Release{Name: "npm package (@latest dist-tag)", Package: m.Name, Version: rctx.NextRelease.Version, Channel: "latest"}, nil
}

type fakeChannelAdder struct {
	rec     *recorder
	errs    map[string]error
	configs []PluginConfig
}

func (f *fakeChannelAdder) AddChannel(_ context.Context, _ string, cfg PluginConfig, m Manifest, _ *Context) (Release, error) {
	f.rec.record("channel:" + m.Root)
	f.configs = append(f.configs, cfg)
	if err := f.errs[m.Root]; err != nil {
		return Release{}, err
	}
	return Release{Name: "npm package (@next dist-tag)", Package: m.Name, Channel: "next"}, nil
}

type harness struct {
	rec       *recorder
	loader    *fakeLoader
	auth      *fakeAuth
	preparer  *fakePreparer
	publisher *fakePublisher
	channels  *fakeChannelAdder
	tokens    int
	session   *Session
}

func newHarness() *harness {
	rec := &recorder{}
	h := &harness{
		rec:       rec,
		loader:    &fakeLoader{rec: rec, manifests: map[string]Manifest{}, errs: map[string]error{}},
		auth:      &fakeAuth{rec: rec, errs: map[string]error{}},
		preparer:  &fakePreparer{rec: rec, errs: map[string]error{}},
		publisher: &fakePublisher{rec: rec, delays: map[string]time.Duration{}, errs: map[string]error{}},
		channels:  &fakeChannelAdder{rec: rec, errs: map[string]error{}},
	}
	s, err := NewSession(Dependencies{
		CredentialPath: "/tmp/npmrelease-test/.npmrc",
		Loader:         h.loader,
		Auth:           h.auth,
		Preparer:       h.preparer,
		Publisher:      h.publisher,
		ChannelAdder:   h.channels,
		LegacyToken:    func(*Context) { h.tokens++ },
	})
	if err != nil {
		panic(err)
	}
	h.session = s
	return h
}

func newContext() *Context {
	return &Context{
		Cwd:         "/repo",
		Env:         map[string]string{},
		NextRelease: NextRelease{Version: "1.2.3"},
	}
}
