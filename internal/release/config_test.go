// SPDX-License-Identifier: MPL-2.0

package release

import (
	"slices"
	"testing"
)

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cfg   PluginConfig
		codes []Code
	}{
		{name: "empty", cfg: PluginConfig{}},
		{name: "valid", cfg: PluginConfig{NpmPublish: false, TarballDir: "dist", PkgRoot: []any{"a", "b"}}},
		{name: "string root", cfg: PluginConfig{PkgRoot: "packages/core"}},
		{name: "typed root list", cfg: PluginConfig{PkgRoot: []string{"a"}}},
		{name: "empty root list", cfg: PluginConfig{PkgRoot: []any{}}},
		{name: "npmPublish string", cfg: PluginConfig{NpmPublish: "true"}, codes: []Code{CodeInvalidNpmPublish}},
		{name: "tarballDir empty", cfg: PluginConfig{TarballDir: ""}, codes: []Code{CodeInvalidTarballDir}},
		{name: "tarballDir number", cfg: PluginConfig{TarballDir: 1}, codes: []Code{CodeInvalidTarballDir}},
		{name: "pkgRoot empty string", cfg: PluginConfig{PkgRoot: ""}, codes: []Code{CodeInvalidPkgRoot}},
		{name: "pkgRoot bad entry", cfg: PluginConfig{PkgRoot: []any{"a", 2}}, codes: []Code{CodeInvalidPkgRoot}},
		{name: "pkgRoot empty entry", cfg: PluginConfig{PkgRoot: []string{"a", ""}}, codes: []Code{CodeInvalidPkgRoot}},
		{name: "pkgRoot map", cfg: PluginConfig{PkgRoot: map[string]any{}}, codes: []Code{CodeInvalidPkgRoot}},
		{
			name:  "everything wrong, reported in order",
			cfg:   PluginConfig{NpmPublish: 1, TarballDir: false, PkgRoot: true},
			codes: []Code{CodeInvalidNpmPublish, CodeInvalidTarballDir, CodeInvalidPkgRoot},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := ValidateConfig(tt.cfg)
			var got []Code
			for _, err := range errs {
				re, ok := err.(*Error)
				if !ok {
					t.Fatalf("expected *Error, got %T", err)
				}
				got = append(got, re.Code)
			}
			if !slices.Equal(got, tt.codes) {
				t.Errorf("codes = %v, want %v", got, tt.codes)
			}
		})
	}
}

func TestPluginConfigAccessors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     PluginConfig
		roots   []string
		publish bool
		tarball string
	}{
		{name: "defaults", cfg: PluginConfig{}, roots: []string{"."}, publish: true},
		{name: "single root", cfg: PluginConfig{PkgRoot: "dist"}, roots: []string{"dist"}, publish: true},
		{name: "root list", cfg: PluginConfig{PkgRoot: []any{"a", "b"}}, roots: []string{"a", "b"}, publish: true},
		{name: "empty list", cfg: PluginConfig{PkgRoot: []string{}}, roots: []string{"."}, publish: true},
		{name: "publish false", cfg: PluginConfig{NpmPublish: false}, roots: []string{"."}, publish: false},
		{name: "publish non-bool", cfg: PluginConfig{NpmPublish: "false"}, roots: []string{"."}, publish: true},
		{name: "tarball", cfg: PluginConfig{TarballDir: "out"}, roots: []string{"."}, publish: true, tarball: "out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.cfg.Roots(); !slices.Equal(got, tt.roots) {
				t.Errorf("Roots() = %v, want %v", got, tt.roots)
			}
			if got := tt.cfg.PublishEnabled(); got != tt.publish {
				t.Errorf("PublishEnabled() = %v, want %v", got, tt.publish)
			}
			if got := tt.cfg.Tarball(); got != tt.tarball {
				t.Errorf("Tarball() = %q, want %q", got, tt.tarball)
			}
		})
	}
}

func TestWithRootDoesNotMutate(t *testing.T) {
	t.Parallel()

	cfg := PluginConfig{PkgRoot: []any{"a", "b"}, Extra: map[string]any{"k": "v"}}
	rootCfg := cfg.WithRoot("b")
	rootCfg.Extra["k"] = "changed"

	if rootCfg.Root() != "b" {
		t.Errorf("Root() = %q, want b", rootCfg.Root())
	}
	if got := cfg.Roots(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("original roots mutated: %v", got)
	}
	if cfg.Extra["k"] != "v" {
		t.Error("original Extra mutated")
	}
}

func TestWithDefaults(t *testing.T) {
	t.Parallel()

	fallback := PluginConfig{NpmPublish: false, TarballDir: "dist", PkgRoot: "lib"}
	got := PluginConfig{TarballDir: "mine"}.WithDefaults(fallback)

	if got.NpmPublish != false {
		t.Errorf("NpmPublish = %v, want false", got.NpmPublish)
	}
	if got.TarballDir != "mine" {
		t.Errorf("TarballDir = %v, want mine", got.TarballDir)
	}
	if got.PkgRoot != "lib" {
		t.Errorf("PkgRoot = %v, want lib", got.PkgRoot)
	}
}

func TestStepLookup(t *testing.T) {
	t.Parallel()

	lookup := StepLookup(DefaultPluginName)
	if _, ok := lookup(nil); ok {
		t.Error("nil context should not match")
	}
	rctx := &Context{Options: Options{Publish: []StepConfig{
		{Path: "@semantic-release/github"},
		{Path: DefaultPluginName, Config: PluginConfig{TarballDir: "first"}},
		{Path: DefaultPluginName, Config: PluginConfig{TarballDir: "second"}},
	}}}
	cfg, ok := lookup(rctx)
	if !ok || cfg.TarballDir != "first" {
		t.Errorf("lookup = %+v, %v; want first match", cfg, ok)
	}
}
