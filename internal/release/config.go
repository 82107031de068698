// SPDX-License-Identifier: MPL-2.0

package release

import "maps"

// DefaultRoot is the package root used when pkgRoot is absent or empty.
const DefaultRoot = "."

// PluginConfig holds the plugin options as the driver delivered them.
//
// The recognized options stay untyped so ValidateConfig can report values of
// the wrong shape; use the accessor methods to read them once validated.
// A nil field means the option is absent.
type PluginConfig struct {
	// NpmPublish is a bool or absent. Anything other than false enables publishing.
	NpmPublish any `mapstructure:"npmPublish"`
	// TarballDir is a non-empty string or absent.
	TarballDir any `mapstructure:"tarballDir"`
	// PkgRoot is a string, a list of strings, or absent.
	PkgRoot any `mapstructure:"pkgRoot"`
	// Extra keeps options this plugin does not interpret.
	Extra map[string]any `mapstructure:",remain"`
}

// PublishEnabled reports whether npmPublish is anything but an explicit false.
func (c PluginConfig) PublishEnabled() bool {
	b, ok := c.NpmPublish.(bool)
	return !ok || b
}

// Tarball returns the tarball directory, or "" when none is configured.
func (c PluginConfig) Tarball() string {
	s, _ := c.TarballDir.(string)
	return s
}

// Roots returns pkgRoot normalized to an ordered list.
// A single path becomes a one-element list; absent or empty becomes [DefaultRoot].
// Entries that are not strings are dropped (ValidateConfig reports them).
func (c PluginConfig) Roots() []string {
	var roots []string
	switch v := c.PkgRoot.(type) {
	case string:
		roots = []string{v}
	case []string:
		roots = append(roots, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				roots = append(roots, s)
			}
		}
	}
	if len(roots) == 0 {
		return []string{DefaultRoot}
	}
	return roots
}

// Root returns the first normalized root. Per-root configs carry exactly one.
func (c PluginConfig) Root() string {
	return c.Roots()[0]
}

// WithRoot returns a copy of the config whose pkgRoot is the single given root.
func (c PluginConfig) WithRoot(root string) PluginConfig {
	out := c.clone()
	out.PkgRoot = root
	return out
}

// WithDefaults returns a copy where every absent recognized option is taken
// from fallback. Options already present are kept as given.
func (c PluginConfig) WithDefaults(fallback PluginConfig) PluginConfig {
	out := c.clone()
	if out.NpmPublish == nil {
		out.NpmPublish = fallback.NpmPublish
	}
	if out.TarballDir == nil {
		out.TarballDir = fallback.TarballDir
	}
	if out.PkgRoot == nil {
		out.PkgRoot = fallback.PkgRoot
	}
	return out
}

func (c PluginConfig) clone() PluginConfig {
	out := c
	if c.Extra != nil {
		out.Extra = maps.Clone(c.Extra)
	}
	return out
}
