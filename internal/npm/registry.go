// SPDX-License-Identifier: MPL-2.0

package npm

import (
	"strings"

	"npmrelease-cli/internal/npmrc"
	"npmrelease-cli/internal/release"
)

// DefaultRegistry is the public npm registry.
const DefaultRegistry = "https://registry.npmjs.org/"

// ResolveRegistry returns the registry a package publishes to, in order of
// precedence: publishConfig.registry, the scoped or default registry from the
// .npmrc files, NPM_CONFIG_REGISTRY, then DefaultRegistry.
// The result always ends with a slash.
func ResolveRegistry(m release.Manifest, rctx *release.Context) (string, error) {
	if m.PublishRegistry != "" {
		return withSlash(m.PublishRegistry), nil
	}

	registry, err := npmrc.ScopedRegistry(rctx.Cwd, Scope(m.Name), rctx.Env)
	if err != nil {
		return "", err
	}
	if registry != "" {
		return withSlash(registry), nil
	}

	if env := rctx.Getenv("NPM_CONFIG_REGISTRY"); env != "" {
		return withSlash(env), nil
	}
	return DefaultRegistry, nil
}

// Scope returns "@scope" for a scoped package name, or "".
func Scope(name string) string {
	if !strings.HasPrefix(name, "@") {
		return ""
	}
	scope, _, ok := strings.Cut(name, "/")
	if !ok {
		return ""
	}
	return scope
}

// IsDefaultRegistry reports whether registry is the public npm registry.
func IsDefaultRegistry(registry string) bool {
	return normalizeURL(registry) == normalizeURL(DefaultRegistry)
}

func normalizeURL(u string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(u)), "/")
}

func withSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
