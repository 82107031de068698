// SPDX-License-Identifier: MPL-2.0

package npmrc

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// Config is the flat key/value view of one or more .npmrc files.
// Later files override earlier ones. Keys under a [section] header are
// prefixed with "section.", as npm does.
type Config map[string]string

// npmrc keys contain ':' and values may contain '#', so only '=' delimits and
// comments must start the line.
func loadOptions(loose bool) ini.LoadOptions {
	return ini.LoadOptions{
		Loose:                   loose,
		KeyValueDelimiters:      "=",
		IgnoreInlineComment:     true,
		IgnoreContinuation:      true,
		SkipUnrecognizableLines: true,
	}
}

// Parse reads .npmrc content: one "key = value" per line, ';' and '#' start comments.
// Quoted values are unquoted.
func Parse(content string) (Config, error) {
	f, err := ini.LoadSources(loadOptions(false), []byte(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse npm config: %w", err)
	}
	return flatten(f), nil
}

// Load parses every existing file in order into one Config.
func Load(paths ...string) (Config, error) {
	if len(paths) == 0 {
		return Config{}, nil
	}
	others := make([]any, 0, len(paths)-1)
	for _, p := range paths[1:] {
		others = append(others, p)
	}
	f, err := ini.LoadSources(loadOptions(true), paths[0], others...)
	if err != nil {
		return nil, fmt.Errorf("failed to read npm config: %w", err)
	}
	return flatten(f), nil
}

func flatten(f *ini.File) Config {
	cfg := make(Config)
	for _, section := range f.Sections() {
		prefix := ""
		if name := section.Name(); name != ini.DefaultSection {
			prefix = name + "."
		}
		for _, key := range section.Keys() {
			cfg[prefix+key.Name()] = key.Value()
		}
	}
	return cfg
}

// Registry returns the registry configured for scope ("@acme"), falling back
// to the default "registry" key. Values are expanded against env. Empty means unset.
func (c Config) Registry(scope string, env map[string]string) string {
	if scope != "" {
		if r := c[scope+":registry"]; r != "" {
			return expand(r, env)
		}
	}
	return expand(c["registry"], env)
}

// HasAuth reports whether the config already authenticates registry, either
// with a registry-scoped token/credentials or with global legacy auth.
func (c Config) HasAuth(registry string) bool {
	nerf := NerfDart(registry)
	for _, key := range []string{":_authToken", ":_auth", ":_password"} {
		if c[nerf+key] != "" {
			return true
		}
	}
	return c["_auth"] != "" || c["_authToken"] != ""
}

func expand(s string, env map[string]string) string {
	return os.Expand(s, func(key string) string {
		return env[key]
	})
}

// ScopedRegistry reads the registry for scope from the project .npmrc in dir
// and then the user's home .npmrc; the project file wins.
func ScopedRegistry(dir, scope string, env map[string]string) (string, error) {
	cfg, err := Load(UserConfigPaths(dir, env)...)
	if err != nil {
		return "", err
	}
	return cfg.Registry(scope, env), nil
}

// UserConfigPaths lists the .npmrc files npm would read for a project in dir,
// lowest precedence first. NPM_CONFIG_USERCONFIG replaces the home file.
func UserConfigPaths(dir string, env map[string]string) []string {
	var paths []string
	switch {
	case env["NPM_CONFIG_USERCONFIG"] != "":
		paths = append(paths, env["NPM_CONFIG_USERCONFIG"])
	case env["HOME"] != "":
		paths = append(paths, filepath.Join(env["HOME"], FileName))
	}
	return append(paths, filepath.Join(dir, FileName))
}

// Authorization returns the HTTP Authorization header value npm would send to
// registry, or "" when the config holds no credentials for it.
// A registry-scoped token wins over basic credentials.
func (c Config) Authorization(registry string, env map[string]string) string {
	nerf := NerfDart(registry)
	if token := expand(c[nerf+":_authToken"], env); token != "" {
		return "Bearer " + token
	}
	if auth := expand(c[nerf+":_auth"], env); auth != "" {
		return "Basic " + auth
	}
	if token := expand(c["_authToken"], env); token != "" {
		return "Bearer " + token
	}
	if auth := expand(c["_auth"], env); auth != "" {
		return "Basic " + auth
	}
	return ""
}
