// SPDX-License-Identifier: MPL-2.0

package npmrc

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// ErrNoToken is returned when the environment carries no npm credentials.
var ErrNoToken = errors.New("no npm token specified")

// AppendAuth makes the .npmrc at path authenticate against registry.
//
// Nothing is written when the file already holds credentials for the registry.
// Otherwise NPM_TOKEN yields a registry-scoped token line, and LEGACY_TOKEN
// (see npm.SetLegacyToken) yields global _auth and email lines.
// ErrNoToken is returned when neither is available.
func AppendAuth(path, registry string, env map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read credential file: %w", err)
	}

	cfg, err := Parse(string(data))
	if err != nil {
		return err
	}
	if cfg.HasAuth(registry) {
		return nil
	}

	var lines string
	switch {
	case env["NPM_TOKEN"] != "":
		lines = NerfDart(registry) + ":_authToken = ${NPM_TOKEN}\n"
	case env["LEGACY_TOKEN"] != "":
		lines = "_auth = ${LEGACY_TOKEN}\nemail = ${NPM_EMAIL}\n"
	default:
		return ErrNoToken
	}

	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content+lines), 0o600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}

// NerfDart returns the registry key npm uses to scope credentials:
// the URL without scheme, credentials, query and fragment, cut after its last slash.
// "https://registry.npmjs.org/" becomes "//registry.npmjs.org/".
func NerfDart(registry string) string {
	u, err := url.Parse(registry)
	if err != nil || u.Host == "" {
		return "//" + strings.TrimPrefix(registry, "//")
	}
	dir := u.Path
	if i := strings.LastIndex(dir, "/"); i >= 0 {
		dir = dir[:i+1]
	} else {
		dir = "/"
	}
	if !strings.HasPrefix(dir, "/") {
		dir = "/" + dir
	}
	return "//" + u.Host + dir
}
