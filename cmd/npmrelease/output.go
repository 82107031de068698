// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"npmrelease-cli/internal/release"

	"github.com/pelletier/go-toml/v2"
)

// writeReleases writes the release descriptors to path as TOML.
func writeReleases(path string, releases []release.Release) error {
	data, err := toml.Marshal(release.PublishResult{Releases: releases})
	if err != nil {
		return fmt.Errorf("failed to encode releases: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
