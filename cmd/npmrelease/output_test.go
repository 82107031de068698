// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"npmrelease-cli/internal/release"

	"github.com/pelletier/go-toml/v2"
)

// readReleases reads a file written by writeReleases.
func readReleases(path string) ([]release.Release, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var res release.PublishResult
	if err := toml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return res.Releases, nil
}

func TestWriteReleasesRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.toml")
	in := []release.Release{
		{Name: "npm package (@next dist-tag)", URL: "https://www.npmjs.com/package/@scope/a/v/1.0.0", Channel: "next", Package: "@scope/a", Version: "1.0.0"},
		{Package: "b", Version: "1.0.0", Skipped: true},
	}
	if err := writeReleases(path, in); err != nil {
		t.Fatalf("writeReleases() error = %v", err)
	}
	out, err := readReleases(path)
	if err != nil {
		t.Fatalf("readReleases() error = %v", err)
	}
	if len(out) != len(in) || out[0] != in[0] || out[1] != in[1] {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
