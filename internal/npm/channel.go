// SPDX-License-Identifier: MPL-2.0

package npm

import (
	"fmt"

	"npmrelease-cli/internal/release"

	"github.com/Masterminds/semver/v3"
)

// LatestTag is the dist-tag for releases on the default channel.
const LatestTag = "latest"

// DistTag maps a release channel to the npm dist-tag it publishes under.
// A channel that is a semver range ("1.x", "2") gets a "release-" prefix so
// npm does not reject it as a version-like tag.
func DistTag(channel string) string {
	if channel == "" {
		return LatestTag
	}
	if _, err := semver.NewConstraint(channel); err == nil {
		return "release-" + channel
	}
	return channel
}

// PackageURL returns the npmjs.com page for a published version.
func PackageURL(name, version string) string {
	return fmt.Sprintf("https://www.npmjs.com/package/%s/v/%s", name, version)
}

func releaseInfo(m release.Manifest, registry, distTag, version string) release.Release {
	r := release.Release{
		Name:    fmt.Sprintf("npm package (@%s dist-tag)", distTag),
		Channel: distTag,
		Package: m.Name,
		Version: version,
	}
	if IsDefaultRegistry(registry) {
		r.URL = PackageURL(m.Name, version)
	}
	return r
}
