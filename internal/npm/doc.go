// SPDX-License-Identifier: MPL-2.0

// Package npm implements the release collaborators on top of the npm CLI and
// registry: manifest loading, registry resolution, credential checks and the
// version, publish and dist-tag commands.
package npm
