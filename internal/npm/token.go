// SPDX-License-Identifier: MPL-2.0

package npm

import (
	"encoding/base64"

	"npmrelease-cli/internal/release"
)

// SetLegacyToken derives LEGACY_TOKEN from NPM_USERNAME and NPM_PASSWORD when
// all legacy variables (including NPM_EMAIL) are set and LEGACY_TOKEN is not.
func SetLegacyToken(rctx *release.Context) {
	if rctx.Getenv("LEGACY_TOKEN") != "" {
		return
	}
	user, pass, email := rctx.Getenv("NPM_USERNAME"), rctx.Getenv("NPM_PASSWORD"), rctx.Getenv("NPM_EMAIL")
	if user == "" || pass == "" || email == "" {
		return
	}
	rctx.Setenv("LEGACY_TOKEN", base64.StdEncoding.EncodeToString([]byte(user+":"+pass)))
}
