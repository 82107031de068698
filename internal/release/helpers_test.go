// SPDX-License-Identifier: MPL-2.0

package release

import "time"

func durationMillis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
