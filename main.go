// SPDX-License-Identifier: MPL-2.0

package main

import cmd "npmrelease-cli/cmd/npmrelease"

func main() {
	cmd.Execute()
}
