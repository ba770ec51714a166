// SPDX-License-Identifier: MPL-2.0

package main

import cmd "plugsync-cli/cmd/plugsync"

func main() {
	cmd.Execute()
}
