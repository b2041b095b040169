// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/modhost/modman/cmd/modman"

func main() {
	cmd.Execute()
}
