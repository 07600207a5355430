// SPDX-License-Identifier: MPL-2.0

// inputactions keeps generated C# input action accessors in sync with the
// InputSettings of gamemode projects.
package main

import cmd "github.com/peter-r-g/inputactions/cmd/inputactions"

func main() {
	cmd.Execute()
}
