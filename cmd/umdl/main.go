// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"umd-launcher/cmd/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
