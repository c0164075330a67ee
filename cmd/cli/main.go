// SPDX-License-Identifier: Apache-2.0

// Package cli is the launcher's command-line front end. Invocations fall
// into two families: the launcher fast path (no arguments, or arguments
// starting with a flag) which bootstraps and dispatches, and the
// management commands (a bare word first: env, install, doctor, serve,
// setup) handled by cobra.
package cli

import (
	"umd-launcher/internal/logger"
)

// managementCommands are the bare words that route into the cobra tree.
// Anything else goes down the launcher fast path, so a first positional
// argument meant for the dispatch target is forwarded untouched.
var managementCommands = map[string]bool{
	"env":        true,
	"install":    true,
	"doctor":     true,
	"serve":      true,
	"setup":      true,
	"config":     true,
	"completion": true,
	"help":       true,
	"__complete": true, // cobra shell-completion machinery
}

// Main routes the invocation and returns the process exit code.
func Main(args []string) int {
	if len(args) > 0 && managementCommands[args[0]] {
		logger.Init(args[0] == "setup")
		return runManagement(args)
	}
	logger.Init(false)
	return Launch(args)
}
