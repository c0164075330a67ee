// SPDX-License-Identifier: Apache-2.0

package util

import "strings"

// QuoteArg quotes a single argument for display in diagnostics, using
// POSIX single-quote rules. Plain arguments are returned unchanged so
// log lines stay readable.
func QuoteArg(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\n'\"\\$&|;<>()*?[]#~%") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// RenderCommand renders an executable plus its arguments as a single
// human-readable line for progress and error messages. The result is for
// display only and is never handed to a shell.
func RenderCommand(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, QuoteArg(name))
	for _, arg := range args {
		parts = append(parts, QuoteArg(arg))
	}
	return strings.Join(parts, " ")
}
