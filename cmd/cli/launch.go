// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"

	"umd-launcher/internal/config"
	"umd-launcher/internal/launcher"
	"umd-launcher/internal/logger"
)

const usageText = `Usage: umdl [launcher flags] [arguments forwarded to the target]

Bootstraps the isolated Python environment (creating it and installing
manifest dependencies when needed) and launches the UMD2 suite.

Launcher flags (leading arguments only):
  --gui                Launch the GUI (default)
  --backend            Launch the backend processor
  --force-install      Rebuild the environment and reinstall dependencies
  --force-reinstall    Alias for --force-install
  --install-only       Bootstrap only; do not launch anything
  -h, --help           Show this help

Everything from the first unrecognized argument on is forwarded verbatim
to the launched program. Use "--" to force forwarding of the rest.

Management commands:
  umdl env status|rebuild|clean   Inspect or reset the environment
  umdl install                    Bootstrap only (same as --install-only)
  umdl doctor                     Run health checks
  umdl setup                      Interactive bootstrap (TUI)
  umdl serve                      Status page and JSON API
  umdl config show|init           Show or write launcher.yaml
`

// errBothModes is reported when the leading flags name both targets.
var errBothModes = fmt.Errorf("cannot combine --gui and --backend")

// parseLaunchArgs consumes recognized launcher flags from the leading
// arguments. Parsing stops at the first unrecognized token (or after
// "--"); everything from there on is forwarded verbatim.
func parseLaunchArgs(args []string) (opts launcher.Options, showUsage bool, err error) {
	i := 0
loop:
	for ; i < len(args); i++ {
		switch args[i] {
		case "--gui":
			if opts.Mode == config.ModeBackend {
				return opts, false, errBothModes
			}
			opts.Mode = config.ModeGUI
		case "--backend":
			if opts.Mode == config.ModeGUI {
				return opts, false, errBothModes
			}
			opts.Mode = config.ModeBackend
		case "--force-install", "--force-reinstall":
			opts.Force = true
		case "--install-only":
			opts.InstallOnly = true
		case "--help", "-h":
			return opts, true, nil
		case "--":
			i++
			break loop
		default:
			break loop
		}
	}
	// Copy so later slice games on os.Args cannot alias the options.
	opts.Args = append([]string{}, args[i:]...)
	return opts, false, nil
}

// Launch is the fast path: parse leading flags, bootstrap, dispatch.
func Launch(args []string) int {
	return launchTo(args, os.Stdout, os.Stderr)
}

func launchTo(args []string, out, errOut io.Writer) int {
	opts, showUsage, err := parseLaunchArgs(args)
	if err != nil {
		errorColor.Fprintf(errOut, "Error: %v\n", err)
		fmt.Fprint(errOut, usageText)
		return 1
	}
	if showUsage {
		fmt.Fprint(out, usageText)
		return 0
	}

	l, err := newLauncher()
	if err != nil {
		errorColor.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	l.Out = out
	l.ErrOut = errOut

	code, err := l.Run(opts)
	if err != nil {
		errorColor.Fprintf(errOut, "Error: %v\n", err)
		logger.Errorf("launch failed: %v", err)
	}
	return code
}
