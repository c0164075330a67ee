// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"umd-launcher/internal/config"
	"umd-launcher/internal/launcher"
	"umd-launcher/internal/project"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	statusColor  = color.New(color.FgCyan)
	stepColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	okColor      = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed)
	pathColor    = color.New(color.FgBlue)
)

var rootCmd = &cobra.Command{
	Use:   "umdl",
	Short: "UMD2 suite launcher",
	Long: `Launcher for the UMD2 measurement suite.

Run with no arguments (or with launcher flags) to bootstrap the isolated
Python environment and start the GUI or backend. The subcommands below
manage and inspect that environment.`,
	SilenceUsage: true,
}

// newLauncher resolves the project context for management commands and
// the fast path alike.
func newLauncher() (*launcher.Launcher, error) {
	root, err := project.FindRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	return launcher.New(root, cfg), nil
}

// runManagement executes the cobra tree and maps errors to exit code 1.
func runManagement(args []string) int {
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(configCmd)
}

func yesNo(ok bool) string {
	if ok {
		return okColor.Sprint("yes")
	}
	return failColor.Sprint("no")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return orDash(fp)
}
