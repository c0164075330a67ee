// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"umd-launcher/internal/launcher"

	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Inspect or reset the isolated environment",
}

var envStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show environment, interpreter and manifest sync state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLauncher()
		if err != nil {
			return err
		}
		printStatus(l.Status())
		return nil
	},
}

var envRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the environment from scratch and reinstall dependencies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLauncher()
		if err != nil {
			return err
		}
		if err := l.Bootstrap(launcher.Options{Force: true}); err != nil {
			return err
		}
		successColor.Println("Environment rebuilt.")
		return nil
	},
}

var envCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the environment directory",
	Long: `Removes the isolated environment directory, including the recorded
manifest fingerprint. The next launch recreates everything.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLauncher()
		if err != nil {
			return err
		}
		env := l.Env()
		if !env.Exists() {
			statusColor.Printf("No environment at %s; nothing to clean.\n", env.Dir)
			return nil
		}
		if err := env.Remove(); err != nil {
			return err
		}
		successColor.Printf("Removed %s\n", env.Dir)
		return nil
	},
}

func printStatus(st launcher.Status) {
	fmt.Printf("Project root:  %s\n", pathColor.Sprint(st.Root))

	if st.Interpreter != "" {
		fmt.Printf("Interpreter:   %s\n", pathColor.Sprint(st.Interpreter))
	} else {
		fmt.Printf("Interpreter:   %s\n", failColor.Sprint(st.InterpreterError))
	}

	fmt.Printf("Environment:   %s (present: %s", pathColor.Sprint(st.EnvDir), yesNo(st.EnvExists))
	if st.EnvVersion != "" {
		fmt.Printf(", %s", st.EnvVersion)
	}
	fmt.Println(")")

	fmt.Printf("Manifest:      %s (present: %s)\n", pathColor.Sprint(st.ManifestPath), yesNo(st.ManifestExists))
	fmt.Printf("Sync state:    %s\n", st.SyncState)
	fmt.Printf("Fingerprint:   %s (recorded: %s)\n", shortFingerprint(st.Fingerprint), shortFingerprint(st.StoredFingerprint))

	fmt.Println("Targets:")
	for _, t := range st.Targets {
		fmt.Printf("  %-8s %s (present: %s)\n", t.Name, pathColor.Sprint(t.Script), yesNo(t.Exists))
	}

	if st.InstallNeeded {
		stepColor.Println("\nDependency install pending; run `umdl install`.")
	}
}

func init() {
	envCmd.AddCommand(envStatusCmd)
	envCmd.AddCommand(envRebuildCmd)
	envCmd.AddCommand(envCleanCmd)
}
