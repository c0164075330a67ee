// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"umd-launcher/internal/launcher"

	"github.com/spf13/cobra"
)

var installForce bool

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Bootstrap the environment without launching anything",
	Long: `Ensures the isolated environment exists and its installed packages
match the dependency manifest, then exits. Equivalent to the
--install-only launcher flag.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLauncher()
		if err != nil {
			return err
		}
		if err := l.Bootstrap(launcher.Options{Force: installForce}); err != nil {
			return err
		}
		successColor.Println("Bootstrap complete.")
		return nil
	},
}

func init() {
	installCmd.Flags().BoolVar(&installForce, "force", false, "reinstall even if the manifest fingerprint matches")
}
