// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"

	"umd-launcher/cmd/tui"

	"github.com/spf13/cobra"
)

var setupForce bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Bootstrap the environment interactively",
	Long: `Runs the bootstrap with an interactive screen showing each step and
the live installer output. Does not launch anything afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if code := tui.RunSetup(setupForce); code != 0 {
			return errors.New("setup did not complete")
		}
		return nil
	},
}

func init() {
	setupCmd.Flags().BoolVar(&setupForce, "force", false, "rebuild the environment from scratch")
}
