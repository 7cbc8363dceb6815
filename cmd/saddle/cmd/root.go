package cmd

import (
	"github.com/spf13/cobra"
)

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "saddle",
		Short:         "saddle runs forward-backward-forward saddle-point experiments.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(
		matrixGameCmd(),
		sweepCmd(),
		versionCmd(),
	)

	return cmd
}
