package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "v0.1.0-dev"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("saddle %s\n", version)
		},
	}
}
