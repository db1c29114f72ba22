package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of cloud-cli-mcp",
		Long:  `All software has versions. This is cloud-cli-mcp's.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cloud-cli-mcp version %s\n", rootCmd.Version)
		},
	}
}
