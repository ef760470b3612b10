package cmd

import (
	"os"

	"github.com/dreamerjackson/salesintel/cmd/server"
	"github.com/dreamerjackson/salesintel/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version.",
	Long:  "print version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Printer(os.Stdout)
	},
}

func Execute() {
	var rootCmd = &cobra.Command{Use: "salesintel"}
	rootCmd.AddCommand(server.ServerCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
