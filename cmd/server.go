package cmd

import (
	"wavebox/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Wavebox HTTP server",
	Long:  `Start the Wavebox HTTP server, serving the catalog API and playback tracking endpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
