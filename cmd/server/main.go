package main

import (
	"os"

	"github.com/bewlybewly/bewly/backend/internal/infrastructure/config"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Bewly relay: page-surface messages to site APIs",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, nativeCmd, queryCmd, domainsCmd, pageCmd)
}

// loadConfig reads the environment. Invalid values are fatal: a relay
// silently running on defaults would talk to the wrong place.
func loadConfig() (*config.Config, error) {
	return config.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
