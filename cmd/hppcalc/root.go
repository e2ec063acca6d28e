package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/hpp/internal/config"
)

var flagConfigPath string

var rootCmd = &cobra.Command{
	Use:          "hppcalc",
	Short:        "HPP cost and pricing calculator",
	Long:         "Compute the manufacturing cost (HPP) and quoted price of print order lines.",
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", config.CLIPath(), "CLI config file")
}

func loadCLIConfig() (config.CLIConfig, error) {
	return config.LoadCLI(flagConfigPath)
}
