package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Simplici0/hpp/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value (policy_path, currency, digits)",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", flagConfigPath)
	if _, err := os.Stat(flagConfigPath); err == nil {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Quote]")
	if cfg.Quote.PolicyPath != "" {
		fmt.Printf("    Policy path: %s\n", cfg.Quote.PolicyPath)
	} else {
		fmt.Println("    Policy path: not set")
	}
	fmt.Printf("    Currency:    %s\n", cfg.Quote.Currency)
	fmt.Printf("    Digits:      %d\n", cfg.Quote.Digits)
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	if err := applySetting(&cfg, args[0], args[1]); err != nil {
		return err
	}
	if err := config.SaveCLI(flagConfigPath, cfg); err != nil {
		return err
	}

	fmt.Printf("  Saved %s to %s\n", args[0], flagConfigPath)
	return nil
}

func applySetting(cfg *config.CLIConfig, key, value string) error {
	switch key {
	case "policy_path":
		cfg.Quote.PolicyPath = value
	case "currency":
		cfg.Quote.Currency = value
	case "digits":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("digits must be a non-negative integer, got %q", value)
		}
		cfg.Quote.Digits = n
	default:
		return fmt.Errorf("unknown config key %q (want policy_path, currency or digits)", key)
	}
	return nil
}
