package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/hpp/internal/cli"
	"github.com/Simplici0/hpp/internal/loader"
	"github.com/Simplici0/hpp/internal/metrics"
	"github.com/Simplici0/hpp/internal/quote"
)

var (
	flagLine     string
	flagPolicy   string
	flagCurrency string
	flagDigits   int
	flagJSON     bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price an order line",
	Long:  "Compute HPP and the quoted price of the order line in --line using a pricing policy file.",
	Args:  cobra.NoArgs,
	RunE:  runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&flagLine, "line", "l", "", "Order line file (.json, .yaml, .yml)")
	quoteCmd.Flags().StringVarP(&flagPolicy, "policy", "p", "", "Pricing policy file; overrides the line's policy and the config default")
	quoteCmd.Flags().StringVar(&flagCurrency, "currency", "", "Currency label for amounts")
	quoteCmd.Flags().IntVar(&flagDigits, "digits", -1, "Decimal digits for amounts")
	quoteCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the result as JSON")
	_ = quoteCmd.MarkFlagRequired("line")
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	line, err := loader.LoadLine(flagLine)
	if err != nil {
		return err
	}

	policyPath := flagPolicy
	if policyPath == "" {
		policyPath = line.PolicyPath
	}
	if policyPath == "" {
		policyPath = cfg.Quote.PolicyPath
	}
	if policyPath == "" {
		return errors.New("no pricing policy: pass --policy, set policy in the line file, or set quote.policy_path in the config")
	}

	policy, err := loader.LoadPolicy(policyPath)
	if err != nil {
		return err
	}

	res, err := quote.NewService(nil, metrics.Nop{}, nil).Preview(line.Input(policy))
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	currency := cfg.Quote.Currency
	if cmd.Flags().Changed("currency") {
		currency = flagCurrency
	}
	digits := cfg.Quote.Digits
	if cmd.Flags().Changed("digits") {
		if flagDigits < 0 {
			return fmt.Errorf("--digits must not be negative, got %d", flagDigits)
		}
		digits = flagDigits
	}

	fmt.Println(cli.RenderTitle("Quote"))
	fmt.Printf("  Policy: %s\n\n", policyPath)
	fmt.Print(cli.RenderResult(res, line.Quantity, currency, digits))
	return nil
}
