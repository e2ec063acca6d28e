package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/hpp/internal/cli"
	"github.com/Simplici0/hpp/internal/loader"
	"github.com/Simplici0/hpp/internal/pricing"
)

var validateCmd = &cobra.Command{
	Use:   "validate <policy-file>",
	Short: "Check a pricing policy file",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	policy, err := loader.DecodePolicy(args[0])
	if err != nil {
		return err
	}

	problems := pricing.Problems(policy.Validate())
	if len(problems) == 0 {
		fmt.Println("ok")
		return nil
	}

	fmt.Print(cli.RenderProblems(problems))
	return fmt.Errorf("%s: %d problem(s)", args[0], len(problems))
}
