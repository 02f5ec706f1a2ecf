package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <url-or-text>",
	Short: "Rate a merchant's sustainability record as Good, Decent or Bad",
	Long: `Identify the company behind a product URL or free text, research its
sustainability efforts and classify them as Good, Decent or Bad.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	rating, err := a.evaluator.Evaluate(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), map[string]string{"text": string(rating)})
}
