// Package main provides the entry point for the sustainability evaluator
// HTTP API server and its one-shot commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "eco_agent",
	Short: "Sustainability evaluator for products and merchants",
	Long: "eco_agent rates the sustainability record of merchants, scores products across " +
		"five sustainability dimensions with cited evidence, and recommends greener alternatives.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
