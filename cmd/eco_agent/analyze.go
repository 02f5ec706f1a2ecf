package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/sustainability-evaluator/internal/logger"
	"github.com/jonathan/sustainability-evaluator/internal/observability"
	"github.com/jonathan/sustainability-evaluator/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Score a product page across the sustainability dimensions",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Extract structured product information from a page",
	Args:  cobra.ExactArgs(1),
	RunE:  runScrape,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(scrapeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	printer := observability.NewPrinter(cmd.ErrOrStderr())
	if verbose {
		ctx = pipeline.WithProgress(ctx, printer.PrintProgress)
	}

	result, err := a.analyzer.Analyze(ctx, args[0])
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	a.log.Debug("analysis complete", logger.Float64("score", result.Analysis.OverallScore))

	if verbose {
		printer.PrintProduct(result.Product)
		printer.PrintAssessment(result.Analysis)
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func runScrape(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	printer := observability.NewPrinter(cmd.ErrOrStderr())
	if verbose {
		ctx = pipeline.WithProgress(ctx, printer.PrintProgress)
	}

	product, err := a.analyzer.Scrape(ctx, args[0])
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}
	if verbose {
		printer.PrintProduct(product)
	}
	return printJSON(cmd.OutOrStdout(), product)
}
