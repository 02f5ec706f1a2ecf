package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/sustainability-evaluator/internal/observability"
	"github.com/jonathan/sustainability-evaluator/internal/types"
)

var (
	recommendCompany string
	recommendProduct string
	recommendEfforts string
	recommendStores  bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend more sustainable products or stores",
	Long: `Compare a company's sustainability efforts with similar products and
recommend alternatives. With --stores, list up to three sustainable stores
selling the product instead.`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVar(&recommendCompany, "company", "", "Company name")
	recommendCmd.Flags().StringVar(&recommendProduct, "product", "", "Product name (required)")
	recommendCmd.Flags().StringVar(&recommendEfforts, "efforts", "", "Known sustainability efforts of the company")
	recommendCmd.Flags().BoolVar(&recommendStores, "stores", false, "Recommend sustainable stores for the product")
	_ = recommendCmd.MarkFlagRequired("product")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	req := types.RecommendRequest{
		Company:               recommendCompany,
		Product:               recommendProduct,
		SustainabilityEfforts: recommendEfforts,
	}
	if !recommendStores {
		if err := req.Validate(); err != nil {
			return fmt.Errorf("--company, --product and --efforts are required")
		}
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if recommendStores {
		stores, err := a.advisor.RecommendStores(cmd.Context(), recommendProduct)
		if err != nil {
			return fmt.Errorf("store recommendation failed: %w", err)
		}
		if verbose {
			observability.NewPrinter(cmd.ErrOrStderr()).PrintStores(stores)
		}
		return printJSON(cmd.OutOrStdout(), stores)
	}

	text, err := a.advisor.Recommend(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), map[string]string{"text": text})
}
