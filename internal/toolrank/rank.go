package toolrank

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"toolfinder-backend/internal/catalog"
	"toolfinder-backend/internal/recommendations/engine"
)

func RankCmd() *cobra.Command {
	var (
		catalogPath  string
		profilePath  string
		query        string
		category     string
		pricing      []string
		limit        int
		diversityCap float64
		asJSON       bool
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank a catalog for a profile",
		Long: "Rank tools from a YAML catalog (or JSON snapshot) for the profile in a YAML file.\n" +
			"Without --catalog the built-in demo catalog is used. Queries are not expanded offline.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tools := catalog.DemoCatalog()
			if catalogPath != "" {
				loaded, err := loadCatalogFile(catalogPath)
				if err != nil {
					return err
				}
				tools = loaded
			}
			pf, err := loadProfileFile(profilePath)
			if err != nil {
				return err
			}
			if query != "" {
				pf.Query = query
			}

			filters := engine.Filters{}
			if c := strings.TrimSpace(category); c != "" {
				filters.Categories = []string{c}
			}
			for _, raw := range pricing {
				model, ok := engine.ParsePricingModel(raw)
				if !ok {
					return fmt.Errorf("unknown pricing model %q", raw)
				}
				filters.PricingModels = append(filters.PricingModels, model)
			}

			eng := engine.New(nil, engine.Options{})
			res, err := eng.Recommend(cmd.Context(), engine.Request{
				Profile:        pf.Profile,
				Behavior:       pf.Behavior,
				CurrentTools:   pf.CurrentTools,
				Context:        pf.Context,
				AvailableTools: tools,
				Limit:          limit,
				Query:          pf.Query,
				Filters:        filters,
				DiversityCap:   diversityCap,
			})
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			renderResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file (.yaml or snapshot .json)")
	cmd.Flags().StringVar(&profilePath, "profile", "", "Profile file (.yaml)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search text, overrides the profile file")
	cmd.Flags().StringVar(&category, "category", "", "Only rank this category")
	cmd.Flags().StringSliceVar(&pricing, "pricing", nil, "Only rank these pricing models")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of recommendations")
	cmd.Flags().Float64Var(&diversityCap, "diversity-cap", 0, "Share of results one category may fill (default 0.25)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw result as JSON")
	return cmd
}
