package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/bizscout/internal/api"
	"github.com/sells-group/bizscout/internal/config"
	"github.com/sells-group/bizscout/internal/places"
)

var (
	searchLocation        string
	searchCategory        string
	searchMaxResults      int
	searchFilterNoWebsite bool
	searchMaxRating       float64
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search local businesses and print normalized records",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := api.SearchRequest{
			Location:        strings.TrimSpace(searchLocation),
			Category:        strings.TrimSpace(searchCategory),
			MaxResults:      &searchMaxResults,
			FilterNoWebsite: searchFilterNoWebsite,
		}
		if cmd.Flags().Changed("max-rating") {
			req.MaxRating = &searchMaxRating
		}
		if err := checkFlags(req); err != nil {
			return err
		}
		if err := cfg.Validate(config.ModeSearch); err != nil {
			return err
		}

		opts := places.ExtractOptions{
			MaxResults:      *req.MaxResults,
			FilterNoWebsite: req.FilterNoWebsite,
			MaxRating:       req.MaxRating,
		}

		svc := newServices(cfg)
		businesses, err := svc.Searcher.Search(cmd.Context(), places.Query{Location: req.Location, Category: req.Category}, opts)
		if err != nil {
			return err
		}

		return writeOutput(cmd.OutOrStdout(), outputFormat, map[string]any{
			"businesses": businesses,
			"totalCount": len(businesses),
		})
	},
}

var rawCmd = &cobra.Command{
	Use:   "raw",
	Short: "Print the unmodified Serper places response",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := api.SearchRequest{
			Location: strings.TrimSpace(searchLocation),
			Category: strings.TrimSpace(searchCategory),
		}
		if err := checkFlags(req); err != nil {
			return err
		}
		if err := cfg.Validate(config.ModeSearch); err != nil {
			return err
		}

		svc := newServices(cfg)
		raw, err := svc.Searcher.Raw(cmd.Context(), places.Query{Location: req.Location, Category: req.Category})
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, raw)
	},
}

func init() {
	for _, c := range []*cobra.Command{searchCmd, rawCmd} {
		c.Flags().StringVar(&searchLocation, "location", "", "location to search, e.g. \"Lethbridge, Alberta\"")
		c.Flags().StringVar(&searchCategory, "category", "", "business category")
		_ = c.MarkFlagRequired("location")
		rootCmd.AddCommand(c)
	}
	searchCmd.Flags().IntVar(&searchMaxResults, "max-results", 100, "maximum businesses to return")
	searchCmd.Flags().BoolVar(&searchFilterNoWebsite, "filter-no-website", false, "only return businesses without a website")
	searchCmd.Flags().Float64Var(&searchMaxRating, "max-rating", 0, "exclude businesses rated above this")
}
