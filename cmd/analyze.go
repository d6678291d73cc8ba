package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/bizscout/internal/api"
	"github.com/sells-group/bizscout/internal/config"
	"github.com/sells-group/bizscout/internal/opportunity"
)

var (
	analyzeLocation      string
	analyzeCategory      string
	analyzeMaxResults    int
	analyzeMinReviews    int
	analyzeExcludeChains bool
	analyzeThreshold     float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score businesses in a location as web-development opportunities",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := api.AnalyzeRequest{
			Location:             strings.TrimSpace(analyzeLocation),
			Category:             strings.TrimSpace(analyzeCategory),
			MaxResults:           &analyzeMaxResults,
			MinReviews:           &analyzeMinReviews,
			ExcludeChains:        analyzeExcludeChains,
			OpportunityThreshold: &analyzeThreshold,
		}
		if err := checkFlags(req); err != nil {
			return err
		}
		if err := cfg.Validate(config.ModeSearch); err != nil {
			return err
		}

		svc := newServices(cfg)
		report, err := svc.Analyzer.Analyze(cmd.Context(), opportunity.Request{
			Location:      req.Location,
			Category:      req.Category,
			MaxResults:    analyzeMaxResults,
			MinReviews:    analyzeMinReviews,
			ExcludeChains: analyzeExcludeChains,
			Threshold:     analyzeThreshold,
		})
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, report)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeLocation, "location", "", "location to analyze")
	analyzeCmd.Flags().StringVar(&analyzeCategory, "category", "", "business category")
	analyzeCmd.Flags().IntVar(&analyzeMaxResults, "max-results", 20, "maximum businesses to fetch")
	analyzeCmd.Flags().IntVar(&analyzeMinReviews, "min-reviews", 0, "drop businesses with fewer reviews")
	analyzeCmd.Flags().BoolVar(&analyzeExcludeChains, "exclude-chains", false, "drop known chain brands")
	analyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", opportunity.DefaultThreshold, "minimum opportunity score")
	_ = analyzeCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(analyzeCmd)
}
