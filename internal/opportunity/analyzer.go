package opportunity

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/bizscout/internal/metrics"
	"github.com/sells-group/bizscout/internal/model"
	"github.com/sells-group/bizscout/internal/places"
)

// DefaultThreshold is the minimum score for a business to be reported.
const DefaultThreshold = 50.0

// BusinessSource returns normalized businesses for a query.
type BusinessSource interface {
	Search(ctx context.Context, q places.Query, opts places.ExtractOptions) ([]model.Business, error)
}

// Request describes one location analysis.
type Request struct {
	Location      string
	Category      string
	MaxResults    int
	MinReviews    int
	ExcludeChains bool
	Threshold     float64
}

// Analyzer finds web-development opportunities for a location.
type Analyzer struct {
	source BusinessSource
	chains *ChainFilter
}

// NewAnalyzer creates an Analyzer. A nil chain filter uses the default
// indicators.
func NewAnalyzer(source BusinessSource, chains *ChainFilter) *Analyzer {
	if chains == nil {
		chains = NewChainFilter(nil)
	}
	return &Analyzer{source: source, chains: chains}
}

// Analyze fetches businesses for the location, filters them, scores each one
// and aggregates statistics. Location and category stats describe the
// filtered business set, not only the reported opportunities.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*model.AnalysisReport, error) {
	log := zap.L().With(zap.String("location", req.Location), zap.String("category", req.Category))

	// Filtering is done here, not by the extractor.
	businesses, err := a.source.Search(ctx,
		places.Query{Location: req.Location, Category: req.Category},
		places.ExtractOptions{MaxResults: req.MaxResults},
	)
	if err != nil {
		return nil, err
	}
	found := len(businesses)

	if req.MinReviews > 0 {
		businesses = filterMinReviews(businesses, req.MinReviews)
	}
	if req.ExcludeChains {
		businesses = a.chains.Filter(businesses)
	}

	opportunities := make([]model.Assessment, 0, len(businesses))
	for _, b := range businesses {
		assessment := Score(b)
		metrics.Opportunities.Observe(assessment.Score)
		if assessment.Score >= req.Threshold {
			opportunities = append(opportunities, assessment)
		}
	}
	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Score > opportunities[j].Score
	})

	report := &model.AnalysisReport{
		Opportunities:      opportunities,
		TotalOpportunities: len(opportunities),
		LocationStats:      LocationStatsFor(businesses),
	}
	if len(businesses) >= MinBusinessesForCategoryStats {
		report.CategoryStats = CategoryStatsFor(businesses)
	}

	log.Info("opportunity: analysis complete",
		zap.Int("found", found),
		zap.Int("after_filters", len(businesses)),
		zap.Int("opportunities", len(opportunities)),
	)
	return report, nil
}

// filterMinReviews keeps businesses with at least minReviews reviews. An unknown
// review count never qualifies.
func filterMinReviews(businesses []model.Business, minReviews int) []model.Business {
	kept := make([]model.Business, 0, len(businesses))
	for _, b := range businesses {
		if b.ReviewsCount != nil && *b.ReviewsCount >= minReviews {
			kept = append(kept, b)
		}
	}
	return kept
}
