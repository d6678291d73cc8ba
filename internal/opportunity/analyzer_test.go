package opportunity

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bizscout/internal/model"
	"github.com/sells-group/bizscout/internal/places"
)

// fixtureSource serves a recorded provider response through the real
// normalizer.
type fixtureSource struct {
	raw      json.RawMessage
	err      error
	lastOpts places.ExtractOptions
	lastQ    places.Query
}

func (f *fixtureSource) Search(_ context.Context, q places.Query, opts places.ExtractOptions) ([]model.Business, error) {
	f.lastQ = q
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return places.Extract(f.raw, opts)
}

func loadFixture(t *testing.T) *fixtureSource {
	t.Helper()
	raw, err := os.ReadFile("testdata/lethbridge.json")
	require.NoError(t, err)
	return &fixtureSource{raw: raw}
}

func opportunityNames(r *model.AnalysisReport) []string {
	out := make([]string, 0, len(r.Opportunities))
	for _, o := range r.Opportunities {
		out = append(out, o.Business.Name)
	}
	return out
}

func TestAnalyze_DefaultRequest(t *testing.T) {
	src := loadFixture(t)
	a := NewAnalyzer(src, nil)

	report, err := a.Analyze(context.Background(), Request{
		Location:   "Lethbridge, Alberta",
		MaxResults: 20,
		Threshold:  DefaultThreshold,
	})
	require.NoError(t, err)

	// Filtering is never delegated to the extractor.
	assert.Equal(t, places.ExtractOptions{MaxResults: 20}, src.lastOpts)
	assert.Equal(t, "Businesses in Lethbridge, Alberta", src.lastQ.String())

	assert.Equal(t, []string{"Joe's Diner", "Prairie Books", "Lucky Noodle", "Corner Cafe"}, opportunityNames(report))
	assert.Equal(t, 4, report.TotalOpportunities)
	assert.Equal(t, []float64{85, 70, 60, 50}, []float64{
		report.Opportunities[0].Score, report.Opportunities[1].Score,
		report.Opportunities[2].Score, report.Opportunities[3].Score,
	})

	ls := report.LocationStats
	assert.Equal(t, 8, ls.TotalBusinesses)
	assert.Equal(t, 3, ls.BusinessesWithWebsite)
	assert.Equal(t, 5, ls.BusinessesWithoutWebsite)
	assert.InDelta(t, 37.5, ls.WebsitePercentage, 0.0001)
	require.NotNil(t, ls.AverageRating)
	assert.InDelta(t, 3.3, *ls.AverageRating, 0.0001)
	assert.Equal(t, model.RatingDistribution{TwoToThree: 2, ThreeToFour: 3, FourToFive: 2, NoRating: 1}, ls.RatingDistribution)

	require.Len(t, report.CategoryStats, 2)
	assert.Equal(t, "Restaurant", report.CategoryStats[0].Category)
	assert.InDelta(t, 73.5, report.CategoryStats[0].OpportunityScore, 0.0001)
	assert.Equal(t, "Cafe", report.CategoryStats[1].Category)
	assert.InDelta(t, 46.3333, report.CategoryStats[1].OpportunityScore, 0.001)
}

func TestAnalyze_ExcludeChains(t *testing.T) {
	a := NewAnalyzer(loadFixture(t), nil)

	report, err := a.Analyze(context.Background(), Request{
		Location:      "Lethbridge, Alberta",
		MaxResults:    20,
		ExcludeChains: true,
		Threshold:     40,
	})
	require.NoError(t, err)

	assert.NotContains(t, opportunityNames(report), "Tim Hortons")
	assert.Equal(t, 7, report.LocationStats.TotalBusinesses)
	assert.Equal(t, []string{"Joe's Diner", "Prairie Books", "Lucky Noodle", "Corner Cafe", "Bright Dental"}, opportunityNames(report))
}

func TestAnalyze_MinReviewsDropsUnknownCounts(t *testing.T) {
	a := NewAnalyzer(loadFixture(t), nil)

	report, err := a.Analyze(context.Background(), Request{
		Location:   "Lethbridge, Alberta",
		MaxResults: 20,
		MinReviews: 10,
		Threshold:  0,
	})
	require.NoError(t, err)

	// Acme (250), Tim Hortons (500), Sunrise (12), Lucky (45) remain;
	// Prairie Books has no review count and is excluded.
	assert.Equal(t, 4, report.LocationStats.TotalBusinesses)
	assert.NotContains(t, opportunityNames(report), "Prairie Books")
	assert.Nil(t, report.CategoryStats, "category stats need at least five businesses")
}

func TestAnalyze_StatsUseFilteredSetNotOpportunities(t *testing.T) {
	a := NewAnalyzer(loadFixture(t), nil)

	report, err := a.Analyze(context.Background(), Request{
		Location:   "Lethbridge, Alberta",
		MaxResults: 20,
		Threshold:  100,
	})
	require.NoError(t, err)

	assert.Empty(t, report.Opportunities)
	assert.NotNil(t, report.Opportunities)
	assert.Equal(t, 8, report.LocationStats.TotalBusinesses)
	assert.Len(t, report.CategoryStats, 2)
}

func TestAnalyze_RespectsMaxResults(t *testing.T) {
	a := NewAnalyzer(loadFixture(t), nil)

	report, err := a.Analyze(context.Background(), Request{
		Location:   "Lethbridge, Alberta",
		MaxResults: 3,
		Threshold:  0,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, report.LocationStats.TotalBusinesses)
	assert.Nil(t, report.CategoryStats)
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := NewAnalyzer(loadFixture(t), nil)
	req := Request{Location: "Lethbridge, Alberta", MaxResults: 20, Threshold: 0}

	first, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyze_TiesKeepDiscoveryOrder(t *testing.T) {
	src := &fixtureSource{raw: json.RawMessage(`{"places":[
		{"title": "First", "rating": 4.5, "ratingCount": 100},
		{"title": "Second", "rating": 4.5, "ratingCount": 100},
		{"title": "Third", "rating": 4.5, "ratingCount": 100}
	]}`)}
	a := NewAnalyzer(src, nil)

	report, err := a.Analyze(context.Background(), Request{Location: "x", Threshold: 40})
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second", "Third"}, opportunityNames(report))
}

func TestAnalyze_SourceError(t *testing.T) {
	boom := errors.New("provider down")
	a := NewAnalyzer(&fixtureSource{err: boom}, nil)

	report, err := a.Analyze(context.Background(), Request{Location: "x"})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, report)
}
