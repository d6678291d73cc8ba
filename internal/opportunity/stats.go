package opportunity

import (
	"sort"

	"github.com/sells-group/bizscout/internal/model"
)

const (
	// MinCategorySize is the smallest category group that gets stats.
	MinCategorySize = 2
	// MinBusinessesForCategoryStats is the smallest business set for which
	// category stats are computed at all.
	MinBusinessesForCategoryStats = 5
)

// LocationStatsFor summarizes businesses in a single pass.
func LocationStatsFor(businesses []model.Business) model.LocationStats {
	stats := model.LocationStats{TotalBusinesses: len(businesses)}

	var sum float64
	var rated int
	for _, b := range businesses {
		if b.HasWebsite {
			stats.BusinessesWithWebsite++
		} else {
			stats.BusinessesWithoutWebsite++
		}

		if b.Rating == nil {
			stats.RatingDistribution.NoRating++
			continue
		}

		r := *b.Rating
		sum += r
		rated++
		switch {
		case r < 1:
			stats.RatingDistribution.ZeroToOne++
		case r < 2:
			stats.RatingDistribution.OneToTwo++
		case r < 3:
			stats.RatingDistribution.TwoToThree++
		case r < 4:
			stats.RatingDistribution.ThreeToFour++
		default:
			stats.RatingDistribution.FourToFive++
		}
	}

	if rated > 0 {
		avg := sum / float64(rated)
		stats.AverageRating = &avg
	}
	stats.WebsitePercentage = websitePercentage(stats.BusinessesWithWebsite, stats.TotalBusinesses)
	return stats
}

// CategoryStatsFor groups businesses by category and scores each group with
// at least MinCategorySize members. Results are sorted by opportunity score,
// highest first; ties keep the order in which categories were first seen.
func CategoryStatsFor(businesses []model.Business) []model.CategoryStats {
	var order []string
	groups := make(map[string][]model.Business)
	for _, b := range businesses {
		label := b.CategoryLabel()
		if _, ok := groups[label]; !ok {
			order = append(order, label)
		}
		groups[label] = append(groups[label], b)
	}

	out := make([]model.CategoryStats, 0, len(order))
	for _, label := range order {
		members := groups[label]
		if len(members) < MinCategorySize {
			continue
		}

		withWebsite := 0
		var sum float64
		var rated int
		for _, b := range members {
			if b.HasWebsite {
				withWebsite++
			}
			if b.Rating != nil {
				sum += *b.Rating
				rated++
			}
		}

		cs := model.CategoryStats{
			Category:          label,
			Count:             len(members),
			WebsitePercentage: websitePercentage(withWebsite, len(members)),
		}
		if rated > 0 {
			avg := sum / float64(rated)
			cs.AverageRating = &avg
		}
		cs.OpportunityScore = categoryOpportunity(cs.AverageRating, cs.WebsitePercentage)
		out = append(out, cs)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OpportunityScore > out[j].OpportunityScore
	})
	return out
}

// categoryOpportunity weighs low ratings and low website coverage equally,
// 50 points each. An unknown average rating contributes nothing.
func categoryOpportunity(avgRating *float64, websitePct float64) float64 {
	var score float64
	if avgRating != nil {
		ratingFactor := max(0, 5-*avgRating) / 5
		score += ratingFactor * 50
	}
	websiteFactor := (100 - websitePct) / 100
	score += websiteFactor * 50
	return score
}

func websitePercentage(withWebsite, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(withWebsite) / float64(total) * 100
}
