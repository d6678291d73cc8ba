// Package opportunity scores local businesses as web-development leads and
// aggregates location and category statistics.
package opportunity

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sells-group/bizscout/internal/model"
)

// Rule weights. The highest reachable sum is 85 (no website, rating under 2.5,
// fewer than five reviews), so the cap at MaxScore is not hit with the
// current weights.
const (
	noWebsitePoints      = 40
	veryLowRatingPoints  = 30
	belowAvgRatingPoints = 20
	noRatingPoints       = 15
	fewReviewsPoints     = 15
	limitedReviewsPoints = 10
	noReviewsPoints      = 15

	veryLowRatingBelow  = 2.5
	belowAvgRatingBelow = 3.5
	fewReviewsBelow     = 5
	limitedReviewsBelow = 20

	// MaxScore is the upper bound of an opportunity score.
	MaxScore = 100.0
)

// Score computes the opportunity score for b. Rules are applied in a fixed
// order (website, rating, reviews) and each triggered rule appends one reason
// and its matching improvement.
func Score(b model.Business) model.Assessment {
	a := model.Assessment{
		Business:         b,
		Reasons:          []string{},
		ImprovementAreas: []string{},
	}
	add := func(points float64, reason, improvement string) {
		a.Score += points
		a.Reasons = append(a.Reasons, reason)
		a.ImprovementAreas = append(a.ImprovementAreas, improvement)
	}

	if !b.HasWebsite {
		add(noWebsitePoints, "No website detected", "Create a professional business website")
	}

	if b.Rating != nil {
		r := *b.Rating
		switch {
		case r < veryLowRatingBelow:
			add(veryLowRatingPoints, fmt.Sprintf("Very low rating (%s/5)", formatRating(r)),
				"Online presence could help address reputation issues")
		case r < belowAvgRatingBelow:
			add(belowAvgRatingPoints, fmt.Sprintf("Below average rating (%s/5)", formatRating(r)),
				"Web presence to highlight positive aspects of business")
		}
	} else {
		add(noRatingPoints, "No Google rating available", "Web presence to establish online reputation")
	}

	if b.ReviewsCount != nil {
		n := *b.ReviewsCount
		switch {
		case n < fewReviewsBelow:
			add(fewReviewsPoints, fmt.Sprintf("Very few reviews (%d)", n),
				"Web presence to encourage more customer reviews")
		case n < limitedReviewsBelow:
			add(limitedReviewsPoints, fmt.Sprintf("Limited number of reviews (%d)", n),
				"Website with review integration")
		}
	} else {
		add(noReviewsPoints, "No reviews available", "Website with testimonial section")
	}

	a.Score = math.Min(a.Score, MaxScore)
	return a
}

func formatRating(r float64) string {
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if r == math.Trunc(r) {
		s += ".0"
	}
	return s
}
