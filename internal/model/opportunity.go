package model

// Assessment is a business together with its web-development opportunity
// score. Reasons[i] pairs with ImprovementAreas[i].
type Assessment struct {
	Business         Business `json:"business"`
	Score            float64  `json:"score"`
	Reasons          []string `json:"reasons"`
	ImprovementAreas []string `json:"improvementAreas"`
}

// RatingDistribution buckets businesses by rating.
type RatingDistribution struct {
	ZeroToOne   int `json:"0-1"`
	OneToTwo    int `json:"1-2"`
	TwoToThree  int `json:"2-3"`
	ThreeToFour int `json:"3-4"`
	FourToFive  int `json:"4-5"`
	NoRating    int `json:"noRating"`
}

// LocationStats summarizes every business found for a location.
type LocationStats struct {
	TotalBusinesses          int                `json:"totalBusinesses"`
	BusinessesWithWebsite    int                `json:"businessesWithWebsite"`
	BusinessesWithoutWebsite int                `json:"businessesWithoutWebsite"`
	AverageRating            *float64           `json:"averageRating"`
	RatingDistribution       RatingDistribution `json:"ratingDistribution"`
	WebsitePercentage        float64            `json:"websitePercentage"`
}

// CategoryStats summarizes one business category.
type CategoryStats struct {
	Category          string   `json:"category"`
	Count             int      `json:"count"`
	AverageRating     *float64 `json:"averageRating"`
	WebsitePercentage float64  `json:"websitePercentage"`
	OpportunityScore  float64  `json:"opportunityScore"`
}

// AnalysisReport is the result of analyzing a location.
type AnalysisReport struct {
	Opportunities      []Assessment    `json:"opportunities"`
	TotalOpportunities int             `json:"totalOpportunities"`
	LocationStats      LocationStats   `json:"locationStats"`
	CategoryStats      []CategoryStats `json:"categoryStats"`
}
