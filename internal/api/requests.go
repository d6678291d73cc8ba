package api

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/sells-group/bizscout/internal/opportunity"
)

// Request defaults.
const (
	DefaultSearchMaxResults  = 100
	DefaultAnalyzeMaxResults = 20
	DefaultModel             = "gemini-pro"
	DefaultTemperature       = 0.7
)

// SearchRequest is the body of /search-businesses and /raw-serper-data.
type SearchRequest struct {
	Location        string   `json:"location"`
	Category        string   `json:"category,omitempty"`
	MaxResults      *int     `json:"maxResults,omitempty"`
	FilterNoWebsite bool     `json:"filterNoWebsite"`
	MaxRating       *float64 `json:"maxRating,omitempty"`
}

func (r *SearchRequest) normalize() {
	r.Location = strings.TrimSpace(r.Location)
	r.Category = strings.TrimSpace(r.Category)
}

// Validate checks field ranges.
func (r SearchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Location, validation.Required),
		validation.Field(&r.MaxResults, validation.NilOrNotEmpty.Error("must be no less than 1"), validation.Min(1), validation.Max(100)),
		validation.Field(&r.MaxRating, validation.Min(0.0), validation.Max(5.0)),
	)
}

func (r SearchRequest) maxResults() int {
	if r.MaxResults == nil {
		return DefaultSearchMaxResults
	}
	return *r.MaxResults
}

// AnalyzeRequest is the body of /analyze.
type AnalyzeRequest struct {
	Location             string   `json:"location"`
	Category             string   `json:"category,omitempty"`
	MaxResults           *int     `json:"maxResults,omitempty"`
	MinReviews           *int     `json:"minReviews,omitempty"`
	ExcludeChains        bool     `json:"excludeChains"`
	OpportunityThreshold *float64 `json:"opportunityThreshold,omitempty"`
}

func (r *AnalyzeRequest) normalize() {
	r.Location = strings.TrimSpace(r.Location)
	r.Category = strings.TrimSpace(r.Category)
}

// Validate checks field ranges.
func (r AnalyzeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Location, validation.Required),
		validation.Field(&r.MaxResults, validation.NilOrNotEmpty.Error("must be no less than 1"), validation.Min(1), validation.Max(100)),
		validation.Field(&r.MinReviews, validation.Min(0)),
		validation.Field(&r.OpportunityThreshold, validation.Min(0.0), validation.Max(100.0)),
	)
}

func (r AnalyzeRequest) toAnalysis() opportunity.Request {
	req := opportunity.Request{
		Location:      r.Location,
		Category:      r.Category,
		MaxResults:    DefaultAnalyzeMaxResults,
		ExcludeChains: r.ExcludeChains,
		Threshold:     opportunity.DefaultThreshold,
	}
	if r.MaxResults != nil {
		req.MaxResults = *r.MaxResults
	}
	if r.MinReviews != nil {
		req.MinReviews = *r.MinReviews
	}
	if r.OpportunityThreshold != nil {
		req.Threshold = *r.OpportunityThreshold
	}
	return req
}

// GenerateRequest is the body of /generate.
type GenerateRequest struct {
	APIKey      string   `json:"apiKey"`
	Prompt      string   `json:"prompt"`
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"maxTokens,omitempty"`
}

// Validate checks required fields and ranges.
func (r GenerateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.APIKey, validation.Required),
		validation.Field(&r.Prompt, validation.Required),
		validation.Field(&r.Temperature, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&r.MaxTokens, validation.NilOrNotEmpty.Error("must be no less than 1"), validation.Min(1)),
	)
}

func (r GenerateRequest) model() string {
	if m := strings.TrimSpace(r.Model); m != "" {
		return m
	}
	return DefaultModel
}

func (r GenerateRequest) temperature() float64 {
	if r.Temperature == nil {
		return DefaultTemperature
	}
	return *r.Temperature
}

// ValidateKeyRequest is the body of /validate-key.
type ValidateKeyRequest struct {
	APIKey string `json:"apiKey"`
}
