package model

// Contact holds a business's contact details.
type Contact struct {
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Website string `json:"website,omitempty"`
}

// Business is a normalized local-business record built from one provider
// place entry. Latitude and Longitude are either both set or both nil.
type Business struct {
	Name             string   `json:"name"`
	Rating           *float64 `json:"rating,omitempty"`
	ReviewsCount     *int     `json:"reviewsCount,omitempty"`
	HasWebsite       bool     `json:"hasWebsite"`
	Category         string   `json:"category,omitempty"`
	Contact          Contact  `json:"contact"`
	MapURL           string   `json:"mapUrl,omitempty"`
	ImageURL         string   `json:"imageUrl,omitempty"`
	BusinessHours    string   `json:"businessHours,omitempty"`
	SocialMediaLinks []string `json:"socialMediaLinks,omitempty"`
	Email            string   `json:"email,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	PriceLevel       string   `json:"priceLevel,omitempty"`
}

// CategoryLabel returns the business category, or "Uncategorized".
func (b Business) CategoryLabel() string {
	if b.Category == "" {
		return UncategorizedLabel
	}
	return b.Category
}

// UncategorizedLabel groups businesses without a category.
const UncategorizedLabel = "Uncategorized"
