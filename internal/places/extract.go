package places

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"

	"github.com/sells-group/bizscout/internal/model"
)

const defaultName = "Unknown"

// ExtractOptions controls which place entries are kept.
type ExtractOptions struct {
	// MaxResults caps the number of kept records. Zero means no cap.
	MaxResults int
	// FilterNoWebsite keeps only businesses without a website.
	FilterNoWebsite bool
	// MaxRating drops businesses whose known rating exceeds it.
	MaxRating *float64
}

// Extract normalizes a raw places response. Entries are visited in provider
// order and the cap counts kept records only, so filtered entries never use
// up a slot.
func Extract(raw json.RawMessage, opts ExtractOptions) ([]model.Business, error) {
	if !gjson.ValidBytes(raw) {
		return nil, eris.New("places: response is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, eris.Errorf("places: expected a JSON object, got %s", doc.Type)
	}

	list := doc.Get("places")
	if list.Exists() && list.Type != gjson.Null && !list.IsArray() {
		return nil, eris.Errorf("places: expected places to be a list, got %s", list.Type)
	}

	businesses := make([]model.Business, 0)
	list.ForEach(func(_, item gjson.Result) bool {
		if opts.MaxResults > 0 && len(businesses) >= opts.MaxResults {
			return false
		}
		if !item.IsObject() {
			return true
		}
		if b, keep := normalize(entry{item}, opts); keep {
			businesses = append(businesses, b)
		}
		return true
	})
	return businesses, nil
}

func normalize(e entry, opts ExtractOptions) (model.Business, bool) {
	website, _ := e.str("website")
	hasWebsite := website != ""
	if opts.FilterNoWebsite && hasWebsite {
		return model.Business{}, false
	}

	var rating *float64
	if r, ok := e.float("rating"); ok {
		if opts.MaxRating != nil && r > *opts.MaxRating {
			return model.Business{}, false
		}
		rating = &r
	}

	name := defaultName
	if title, ok := e.str("title"); ok {
		name = title
	}

	b := model.Business{
		Name:       name,
		Rating:     rating,
		HasWebsite: hasWebsite,
		Contact: model.Contact{
			Website: website,
		},
	}
	if n, ok := e.count("ratingCount"); ok {
		b.ReviewsCount = &n
	}
	b.Category, _ = e.str("category")
	b.Contact.Phone, _ = e.str("phoneNumber")
	b.Contact.Address, _ = e.str("address")
	b.ImageURL, _ = e.str("thumbnailUrl")
	b.PriceLevel, _ = e.str("priceLevel")
	b.BusinessHours = businessHours(e)
	b.SocialMediaLinks = socialLinks(e)
	if svc, ok := e.object("serviceOptions"); ok {
		b.Email, _ = svc.str("email")
	}

	lat, lng, hasCoords := coordinates(e)
	if hasCoords {
		b.Latitude = &lat
		b.Longitude = &lng
	}
	b.MapURL = mapURL(e, lat, lng, hasCoords)

	return b, true
}

// businessHours accepts either a preformatted string or a day -> hours object.
func businessHours(e entry) string {
	if s, ok := e.str("workingHours"); ok {
		return s
	}
	pairs := e.stringPairs("workingHours")
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.Key+": "+p.Value)
	}
	return strings.Join(parts, "; ")
}

func socialLinks(e entry) []string {
	var links []string
	for _, p := range e.stringPairs("socialMedia") {
		if p.Value != "" {
			links = append(links, p.Value)
		}
	}
	return links
}

func coordinates(e entry) (float64, float64, bool) {
	lat, latOK := e.float("latitude")
	lng, lngOK := e.float("longitude")
	if !latOK || !lngOK {
		return 0, 0, false
	}
	return lat, lng, true
}

// mapURL prefers the place id, then the cid, then the coordinates.
func mapURL(e entry, lat, lng float64, hasCoords bool) string {
	if id, ok := e.str("placeId"); ok && id != "" {
		return "https://www.google.com/maps/place/?q=place_id:" + id
	}
	if cid, ok := e.str("cid"); ok && cid != "" {
		return "https://maps.google.com/?cid=" + cid
	}
	if !hasCoords {
		return ""
	}

	coords := formatCoord(lat) + "," + formatCoord(lng)
	if title, ok := e.str("title"); ok && title != "" {
		return "https://www.google.com/maps/search/" + url.QueryEscape(title) + "/@" + coords + ",15z/"
	}
	return "https://www.google.com/maps/search/?api=1&query=" + coords
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
