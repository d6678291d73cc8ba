package places

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestExtract_FullEntry(t *testing.T) {
	raw := json.RawMessage(`{"places":[{
		"title": "Acme Bakery",
		"address": "123 Main St",
		"phoneNumber": "(403) 555-0100",
		"website": "https://acme.example",
		"category": "Bakery",
		"rating": 4.6,
		"ratingCount": 212,
		"placeId": "ChIJabc123",
		"cid": "1234567890",
		"latitude": 49.6956,
		"longitude": -112.8451,
		"thumbnailUrl": "https://img.example/acme.jpg",
		"workingHours": {"Monday": "9 AM-5 PM", "Tuesday": "9 AM-5 PM", "Sunday": "Closed"},
		"socialMedia": {"facebook": "https://fb.example/acme", "twitter": "", "instagram": "https://ig.example/acme", "yelp": 7},
		"serviceOptions": {"email": "hello@acme.example"},
		"priceLevel": "$$"
	}]}`)

	got, err := Extract(raw, ExtractOptions{MaxResults: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)

	b := got[0]
	assert.Equal(t, "Acme Bakery", b.Name)
	require.NotNil(t, b.Rating)
	assert.InDelta(t, 4.6, *b.Rating, 0.0001)
	require.NotNil(t, b.ReviewsCount)
	assert.Equal(t, 212, *b.ReviewsCount)
	assert.True(t, b.HasWebsite)
	assert.Equal(t, "Bakery", b.Category)
	assert.Equal(t, "(403) 555-0100", b.Contact.Phone)
	assert.Equal(t, "123 Main St", b.Contact.Address)
	assert.Equal(t, "https://acme.example", b.Contact.Website)
	assert.Equal(t, "https://www.google.com/maps/place/?q=place_id:ChIJabc123", b.MapURL)
	assert.Equal(t, "https://img.example/acme.jpg", b.ImageURL)
	assert.Equal(t, "Monday: 9 AM-5 PM; Tuesday: 9 AM-5 PM; Sunday: Closed", b.BusinessHours)
	assert.Equal(t, []string{"https://fb.example/acme", "https://ig.example/acme"}, b.SocialMediaLinks)
	assert.Equal(t, "hello@acme.example", b.Email)
	require.NotNil(t, b.Latitude)
	require.NotNil(t, b.Longitude)
	assert.InDelta(t, 49.6956, *b.Latitude, 0.0001)
	assert.InDelta(t, -112.8451, *b.Longitude, 0.0001)
	assert.Equal(t, "$$", b.PriceLevel)
}

func TestExtract_MinimalEntryDefaults(t *testing.T) {
	raw := json.RawMessage(`{"places":[{"website": ""}]}`)

	got, err := Extract(raw, ExtractOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	b := got[0]
	assert.Equal(t, "Unknown", b.Name)
	assert.False(t, b.HasWebsite)
	assert.Empty(t, b.Contact.Website)
	assert.Nil(t, b.Rating)
	assert.Nil(t, b.ReviewsCount)
	assert.Nil(t, b.SocialMediaLinks)
	assert.Nil(t, b.Latitude)
	assert.Nil(t, b.Longitude)
	assert.Empty(t, b.MapURL)
}

func TestExtract_NoPlaces(t *testing.T) {
	for _, raw := range []string{`{}`, `{"places": []}`, `{"places": null}`, `{"organic": [{"title": "x"}]}`} {
		got, err := Extract(json.RawMessage(raw), ExtractOptions{MaxResults: 5})
		require.NoError(t, err, raw)
		assert.Empty(t, got, raw)
	}
}

func TestExtract_InvalidDocument(t *testing.T) {
	_, err := Extract(json.RawMessage(`[1,2,3]`), ExtractOptions{})
	require.Error(t, err)
}

func TestExtract_SkipsMalformedEntries(t *testing.T) {
	raw := json.RawMessage(`{"places":["not an object", {"title": "Kept"}]}`)
	got, err := Extract(raw, ExtractOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Kept", got[0].Name)
}

func TestExtract_CapCountsKeptRecordsOnly(t *testing.T) {
	// Ten entries: 0, 3 and 6 have websites and are filtered out; of the
	// seven that pass, the first five are returned in order.
	var entries []string
	for i := 0; i < 10; i++ {
		website := ""
		if i%3 == 0 && i < 9 {
			website = fmt.Sprintf("https://site%d.example", i)
		}
		entries = append(entries, fmt.Sprintf(`{"title": "Biz %d", "website": %q}`, i, website))
	}
	raw := json.RawMessage(`{"places":[` + strings.Join(entries, ",") + `]}`)

	got, err := Extract(raw, ExtractOptions{MaxResults: 5, FilterNoWebsite: true})
	require.NoError(t, err)
	require.Len(t, got, 5)

	var names []string
	for _, b := range got {
		assert.False(t, b.HasWebsite)
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"Biz 1", "Biz 2", "Biz 4", "Biz 5", "Biz 7"}, names)
}

func TestExtract_NeverExceedsCap(t *testing.T) {
	var entries []string
	for i := 0; i < 30; i++ {
		entries = append(entries, fmt.Sprintf(`{"title": "Biz %d"}`, i))
	}
	raw := json.RawMessage(`{"places":[` + strings.Join(entries, ",") + `]}`)

	for _, limit := range []int{1, 5, 29, 30, 100} {
		got, err := Extract(raw, ExtractOptions{MaxResults: limit})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got), limit)
		assert.Equal(t, min(limit, 30), len(got))
	}
}

func TestExtract_MaxRating(t *testing.T) {
	raw := json.RawMessage(`{"places":[
		{"title": "High", "rating": 4.8},
		{"title": "Edge", "rating": 3.5},
		{"title": "Low", "rating": "2.1"},
		{"title": "Unrated"},
		{"title": "Garbled", "rating": "n/a"}
	]}`)

	got, err := Extract(raw, ExtractOptions{MaxRating: floatPtr(3.5)})
	require.NoError(t, err)

	var names []string
	for _, b := range got {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"Edge", "Low", "Unrated", "Garbled"}, names)

	require.NotNil(t, got[1].Rating)
	assert.InDelta(t, 2.1, *got[1].Rating, 0.0001)
	assert.Nil(t, got[2].Rating)
	assert.Nil(t, got[3].Rating, "unparseable rating becomes nil")
}

func TestExtract_ReviewsCount(t *testing.T) {
	raw := json.RawMessage(`{"places":[
		{"title": "A", "ratingCount": 0},
		{"title": "B", "ratingCount": "17"},
		{"title": "C", "ratingCount": -3},
		{"title": "D", "ratingCount": 2.5}
	]}`)

	got, err := Extract(raw, ExtractOptions{})
	require.NoError(t, err)
	require.Len(t, got, 4)

	require.NotNil(t, got[0].ReviewsCount)
	assert.Equal(t, 0, *got[0].ReviewsCount)
	require.NotNil(t, got[1].ReviewsCount)
	assert.Equal(t, 17, *got[1].ReviewsCount)
	assert.Nil(t, got[2].ReviewsCount)
	assert.Nil(t, got[3].ReviewsCount)
}

func TestExtract_MapURLPriority(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		want  string
	}{
		{
			name:  "place id wins over cid",
			entry: `{"title": "Joe's Diner", "placeId": "ChIJxyz", "cid": "987", "latitude": 1.5, "longitude": 2.5}`,
			want:  "https://www.google.com/maps/place/?q=place_id:ChIJxyz",
		},
		{
			name:  "cid when no place id",
			entry: `{"title": "Joe's Diner", "placeId": "", "cid": "987", "latitude": 1.5, "longitude": 2.5}`,
			want:  "https://maps.google.com/?cid=987",
		},
		{
			name:  "numeric cid",
			entry: `{"cid": 12345678901234567890}`,
			want:  "https://maps.google.com/?cid=12345678901234567890",
		},
		{
			name:  "coordinates with title",
			entry: `{"title": "Joe's Diner & Grill", "latitude": 49.69, "longitude": -112.84}`,
			want:  "https://www.google.com/maps/search/Joe%27s+Diner+%26+Grill/@49.69,-112.84,15z/",
		},
		{
			name:  "coordinates without title",
			entry: `{"latitude": 49.69, "longitude": -112.84}`,
			want:  "https://www.google.com/maps/search/?api=1&query=49.69,-112.84",
		},
		{
			name:  "only latitude",
			entry: `{"title": "Half", "latitude": 49.69}`,
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(json.RawMessage(`{"places":[`+tt.entry+`]}`), ExtractOptions{})
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].MapURL)
		})
	}
}

func TestExtract_CoordinatesArePaired(t *testing.T) {
	raw := json.RawMessage(`{"places":[
		{"title": "A", "latitude": 49.69},
		{"title": "B", "latitude": "bad", "longitude": -112.84},
		{"title": "C", "latitude": "49.69", "longitude": "-112.84"}
	]}`)

	got, err := Extract(raw, ExtractOptions{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	for _, b := range got[:2] {
		assert.Nil(t, b.Latitude, b.Name)
		assert.Nil(t, b.Longitude, b.Name)
	}
	require.NotNil(t, got[2].Latitude)
	require.NotNil(t, got[2].Longitude)
}

func TestExtract_BusinessHoursString(t *testing.T) {
	raw := json.RawMessage(`{"places":[{"title": "A", "workingHours": "Open 24 hours"}]}`)
	got, err := Extract(raw, ExtractOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Open 24 hours", got[0].BusinessHours)
}

func TestExtract_EmptySocialMediaOmitted(t *testing.T) {
	raw := json.RawMessage(`{"places":[{"title": "A", "socialMedia": {"facebook": "", "x": null}}]}`)
	got, err := Extract(raw, ExtractOptions{})
	require.NoError(t, err)
	assert.Nil(t, got[0].SocialMediaLinks)
}

func TestExtract_NonFiniteNumbersAreAbsent(t *testing.T) {
	raw := json.RawMessage(`{"places":[
		{"title": "A", "rating": "NaN", "ratingCount": "Infinity"},
		{"title": "B", "rating": "-Inf", "latitude": "NaN", "longitude": -112.84},
		{"title": "C", "rating": 1e400, "latitude": 49.69, "longitude": "+Infinity"}
	]}`)

	got, err := Extract(raw, ExtractOptions{MaxRating: floatPtr(5)})
	require.NoError(t, err)
	require.Len(t, got, 3)

	for _, b := range got {
		assert.Nil(t, b.Rating, b.Name)
		assert.Nil(t, b.ReviewsCount, b.Name)
		assert.Nil(t, b.Latitude, b.Name)
		assert.Nil(t, b.Longitude, b.Name)
		assert.Empty(t, b.MapURL, b.Name)
	}

	_, err = json.Marshal(got)
	require.NoError(t, err)
}

func TestExtract_PlacesNotAList(t *testing.T) {
	_, err := Extract(json.RawMessage(`{"places": "nope"}`), ExtractOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected places to be a list")
}

func TestExtract_InvalidJSON(t *testing.T) {
	_, err := Extract(json.RawMessage(`{"places": [`), ExtractOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestExtract_WorkingHoursKeepProviderOrder(t *testing.T) {
	raw := json.RawMessage(`{"places":[{"title": "A", "workingHours": {"Sunday": "Closed", "Monday": "8 AM-4 PM", "Holiday": 3}}]}`)
	got, err := Extract(raw, ExtractOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Sunday: Closed; Monday: 8 AM-4 PM", got[0].BusinessHours)
}
