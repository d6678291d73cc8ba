package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/bizscout/internal/config"
)

const placesFixture = `{
  "searchParameters": {"q": "Cafe in Lethbridge, Alberta", "type": "places"},
  "places": [
    {"title": "Joe's Diner", "rating": 2.1, "ratingCount": 3, "category": "Cafe", "placeId": "ChIJjoe"},
    {"title": "Acme Bakery", "website": "https://acmebakery.example", "rating": 4.7, "ratingCount": 250, "category": "Cafe"},
    {"title": "Tim Hortons", "rating": 3.9, "ratingCount": 500, "category": "Cafe"}
  ]
}`

// serperStub serves placesFixture and counts calls.
func serperStub(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/places", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(placesFixture))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

// geminiStub lists two models and answers every generation with "pong".
func geminiStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1beta/models":
			_, _ = w.Write([]byte(`{"models":[{"name":"models/gemini-pro"},{"name":"models/gemini-1.5-flash"}]}`))
		default:
			if r.Header.Get("x-goog-api-key") != "good-key" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"candidates": []any{map[string]any{
					"content":      map[string]any{"parts": []any{map[string]any{"text": "pong"}}},
					"finishReason": "STOP",
				}},
			})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(serperURL, geminiURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, CORSOrigins: []string{"*"}, ShutdownTimeoutSecs: 5},
		Log:    config.LogConfig{Level: "info", Format: "json"},
		Serper: config.SerperConfig{
			Key:              "test-key",
			BaseURL:          serperURL,
			TimeoutSecs:      5,
			RetryAttempts:    3,
			InitialBackoffMs: 1,
			MaxBackoffMs:     5,
		},
		Gemini: config.GeminiConfig{
			BaseURL:       geminiURL,
			TimeoutSecs:   5,
			DefaultModel:  "gemini-pro",
			FallbackModel: "models/gemini-1.5-flash",
		},
	}
}
