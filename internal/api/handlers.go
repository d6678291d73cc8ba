package api

import (
	"net/http"

	"github.com/sells-group/bizscout/internal/generate"
	"github.com/sells-group/bizscout/internal/model"
	"github.com/sells-group/bizscout/internal/places"
)

type searchResponse struct {
	Businesses []model.Business `json:"businesses"`
	TotalCount int              `json:"totalCount"`
	Timestamp  float64          `json:"timestamp"`
}

type analyzeResponse struct {
	*model.AnalysisReport
	Timestamp float64 `json:"timestamp"`
}

type generateResponse struct {
	*generate.Result
	Timestamp float64 `json:"timestamp"`
}

type validateKeyResponse struct {
	generate.KeyValidation
	Timestamp float64 `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, "Error searching businesses", err)
		return
	}

	businesses, err := s.searcher.Search(r.Context(),
		places.Query{Location: req.Location, Category: req.Category},
		places.ExtractOptions{
			MaxResults:      req.maxResults(),
			FilterNoWebsite: req.FilterNoWebsite,
			MaxRating:       req.MaxRating,
		},
	)
	if err != nil {
		writeError(w, r, "Error searching businesses", err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Businesses: businesses,
		TotalCount: len(businesses),
		Timestamp:  s.timestamp(),
	})
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, "Error getting raw Serper data", err)
		return
	}

	raw, err := s.searcher.Raw(r.Context(), places.Query{Location: req.Location, Category: req.Category})
	if err != nil {
		writeError(w, r, "Error getting raw Serper data", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, "Error analyzing business opportunities", err)
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), req.toAnalysis())
	if err != nil {
		writeError(w, r, "Error analyzing business opportunities", err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{AnalysisReport: report, Timestamp: s.timestamp()})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, "Error generating Gemini response", err)
		return
	}

	result, err := s.generator.Generate(r.Context(), generate.Request{
		APIKey:      req.APIKey,
		Prompt:      req.Prompt,
		Model:       req.model(),
		Temperature: req.temperature(),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		writeError(w, r, "Error generating Gemini response", err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{Result: result, Timestamp: s.timestamp()})
}

func (s *Server) handleValidateKey(w http.ResponseWriter, r *http.Request) {
	var req ValidateKeyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, "Error validating API key", err)
		return
	}

	result := s.generator.ValidateKey(r.Context(), req.APIKey)
	writeJSON(w, http.StatusOK, validateKeyResponse{KeyValidation: result, Timestamp: s.timestamp()})
}
