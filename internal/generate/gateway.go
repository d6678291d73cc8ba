// Package generate forwards prompts to the Gemini API with model resolution
// and quota handling.
package generate

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bizscout/internal/metrics"
	"github.com/sells-group/bizscout/pkg/gemini"
)

const (
	// MaxTextLength caps generated text, in characters.
	MaxTextLength = 2000

	// QuotaMessage replaces the generated text when the provider quota is
	// exhausted.
	QuotaMessage = "I apologize, but it looks like the Gemini API quota has been exceeded. " +
		"Please try again later or use a different API key. You can update your API key by " +
		"clicking on 'New Search' and going through the setup process again."

	FinishReasonStop  = "STOP"
	FinishReasonError = "ERROR"

	topP = 0.95
)

// Request is one generation call.
type Request struct {
	APIKey      string
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   *int
}

// Usage reports token consumption when the provider returns it.
type Usage struct {
	PromptTokens     int `json:"promptTokens" yaml:"promptTokens"`
	CompletionTokens int `json:"completionTokens" yaml:"completionTokens"`
	TotalTokens      int `json:"totalTokens" yaml:"totalTokens"`
}

// Result is the outcome of Generate.
type Result struct {
	Text         string `json:"text" yaml:"text"`
	Model        string `json:"model" yaml:"model"`
	FinishReason string `json:"finishReason" yaml:"finishReason"`
	Usage        *Usage `json:"usage" yaml:"usage"`
}

// KeyValidation is the outcome of ValidateKey.
type KeyValidation struct {
	Valid   bool   `json:"isValid" yaml:"isValid"`
	Message string `json:"message" yaml:"message"`
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithFallbackModel sets the model used when the model list is unavailable.
func WithFallbackModel(model string) Option {
	return func(g *Gateway) {
		if model != "" {
			g.fallback = gemini.ModelPath(model)
		}
	}
}

// WithTestKeys makes ValidateKey accept "test" and "testing" without a
// provider call.
func WithTestKeys(accept bool) Option {
	return func(g *Gateway) {
		g.acceptTestKeys = accept
	}
}

// Gateway resolves a model and generates text with a caller-supplied key.
type Gateway struct {
	client         gemini.Client
	fallback       string
	acceptTestKeys bool
}

// NewGateway creates a Gateway.
func NewGateway(client gemini.Client, opts ...Option) *Gateway {
	g := &Gateway{client: client, fallback: DefaultModel}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate resolves a usable model for req.Model and generates text. A quota
// error yields QuotaMessage with a nil error.
func (g *Gateway) Generate(ctx context.Context, req Request) (*Result, error) {
	names := g.modelNames(ctx, req.APIKey)
	model := Resolve(names, g.fallback, GenerationChain(req.Model)...)

	log := zap.L().With(zap.String("requested_model", req.Model), zap.String("model", model))
	if model != gemini.ModelPath(req.Model) {
		log.Info("generate: requested model not available, substituting")
	}

	cfg := &gemini.GenerationConfig{
		Temperature:     ptr(req.Temperature),
		TopP:            ptr(topP),
		MaxOutputTokens: req.MaxTokens,
	}

	started := time.Now()
	resp, err := g.client.GenerateContent(ctx, req.APIKey, model, gemini.UserPrompt(req.Prompt, cfg))
	if err != nil {
		if IsQuotaExceeded(err) {
			metrics.ObserveProvider(metrics.ProviderGemini, "generate", metrics.OutcomeQuota, started)
			log.Warn("generate: quota exceeded", zap.Error(err))
			return &Result{
				Text:         QuotaMessage,
				Model:        req.Model,
				FinishReason: FinishReasonError,
			}, nil
		}
		metrics.ObserveProvider(metrics.ProviderGemini, "generate", metrics.OutcomeError, started)
		return nil, eris.Wrap(err, "generate: generate content")
	}

	if len(resp.Candidates) == 0 {
		metrics.ObserveProvider(metrics.ProviderGemini, "generate", metrics.OutcomeError, started)
		reason := "unknown"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			reason = resp.PromptFeedback.BlockReason
		}
		return nil, eris.Errorf("generate: response has no candidates (block reason: %s)", reason)
	}
	metrics.ObserveProvider(metrics.ProviderGemini, "generate", metrics.OutcomeSuccess, started)

	result := &Result{
		Text:         Truncate(resp.Text(), MaxTextLength),
		Model:        model,
		FinishReason: resp.Candidates[0].FinishReason,
	}
	if result.FinishReason == "" {
		result.FinishReason = FinishReasonStop
	}
	if u := resp.UsageMetadata; u != nil {
		result.Usage = &Usage{
			PromptTokens:     u.PromptTokenCount,
			CompletionTokens: u.CandidatesTokenCount,
			TotalTokens:      u.TotalTokenCount,
		}
	}
	return result, nil
}

// ValidateKey checks a key with a tiny generation call. It never fails; any
// provider error means the key is invalid.
func (g *Gateway) ValidateKey(ctx context.Context, apiKey string) KeyValidation {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return invalidKey()
	}
	if g.acceptTestKeys {
		switch strings.ToLower(key) {
		case "test", "testing":
			return validKey()
		}
	}

	names := g.modelNames(ctx, key)
	model := Resolve(names, g.fallback, ValidationChain()...)

	started := time.Now()
	_, err := g.client.GenerateContent(ctx, key, model, gemini.UserPrompt("hello", &gemini.GenerationConfig{
		Temperature:     ptr(0.1),
		TopP:            ptr(topP),
		MaxOutputTokens: ptr(5),
	}))
	if err != nil {
		metrics.ObserveProvider(metrics.ProviderGemini, "validate_key", metrics.OutcomeError, started)
		zap.L().Info("generate: api key rejected", zap.String("model", model), zap.Error(err))
		return invalidKey()
	}
	metrics.ObserveProvider(metrics.ProviderGemini, "validate_key", metrics.OutcomeSuccess, started)
	return validKey()
}

// modelNames lists model names. A listing failure is logged and yields nil so
// the caller falls back to the default model.
func (g *Gateway) modelNames(ctx context.Context, apiKey string) []string {
	started := time.Now()
	models, err := g.client.ListModels(ctx, apiKey)
	if err != nil {
		metrics.ObserveProvider(metrics.ProviderGemini, "list_models", metrics.OutcomeError, started)
		zap.L().Warn("generate: list models failed, using fallback model",
			zap.String("fallback", g.fallback),
			zap.Error(err),
		)
		return nil
	}
	metrics.ObserveProvider(metrics.ProviderGemini, "list_models", metrics.OutcomeSuccess, started)

	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}
	return names
}

// IsQuotaExceeded reports whether err signals an exhausted provider quota.
func IsQuotaExceeded(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *gemini.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota exceeded") || strings.Contains(msg, "429")
}

// Truncate cuts s to at most n characters without splitting a rune.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func validKey() KeyValidation {
	return KeyValidation{Valid: true, Message: "API key is valid"}
}

func invalidKey() KeyValidation {
	return KeyValidation{Valid: false, Message: "Invalid API key"}
}

func ptr[T any](v T) *T {
	return &v
}
