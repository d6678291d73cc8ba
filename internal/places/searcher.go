package places

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bizscout/internal/metrics"
	"github.com/sells-group/bizscout/internal/model"
	"github.com/sells-group/bizscout/pkg/serper"
)

// Searcher runs provider searches and normalizes the results.
type Searcher struct {
	client serper.Client
}

// NewSearcher creates a Searcher backed by the given provider client.
func NewSearcher(client serper.Client) *Searcher {
	return &Searcher{client: client}
}

// Raw returns the unmodified provider response for q.
func (s *Searcher) Raw(ctx context.Context, q Query) (json.RawMessage, error) {
	query := q.String()
	zap.L().Info("places: searching", zap.String("query", query))

	started := time.Now()
	raw, err := s.client.Places(ctx, query)
	if err != nil {
		metrics.ObserveProvider(metrics.ProviderSerper, "places", metrics.OutcomeError, started)
		return nil, eris.Wrapf(err, "places: search %q", query)
	}
	metrics.ObserveProvider(metrics.ProviderSerper, "places", metrics.OutcomeSuccess, started)
	return raw, nil
}

// Search runs q and returns the normalized, filtered businesses.
func (s *Searcher) Search(ctx context.Context, q Query, opts ExtractOptions) ([]model.Business, error) {
	raw, err := s.Raw(ctx, q)
	if err != nil {
		return nil, err
	}

	businesses, err := Extract(raw, opts)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("places: extracted businesses",
		zap.String("query", q.String()),
		zap.Int("count", len(businesses)),
	)
	return businesses, nil
}
