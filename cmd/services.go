package main

import (
	"github.com/sells-group/bizscout/internal/config"
	"github.com/sells-group/bizscout/internal/generate"
	"github.com/sells-group/bizscout/internal/metrics"
	"github.com/sells-group/bizscout/internal/opportunity"
	"github.com/sells-group/bizscout/internal/places"
	"github.com/sells-group/bizscout/internal/ratelimit"
	"github.com/sells-group/bizscout/internal/resilience"
	"github.com/sells-group/bizscout/pkg/gemini"
	"github.com/sells-group/bizscout/pkg/serper"
)

// services holds the process-wide collaborators shared by every command.
type services struct {
	Searcher *places.Searcher
	Analyzer *opportunity.Analyzer
	Gateway  *generate.Gateway
}

// newServices wires clients from config. One rate-limit gate is shared by
// every search issued by the process.
func newServices(c *config.Config) *services {
	searcher := places.NewSearcher(newSerperClient(c.Serper))
	return &services{
		Searcher: searcher,
		Analyzer: opportunity.NewAnalyzer(searcher, opportunity.NewChainFilter(c.Analysis.ChainIndicators)),
		Gateway:  newGateway(c.Gemini),
	}
}

func newSerperClient(sc config.SerperConfig) serper.Client {
	retryLog := resilience.RetryLogger(metrics.ProviderSerper, "places")
	return serper.NewClient(sc.Key,
		serper.WithBaseURL(sc.BaseURL),
		serper.WithTimeout(sc.Timeout()),
		serper.WithLimiter(ratelimit.NewGate(sc.MinInterval())),
		serper.WithRetry(resilience.FromSettings(sc.RetryAttempts, sc.InitialBackoffMs, sc.MaxBackoffMs)),
		serper.WithOnRetry(func(attempt int, err error) {
			retryLog(attempt, err)
			metrics.ProviderRetries.WithLabelValues(metrics.ProviderSerper, "places").Inc()
		}),
	)
}

func newGateway(gc config.GeminiConfig) *generate.Gateway {
	client := gemini.NewClient(
		gemini.WithBaseURL(gc.BaseURL),
		gemini.WithTimeout(gc.Timeout()),
	)
	return generate.NewGateway(client,
		generate.WithFallbackModel(gc.FallbackModel),
		generate.WithTestKeys(gc.AcceptTestKeys),
	)
}
