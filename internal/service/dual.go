package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/docduel/docduel/internal/errors"
	"github.com/docduel/docduel/internal/llm"
	"github.com/docduel/docduel/internal/models"
)

// DualGenerator issues the same prompt to both providers concurrently and
// returns the paired results. Wall-clock latency of GenerateBoth is bounded
// by the slower provider, not the sum; the per-provider latency metrics
// downstream depend on the calls actually running in parallel.
type DualGenerator struct {
	claude  llm.Provider
	openai  llm.Provider
	timeout time.Duration
}

// NewDualGenerator creates the orchestrator over the two providers.
// timeout bounds each provider call; zero means no bound beyond what the
// provider client itself enforces.
func NewDualGenerator(claude, openai llm.Provider, timeout time.Duration) *DualGenerator {
	return &DualGenerator{
		claude:  claude,
		openai:  openai,
		timeout: timeout,
	}
}

// GenerateBoth runs both provider calls in parallel and waits for both.
// A failure on either side fails the whole operation: a one-sided result
// would corrupt downstream win-rate semantics. No retry is performed here.
func (g *DualGenerator) GenerateBoth(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (models.DualResult, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var result models.DualResult

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		res, err := g.timedComplete(egCtx, g.claude, systemPrompt, userPrompt, maxTokens)
		if err != nil {
			return apperrors.NewUpstreamError(g.claude.Name(), err)
		}
		result.Claude = res
		return nil
	})

	eg.Go(func() error {
		res, err := g.timedComplete(egCtx, g.openai, systemPrompt, userPrompt, maxTokens)
		if err != nil {
			return apperrors.NewUpstreamError(g.openai.Name(), err)
		}
		result.OpenAI = res
		return nil
	})

	if err := eg.Wait(); err != nil {
		return models.DualResult{}, err
	}

	return result, nil
}

// timedComplete wraps one provider call with a monotonic timer, started
// immediately before and stopped immediately after the call. This measured
// latency is the metric persisted downstream, independent of any timing the
// provider reports itself.
func (g *DualGenerator) timedComplete(ctx context.Context, p llm.Provider, systemPrompt, userPrompt string, maxTokens int) (models.ProviderResult, error) {
	start := time.Now()
	completion, err := p.Complete(ctx, systemPrompt, userPrompt, maxTokens)
	latency := time.Since(start)

	if err != nil {
		return models.ProviderResult{}, err
	}

	return models.ProviderResult{
		Content:      completion.Text,
		LatencyMs:    int(latency.Milliseconds()),
		InputTokens:  completion.InputTokens,
		OutputTokens: completion.OutputTokens,
	}, nil
}
