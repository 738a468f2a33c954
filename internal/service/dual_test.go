package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/docduel/docduel/internal/errors"
	"github.com/docduel/docduel/internal/llm"
)

type fakeProvider struct {
	name  string
	text  string
	delay time.Duration
	err   error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (llm.Completion, error) {
	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return llm.Completion{}, ctx.Err()
	}

	if p.err != nil {
		return llm.Completion{}, p.err
	}

	return llm.Completion{Text: p.text, InputTokens: 10, OutputTokens: 20}, nil
}

func TestDualGenerator_GenerateBoth(t *testing.T) {
	claude := &fakeProvider{name: "claude", text: "claude says"}
	openai := &fakeProvider{name: "openai", text: "openai says"}

	g := NewDualGenerator(claude, openai, 0)

	got, err := g.GenerateBoth(context.Background(), "sys", "user", 512)
	require.NoError(t, err)

	assert.Equal(t, "claude says", got.Claude.Content)
	assert.Equal(t, "openai says", got.OpenAI.Content)
	assert.Equal(t, 10, got.Claude.InputTokens)
	assert.Equal(t, 20, got.OpenAI.OutputTokens)
}

func TestDualGenerator_RunsProvidersInParallel(t *testing.T) {
	// Two providers each sleeping 100ms must finish in far less than 200ms;
	// serial execution would take their sum.
	const perProvider = 100 * time.Millisecond

	claude := &fakeProvider{name: "claude", text: "a", delay: perProvider}
	openai := &fakeProvider{name: "openai", text: "b", delay: perProvider}

	g := NewDualGenerator(claude, openai, 0)

	start := time.Now()
	got, err := g.GenerateBoth(context.Background(), "sys", "user", 512)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, 2*perProvider-20*time.Millisecond,
		"calls must run in parallel, took %v", elapsed)

	assert.GreaterOrEqual(t, got.Claude.LatencyMs, int(perProvider.Milliseconds()))
	assert.GreaterOrEqual(t, got.OpenAI.LatencyMs, int(perProvider.Milliseconds()))
}

func TestDualGenerator_FailureOnEitherSideFailsWhole(t *testing.T) {
	boom := errors.New("boom")

	t.Run("claude fails", func(t *testing.T) {
		g := NewDualGenerator(
			&fakeProvider{name: "claude", err: boom},
			&fakeProvider{name: "openai", text: "fine"},
			0,
		)

		_, err := g.GenerateBoth(context.Background(), "sys", "user", 512)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
		assert.Contains(t, err.Error(), "claude")
	})

	t.Run("openai fails", func(t *testing.T) {
		g := NewDualGenerator(
			&fakeProvider{name: "claude", text: "fine"},
			&fakeProvider{name: "openai", err: boom},
			0,
		)

		_, err := g.GenerateBoth(context.Background(), "sys", "user", 512)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
		assert.Contains(t, err.Error(), "openai")
	})
}

func TestDualGenerator_Timeout(t *testing.T) {
	g := NewDualGenerator(
		&fakeProvider{name: "claude", text: "a", delay: 500 * time.Millisecond},
		&fakeProvider{name: "openai", text: "b"},
		50*time.Millisecond,
	)

	_, err := g.GenerateBoth(context.Background(), "sys", "user", 512)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}
