// Package llm defines the uniform completion interface the orchestrator uses
// and holds the concrete provider adapters. Both providers are distinct
// products but are treated identically through this interface.
package llm

import "context"

// Completion is the raw result of one provider call. Latency is measured by
// the caller, not here, so both providers are timed the same way.
type Completion struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Provider completes a chat prompt. Implementations must be safe for
// concurrent use; the orchestrator calls both providers in parallel.
type Provider interface {
	// Name returns the stable provider identifier persisted in response rows.
	Name() string

	// Complete sends the system and user prompt and returns the generated text
	// with token usage. Implementations do not retry; retry policy, if any,
	// belongs to the caller.
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (Completion, error)
}
