package models

import (
	"time"

	"github.com/google/uuid"
)

// Provider names the two competing LLM products. These values are persisted
// in the model columns and in vote rows, so they are part of the storage contract.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
)

// ValidProvider reports whether s names a known provider.
func ValidProvider(s string) bool {
	return s == ProviderClaude || s == ProviderOpenAI
}

// Summary is one provider's whole-document summary. Two rows (one per
// provider) are always created together for a document.
type Summary struct {
	ID           uuid.UUID `json:"id"`
	DocumentID   uuid.UUID `json:"document_id"`
	Model        string    `json:"model"`
	Content      string    `json:"content"`
	LatencyMs    int       `json:"latency_ms"`
	InputTokens  *int      `json:"input_tokens,omitempty"`
	OutputTokens *int      `json:"output_tokens,omitempty"`
	Truncated    bool      `json:"truncated"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChunkRef records one retrieved chunk and its similarity score as used in a
// query's context block.
type ChunkRef struct {
	ID    uuid.UUID `json:"id"`
	Score float64   `json:"score"`
}

// Query is one retrieval-augmented question exchange: both providers'
// answers to the same question over the same retrieved context.
type Query struct {
	ID              uuid.UUID  `json:"id"`
	DocumentID      uuid.UUID  `json:"document_id"`
	Question        string     `json:"question"`
	ClaudeResponse  string     `json:"claude_response"`
	ClaudeLatencyMs int        `json:"claude_latency_ms"`
	OpenAIResponse  string     `json:"openai_response"`
	OpenAILatencyMs int        `json:"openai_latency_ms"`
	ChunksUsed      []ChunkRef `json:"chunks_used"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ProviderResult is a single provider's generation outcome as measured by the
// orchestrator: content plus wall-clock latency and token usage.
type ProviderResult struct {
	Content      string `json:"content"`
	LatencyMs    int    `json:"latency_ms"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// DualResult holds both providers' results for one logical request.
// The two are always produced together; a failure on either side yields no DualResult.
type DualResult struct {
	Claude ProviderResult `json:"claude"`
	OpenAI ProviderResult `json:"openai"`
}
