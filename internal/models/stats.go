package models

import (
	"time"

	"github.com/google/uuid"
)

// EventLog is the full set of persisted collections the aggregator consumes.
// It is assembled by the stats service from repository reads; the aggregation
// itself is a pure function of this value.
type EventLog struct {
	Documents   []Document
	Summaries   []Summary
	Queries     []Query
	Feedback    []Feedback
	Comparisons []Comparison
}

// DateRange is an inclusive timestamp filter. Either bound may be zero,
// meaning unbounded on that side.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t satisfies both supplied bounds.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// WinCounts holds raw comparison outcome counts for display.
type WinCounts struct {
	Claude int `json:"claude"`
	OpenAI int `json:"openai"`
	Tie    int `json:"tie"`
}

// RateBreakdown is a win/tie percentage split for one comparison partition.
type RateBreakdown struct {
	Claude int `json:"claude"`
	OpenAI int `json:"openai"`
	Tie    int `json:"tie"`
	Total  int `json:"total"`
}

// Distribution summarizes a pooled numeric sample (latencies or lengths).
type Distribution struct {
	Min    int `json:"min"`
	Max    int `json:"max"`
	Median int `json:"median"`
	P95    int `json:"p95"`
}

// RecentComparison is a comparison enriched with a short preview of what was
// compared: a truncated question for queries, the source filename for summaries.
type RecentComparison struct {
	ID            uuid.UUID `json:"id"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   uuid.UUID `json:"reference_id"`
	Winner        string    `json:"winner"`
	Preview       string    `json:"preview,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// StatsReport is the complete aggregation output. Every field is always
// present with a zero default; percentage fields are rounded integers.
type StatsReport struct {
	TotalDocuments   int `json:"total_documents"`
	TotalQueries     int `json:"total_queries"`
	TotalComparisons int `json:"total_comparisons"`

	ClaudeWinRate int       `json:"claude_win_rate"`
	OpenAIWinRate int       `json:"openai_win_rate"`
	TieRate       int       `json:"tie_rate"`
	WinCounts     WinCounts `json:"win_counts"`

	ClaudeThumbsUpRate int `json:"claude_thumbs_up_rate"`
	OpenAIThumbsUpRate int `json:"openai_thumbs_up_rate"`

	ClaudeAvgLatencyMs int `json:"claude_avg_latency_ms"`
	OpenAIAvgLatencyMs int `json:"openai_avg_latency_ms"`

	ClaudeAvgLength int `json:"claude_avg_length"`
	OpenAIAvgLength int `json:"openai_avg_length"`

	ClaudeAgreementRate int `json:"claude_agreement_rate"`
	OpenAIAgreementRate int `json:"openai_agreement_rate"`

	WinRateByType struct {
		Summaries RateBreakdown `json:"summaries"`
		Queries   RateBreakdown `json:"queries"`
	} `json:"win_rate_by_type"`

	LatencyDistribution struct {
		Claude Distribution `json:"claude"`
		OpenAI Distribution `json:"openai"`
	} `json:"latency_distribution"`

	Costs struct {
		Claude float64 `json:"claude"`
		OpenAI float64 `json:"openai"`
	} `json:"costs"`

	RecentComparisons []RecentComparison `json:"recent_comparisons"`
}
