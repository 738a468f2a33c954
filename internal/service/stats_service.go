package service

import (
	"context"
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/docduel/docduel/internal/models"
)

// Pricing holds the per-token cost configuration for both providers.
// These are configuration constants, not derived data.
type Pricing struct {
	ClaudeInputPerToken  float64
	ClaudeOutputPerToken float64
	OpenAIInputPerToken  float64
	OpenAIOutputPerToken float64
}

// recentComparisonsLimit caps the recency list in the report.
const recentComparisonsLimit = 10

// previewMaxChars caps the question preview attached to recent comparisons.
const previewMaxChars = 50

// EventLogReader assembles the full event log the aggregator consumes.
type EventLogReader interface {
	ReadEventLog(ctx context.Context) (*models.EventLog, error)
}

// StatsService computes the comparative evaluation report. The aggregation
// itself (ComputeStats) is a pure function of the event log and the optional
// date range; the service only fetches the log.
type StatsService struct {
	log     EventLogReader
	pricing Pricing
}

// NewStatsService creates a stats service.
func NewStatsService(log EventLogReader, pricing Pricing) *StatsService {
	return &StatsService{log: log, pricing: pricing}
}

// GetStats reads the event log and computes the report for the optional
// inclusive date range.
func (s *StatsService) GetStats(ctx context.Context, dateRange *models.DateRange) (*models.StatsReport, error) {
	log, err := s.log.ReadEventLog(ctx)
	if err != nil {
		return nil, err
	}

	report := ComputeStats(log, s.pricing, dateRange)

	return &report, nil
}

// ComputeStats aggregates the event log into a StatsReport. Pure and
// re-entrant: no I/O, no shared state, same input always yields same output.
//
// The date filter is applied independently and identically to every
// collection before any metric is computed; no metric mixes filtered and
// unfiltered collections. Preview lookups for the recency list resolve
// against the unfiltered log: they are a display join on reference IDs, not
// a metric, and the referenced rows may fall outside the range.
func ComputeStats(log *models.EventLog, pricing Pricing, dateRange *models.DateRange) models.StatsReport {
	docs := filterByDate(log.Documents, dateRange, func(d models.Document) time.Time { return d.CreatedAt })
	summaries := filterByDate(log.Summaries, dateRange, func(s models.Summary) time.Time { return s.CreatedAt })
	queries := filterByDate(log.Queries, dateRange, func(q models.Query) time.Time { return q.CreatedAt })
	feedback := filterByDate(log.Feedback, dateRange, func(f models.Feedback) time.Time { return f.CreatedAt })
	comparisons := filterByDate(log.Comparisons, dateRange, func(c models.Comparison) time.Time { return c.CreatedAt })

	var report models.StatsReport

	report.TotalDocuments = len(docs)
	report.TotalQueries = len(queries)
	report.TotalComparisons = len(comparisons)

	// Win/tie rates. The max(1, n) denominator guard turns the empty case
	// into 0% across the board instead of NaN.
	claudeWins, openaiWins, ties := countOutcomes(comparisons)
	total := guard(len(comparisons))
	report.ClaudeWinRate = roundPct(claudeWins, total)
	report.OpenAIWinRate = roundPct(openaiWins, total)
	report.TieRate = roundPct(ties, total)
	report.WinCounts = models.WinCounts{Claude: claudeWins, OpenAI: openaiWins, Tie: ties}

	// Thumbs-up rates per provider.
	report.ClaudeThumbsUpRate = thumbsUpRate(feedback, models.ProviderClaude)
	report.OpenAIThumbsUpRate = thumbsUpRate(feedback, models.ProviderOpenAI)

	// Latency and length pools combine both response kinds per provider.
	claudeLatencies, openaiLatencies := latencyPools(summaries, queries)
	report.ClaudeAvgLatencyMs = roundMean(claudeLatencies)
	report.OpenAIAvgLatencyMs = roundMean(openaiLatencies)
	report.LatencyDistribution.Claude = distributionOf(claudeLatencies)
	report.LatencyDistribution.OpenAI = distributionOf(openaiLatencies)

	claudeLengths, openaiLengths := lengthPools(summaries, queries)
	report.ClaudeAvgLength = roundMean(claudeLengths)
	report.OpenAIAvgLength = roundMean(openaiLengths)

	// Agreement: of the comparisons a provider won, how many of those same
	// references also carry a thumbs-up for that provider. Numerator and
	// denominator are both scoped to wins; this is not the thumbs-up rate.
	report.ClaudeAgreementRate = agreementRate(comparisons, feedback, models.ProviderClaude)
	report.OpenAIAgreementRate = agreementRate(comparisons, feedback, models.ProviderOpenAI)

	// Win rate partitioned by task type, each partition with its own guard.
	report.WinRateByType.Summaries = rateBreakdown(comparisons, models.ReferenceSummary)
	report.WinRateByType.Queries = rateBreakdown(comparisons, models.ReferenceQuery)

	// Cost estimate from summary-kind responses only: query rows carry no
	// token counts. Missing token counts contribute zero.
	report.Costs.Claude = roundCents(costOf(summaries, models.ProviderClaude, pricing.ClaudeInputPerToken, pricing.ClaudeOutputPerToken))
	report.Costs.OpenAI = roundCents(costOf(summaries, models.ProviderOpenAI, pricing.OpenAIInputPerToken, pricing.OpenAIOutputPerToken))

	report.RecentComparisons = recentComparisons(comparisons, log)

	return report
}

func filterByDate[T any](items []T, dr *models.DateRange, at func(T) time.Time) []T {
	if dr == nil || (dr.Start.IsZero() && dr.End.IsZero()) {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if dr.Contains(at(item)) {
			out = append(out, item)
		}
	}

	return out
}

func countOutcomes(comparisons []models.Comparison) (claude, openai, ties int) {
	for _, c := range comparisons {
		switch c.Winner {
		case models.ProviderClaude:
			claude++
		case models.ProviderOpenAI:
			openai++
		case models.WinnerTie:
			ties++
		}
	}
	return claude, openai, ties
}

func thumbsUpRate(feedback []models.Feedback, provider string) int {
	var up, total int
	for _, f := range feedback {
		if f.Model != provider {
			continue
		}
		total++
		if f.Rating == models.RatingUp {
			up++
		}
	}

	return roundPct(up, guard(total))
}

func latencyPools(summaries []models.Summary, queries []models.Query) (claude, openai []int) {
	for _, s := range summaries {
		switch s.Model {
		case models.ProviderClaude:
			claude = append(claude, s.LatencyMs)
		case models.ProviderOpenAI:
			openai = append(openai, s.LatencyMs)
		}
	}
	for _, q := range queries {
		claude = append(claude, q.ClaudeLatencyMs)
		openai = append(openai, q.OpenAILatencyMs)
	}
	return claude, openai
}

func lengthPools(summaries []models.Summary, queries []models.Query) (claude, openai []int) {
	for _, s := range summaries {
		switch s.Model {
		case models.ProviderClaude:
			claude = append(claude, len(s.Content))
		case models.ProviderOpenAI:
			openai = append(openai, len(s.Content))
		}
	}
	for _, q := range queries {
		claude = append(claude, len(q.ClaudeResponse))
		openai = append(openai, len(q.OpenAIResponse))
	}
	return claude, openai
}

func agreementRate(comparisons []models.Comparison, feedback []models.Feedback, provider string) int {
	type refKey struct {
		refType string
		refID   uuid.UUID
	}

	thumbsUp := make(map[refKey]bool)
	for _, f := range feedback {
		if f.Model == provider && f.Rating == models.RatingUp {
			thumbsUp[refKey{f.ReferenceType, f.ReferenceID}] = true
		}
	}

	var wins, agreed int
	for _, c := range comparisons {
		if c.Winner != provider {
			continue
		}
		wins++
		if thumbsUp[refKey{c.ReferenceType, c.ReferenceID}] {
			agreed++
		}
	}

	if wins == 0 {
		return 0
	}

	return roundPct(agreed, wins)
}

func rateBreakdown(comparisons []models.Comparison, referenceType string) models.RateBreakdown {
	var partition []models.Comparison
	for _, c := range comparisons {
		if c.ReferenceType == referenceType {
			partition = append(partition, c)
		}
	}

	claude, openai, ties := countOutcomes(partition)
	total := guard(len(partition))

	return models.RateBreakdown{
		Claude: roundPct(claude, total),
		OpenAI: roundPct(openai, total),
		Tie:    roundPct(ties, total),
		Total:  len(partition),
	}
}

func costOf(summaries []models.Summary, provider string, inputPerToken, outputPerToken float64) float64 {
	var inputTokens, outputTokens int
	for _, s := range summaries {
		if s.Model != provider {
			continue
		}
		if s.InputTokens != nil {
			inputTokens += *s.InputTokens
		}
		if s.OutputTokens != nil {
			outputTokens += *s.OutputTokens
		}
	}

	return float64(inputTokens)*inputPerToken + float64(outputTokens)*outputPerToken
}

func recentComparisons(comparisons []models.Comparison, log *models.EventLog) []models.RecentComparison {
	sorted := make([]models.Comparison, len(comparisons))
	copy(sorted, comparisons)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if len(sorted) > recentComparisonsLimit {
		sorted = sorted[:recentComparisonsLimit]
	}

	questionByQuery := make(map[uuid.UUID]string, len(log.Queries))
	for _, q := range log.Queries {
		questionByQuery[q.ID] = q.Question
	}

	docBySummary := make(map[uuid.UUID]uuid.UUID, len(log.Summaries))
	for _, s := range log.Summaries {
		docBySummary[s.ID] = s.DocumentID
	}

	filenameByDoc := make(map[uuid.UUID]string, len(log.Documents))
	for _, d := range log.Documents {
		filenameByDoc[d.ID] = d.Filename
	}

	out := make([]models.RecentComparison, len(sorted))
	for i, c := range sorted {
		rc := models.RecentComparison{
			ID:            c.ID,
			ReferenceType: c.ReferenceType,
			ReferenceID:   c.ReferenceID,
			Winner:        c.Winner,
			CreatedAt:     c.CreatedAt,
		}

		switch c.ReferenceType {
		case models.ReferenceQuery:
			rc.Preview = truncatePreview(questionByQuery[c.ReferenceID])
		case models.ReferenceSummary:
			if docID, ok := docBySummary[c.ReferenceID]; ok {
				rc.Preview = filenameByDoc[docID]
			}
		}

		out[i] = rc
	}

	return out
}

func truncatePreview(s string) string {
	if utf8.RuneCountInString(s) > previewMaxChars {
		return string([]rune(s)[:previewMaxChars]) + "..."
	}
	return s
}

// guard is the max(1, n) denominator rule.
func guard(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// roundPct converts count/total to a rounded integer percentage.
func roundPct(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}

func roundMean(values []int) int {
	if len(values) == 0 {
		return 0
	}

	var sum int
	for _, v := range values {
		sum += v
	}

	return int(math.Round(float64(sum) / float64(len(values))))
}

// distributionOf reports min, max, median and P95 over a pooled sample.
// Percentile rule: index = ceil(p/100 * n) - 1, clamped to >= 0.
func distributionOf(values []int) models.Distribution {
	if len(values) == 0 {
		return models.Distribution{}
	}

	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	return models.Distribution{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: percentile(sorted, 50),
		P95:    percentile(sorted, 95),
	}
}

func percentile(sorted []int, p int) int {
	if len(sorted) == 0 {
		return 0
	}

	idx := int(math.Ceil(float64(p)/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}

	return sorted[idx]
}

func roundCents(x float64) float64 {
	return math.Round(x*100) / 100
}
