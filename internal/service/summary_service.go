package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/docduel/docduel/internal/models"
)

// SummariesRepository defines the interface for summary data access.
type SummariesRepository interface {
	Insert(ctx context.Context, s *models.Summary) (*models.Summary, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]models.Summary, error)
}

// SummaryPair is both providers' summaries for one document.
type SummaryPair struct {
	Claude *models.Summary `json:"claude"`
	OpenAI *models.Summary `json:"openai"`
}

// SummaryService generates and stores whole-document summaries from both
// providers. Summarization bypasses retrieval: the (length-capped) full
// document text is the prompt.
type SummaryService struct {
	docs      DocumentsRepository
	summaries SummariesRepository
	dual      *DualGenerator
	logger    *slog.Logger
}

// NewSummaryService creates a summary service.
func NewSummaryService(docs DocumentsRepository, summaries SummariesRepository, dual *DualGenerator, logger *slog.Logger) *SummaryService {
	if logger == nil {
		logger = slog.Default()
	}

	return &SummaryService{
		docs:      docs,
		summaries: summaries,
		dual:      dual,
		logger:    logger,
	}
}

// GetSummaries returns the stored summary pair for a document, with nil
// fields for providers that have not been summarized yet.
func (s *SummaryService) GetSummaries(ctx context.Context, documentID uuid.UUID) (*SummaryPair, error) {
	existing, err := s.summaries.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	return pairFromRows(existing), nil
}

// Summarize generates both providers' summaries for a document. When a
// complete pair already exists it is returned as-is without regenerating;
// summaries are created once and never mutated.
func (s *SummaryService) Summarize(ctx context.Context, documentID uuid.UUID) (*SummaryPair, error) {
	existing, err := s.summaries.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if pair := pairFromRows(existing); pair.Claude != nil && pair.OpenAI != nil {
		s.logger.Info("summaries already exist, returning stored pair", "document_id", documentID)
		return pair, nil
	}

	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	userPrompt, truncated := buildSummaryPrompt(doc.TextContent)
	if truncated {
		s.logger.Warn("document text truncated for summarization",
			"document_id", documentID,
			"char_count", doc.CharCount,
			"cap", maxSummaryInputChars,
		)
	}

	result, err := s.dual.GenerateBoth(ctx, summarySystemPrompt, userPrompt, defaultMaxTokens)
	if err != nil {
		return nil, err
	}

	s.logger.Info("summaries generated",
		"document_id", documentID,
		"claude_latency_ms", result.Claude.LatencyMs,
		"openai_latency_ms", result.OpenAI.LatencyMs,
	)

	claudeRow, err := s.summaries.Insert(ctx, summaryRow(documentID, models.ProviderClaude, result.Claude, truncated))
	if err != nil {
		return nil, err
	}

	openaiRow, err := s.summaries.Insert(ctx, summaryRow(documentID, models.ProviderOpenAI, result.OpenAI, truncated))
	if err != nil {
		return nil, err
	}

	return &SummaryPair{Claude: claudeRow, OpenAI: openaiRow}, nil
}

func summaryRow(documentID uuid.UUID, model string, res models.ProviderResult, truncated bool) *models.Summary {
	inputTokens := res.InputTokens
	outputTokens := res.OutputTokens

	return &models.Summary{
		DocumentID:   documentID,
		Model:        model,
		Content:      res.Content,
		LatencyMs:    res.LatencyMs,
		InputTokens:  &inputTokens,
		OutputTokens: &outputTokens,
		Truncated:    truncated,
	}
}

func pairFromRows(rows []models.Summary) *SummaryPair {
	pair := &SummaryPair{}
	for i := range rows {
		switch rows[i].Model {
		case models.ProviderClaude:
			pair.Claude = &rows[i]
		case models.ProviderOpenAI:
			pair.OpenAI = &rows[i]
		}
	}

	return pair
}
