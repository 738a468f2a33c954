package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	apperrors "github.com/docduel/docduel/internal/errors"
	"github.com/docduel/docduel/internal/models"
)

// VotesRepository defines the interface for vote data access. Both writes
// are natural-key upserts; the storage layer guarantees at most one row per
// key regardless of concurrent duplicate submissions.
type VotesRepository interface {
	UpsertFeedback(ctx context.Context, req *models.SubmitFeedbackRequest) (*models.Feedback, error)
	UpsertComparison(ctx context.Context, req *models.SubmitComparisonRequest) (*models.Comparison, error)
}

// SummaryLookup resolves a summary vote reference.
type SummaryLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Summary, error)
}

// QueryLookup resolves a query vote reference.
type QueryLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Query, error)
}

// VoteService validates and records human votes. A vote must reference an
// existing summary or query row; a dangling reference is rejected before
// anything is written. Resubmitting a vote for the same reference updates
// the stored verdict rather than adding a row, so voting is idempotent from
// the caller's point of view.
type VoteService struct {
	votes     VotesRepository
	summaries SummaryLookup
	queries   QueryLookup
	logger    *slog.Logger
}

// NewVoteService creates a vote service.
func NewVoteService(votes VotesRepository, summaries SummaryLookup, queries QueryLookup, logger *slog.Logger) *VoteService {
	if logger == nil {
		logger = slog.Default()
	}

	return &VoteService{votes: votes, summaries: summaries, queries: queries, logger: logger}
}

// resolveReference verifies that the voted-on row exists. NotFoundError
// propagates to the caller as a reference-not-found validation failure.
func (s *VoteService) resolveReference(ctx context.Context, refType string, refID uuid.UUID) error {
	switch refType {
	case models.ReferenceSummary:
		_, err := s.summaries.GetByID(ctx, refID)
		return err
	case models.ReferenceQuery:
		_, err := s.queries.GetByID(ctx, refID)
		return err
	default:
		return apperrors.NewValidationError("reference_type",
			fmt.Sprintf("reference_type must be %q or %q", models.ReferenceSummary, models.ReferenceQuery))
	}
}

// SubmitFeedback records a thumbs up/down vote for one provider's response.
func (s *VoteService) SubmitFeedback(ctx context.Context, req *models.SubmitFeedbackRequest) (*models.Feedback, error) {
	if !models.ValidReferenceType(req.ReferenceType) {
		return nil, apperrors.NewValidationError("reference_type",
			fmt.Sprintf("reference_type must be %q or %q", models.ReferenceSummary, models.ReferenceQuery))
	}
	if req.ReferenceID == uuid.Nil {
		return nil, apperrors.NewValidationError("reference_id", "reference_id is required")
	}
	if !models.ValidProvider(req.Model) {
		return nil, apperrors.NewValidationError("model",
			fmt.Sprintf("model must be %q or %q", models.ProviderClaude, models.ProviderOpenAI))
	}
	if req.Rating != models.RatingUp && req.Rating != models.RatingDown {
		return nil, apperrors.NewValidationError("rating",
			fmt.Sprintf("rating must be %q or %q", models.RatingUp, models.RatingDown))
	}

	if err := s.resolveReference(ctx, req.ReferenceType, req.ReferenceID); err != nil {
		return nil, err
	}

	fb, err := s.votes.UpsertFeedback(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("feedback recorded",
		"reference_type", fb.ReferenceType,
		"reference_id", fb.ReferenceID,
		"model", fb.Model,
		"rating", fb.Rating,
	)

	return fb, nil
}

// SubmitComparison records a head-to-head winner vote for a response pair.
func (s *VoteService) SubmitComparison(ctx context.Context, req *models.SubmitComparisonRequest) (*models.Comparison, error) {
	if !models.ValidReferenceType(req.ReferenceType) {
		return nil, apperrors.NewValidationError("reference_type",
			fmt.Sprintf("reference_type must be %q or %q", models.ReferenceSummary, models.ReferenceQuery))
	}
	if req.ReferenceID == uuid.Nil {
		return nil, apperrors.NewValidationError("reference_id", "reference_id is required")
	}
	if !models.ValidProvider(req.Winner) && req.Winner != models.WinnerTie {
		return nil, apperrors.NewValidationError("winner",
			fmt.Sprintf("winner must be %q, %q, or %q", models.ProviderClaude, models.ProviderOpenAI, models.WinnerTie))
	}

	if err := s.resolveReference(ctx, req.ReferenceType, req.ReferenceID); err != nil {
		return nil, err
	}

	cmp, err := s.votes.UpsertComparison(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("comparison recorded",
		"reference_type", cmp.ReferenceType,
		"reference_id", cmp.ReferenceID,
		"winner", cmp.Winner,
	)

	return cmp, nil
}
