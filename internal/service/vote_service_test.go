package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/docduel/docduel/internal/errors"
	"github.com/docduel/docduel/internal/models"
)

// newVoteFixture returns a vote service with one stored summary and one
// stored query to vote on.
func newVoteFixture(t *testing.T) (*VoteService, *fakeVotesRepo, *models.Summary, *models.Query) {
	t.Helper()

	summaries := &fakeSummariesRepo{}
	queries := &fakeQueriesRepo{}
	votes := newFakeVotesRepo()

	summary, err := summaries.Insert(context.Background(), &models.Summary{
		DocumentID: uuid.New(),
		Model:      models.ProviderClaude,
		Content:    "s",
	})
	require.NoError(t, err)

	query, err := queries.Insert(context.Background(), &models.Query{
		DocumentID:     uuid.New(),
		Question:       "q",
		ClaudeResponse: "a",
		OpenAIResponse: "b",
	})
	require.NoError(t, err)

	return NewVoteService(votes, summaries, queries, nil), votes, summary, query
}

func TestVoteService_SubmitFeedback(t *testing.T) {
	svc, votes, summary, _ := newVoteFixture(t)

	fb, err := svc.SubmitFeedback(context.Background(), &models.SubmitFeedbackRequest{
		ReferenceType: models.ReferenceSummary,
		ReferenceID:   summary.ID,
		Model:         models.ProviderClaude,
		Rating:        models.RatingUp,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RatingUp, fb.Rating)

	t.Run("resubmitting updates instead of duplicating", func(t *testing.T) {
		updated, err := svc.SubmitFeedback(context.Background(), &models.SubmitFeedbackRequest{
			ReferenceType: models.ReferenceSummary,
			ReferenceID:   summary.ID,
			Model:         models.ProviderClaude,
			Rating:        models.RatingDown,
		})
		require.NoError(t, err)
		assert.Equal(t, fb.ID, updated.ID)
		assert.Equal(t, models.RatingDown, updated.Rating)
		assert.Len(t, votes.feedback, 1)
	})

	t.Run("same reference distinct model is a separate vote", func(t *testing.T) {
		_, err := svc.SubmitFeedback(context.Background(), &models.SubmitFeedbackRequest{
			ReferenceType: models.ReferenceSummary,
			ReferenceID:   summary.ID,
			Model:         models.ProviderOpenAI,
			Rating:        models.RatingUp,
		})
		require.NoError(t, err)
		assert.Len(t, votes.feedback, 2)
	})
}

func TestVoteService_SubmitFeedback_Validation(t *testing.T) {
	svc, _, summary, _ := newVoteFixture(t)

	valid := func() *models.SubmitFeedbackRequest {
		return &models.SubmitFeedbackRequest{
			ReferenceType: models.ReferenceSummary,
			ReferenceID:   summary.ID,
			Model:         models.ProviderOpenAI,
			Rating:        models.RatingUp,
		}
	}

	tests := []struct {
		name   string
		mutate func(*models.SubmitFeedbackRequest)
	}{
		{"bad reference type", func(r *models.SubmitFeedbackRequest) { r.ReferenceType = "chunk" }},
		{"nil reference id", func(r *models.SubmitFeedbackRequest) { r.ReferenceID = uuid.Nil }},
		{"bad model", func(r *models.SubmitFeedbackRequest) { r.Model = "gemini" }},
		{"bad rating", func(r *models.SubmitFeedbackRequest) { r.Rating = "sideways" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			_, err := svc.SubmitFeedback(context.Background(), req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	t.Run("unknown reference is rejected before writing", func(t *testing.T) {
		req := valid()
		req.ReferenceID = uuid.New()
		_, err := svc.SubmitFeedback(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestVoteService_SubmitComparison(t *testing.T) {
	svc, votes, summary, query := newVoteFixture(t)

	cmp, err := svc.SubmitComparison(context.Background(), &models.SubmitComparisonRequest{
		ReferenceType: models.ReferenceQuery,
		ReferenceID:   query.ID,
		Winner:        models.ProviderClaude,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProviderClaude, cmp.Winner)

	t.Run("tie is a valid winner", func(t *testing.T) {
		_, err := svc.SubmitComparison(context.Background(), &models.SubmitComparisonRequest{
			ReferenceType: models.ReferenceSummary,
			ReferenceID:   summary.ID,
			Winner:        models.WinnerTie,
		})
		assert.NoError(t, err)
		assert.Len(t, votes.comparisons, 2)
	})

	t.Run("revote replaces the stored winner", func(t *testing.T) {
		updated, err := svc.SubmitComparison(context.Background(), &models.SubmitComparisonRequest{
			ReferenceType: models.ReferenceQuery,
			ReferenceID:   query.ID,
			Winner:        models.ProviderOpenAI,
		})
		require.NoError(t, err)
		assert.Equal(t, cmp.ID, updated.ID)
		assert.Equal(t, models.ProviderOpenAI, updated.Winner)
	})
}

func TestVoteService_SubmitComparison_Validation(t *testing.T) {
	svc, _, _, query := newVoteFixture(t)

	t.Run("bad winner", func(t *testing.T) {
		_, err := svc.SubmitComparison(context.Background(), &models.SubmitComparisonRequest{
			ReferenceType: models.ReferenceQuery,
			ReferenceID:   query.ID,
			Winner:        "both",
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown reference is rejected before writing", func(t *testing.T) {
		_, err := svc.SubmitComparison(context.Background(), &models.SubmitComparisonRequest{
			ReferenceType: models.ReferenceQuery,
			ReferenceID:   uuid.New(),
			Winner:        models.WinnerTie,
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
