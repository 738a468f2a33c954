package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docduel/docduel/internal/models"
)

// VotesRepository handles data access for feedback and comparison votes.
//
// Idempotent voting is enforced here, not in the service: the tables carry
// uniqueness constraints on their natural keys and every write is an upsert,
// so concurrent duplicate submissions can at worst produce one extra update,
// never a duplicate row.
type VotesRepository struct {
	db *pgxpool.Pool
}

// NewVotesRepository creates a new votes repository.
func NewVotesRepository(db *pgxpool.Pool) *VotesRepository {
	return &VotesRepository{db: db}
}

// UpsertFeedback inserts a thumbs vote or, when a row already exists for
// (reference_type, reference_id, model), replaces its rating and bumps
// updated_at. The latest submission always wins.
func (r *VotesRepository) UpsertFeedback(ctx context.Context, req *models.SubmitFeedbackRequest) (*models.Feedback, error) {
	query := `
		INSERT INTO feedback (reference_type, reference_id, model, rating)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (reference_type, reference_id, model)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = now()
		RETURNING id, reference_type, reference_id, model, rating, created_at, updated_at
	`

	var fb models.Feedback

	err := r.db.QueryRow(ctx, query,
		req.ReferenceType, req.ReferenceID, req.Model, req.Rating,
	).Scan(
		&fb.ID, &fb.ReferenceType, &fb.ReferenceID, &fb.Model, &fb.Rating, &fb.CreatedAt, &fb.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert feedback: %w", err)
	}

	return &fb, nil
}

// UpsertComparison inserts a pairwise vote or, when a row already exists for
// (reference_type, reference_id), replaces its winner and bumps updated_at.
func (r *VotesRepository) UpsertComparison(ctx context.Context, req *models.SubmitComparisonRequest) (*models.Comparison, error) {
	query := `
		INSERT INTO comparisons (reference_type, reference_id, winner)
		VALUES ($1, $2, $3)
		ON CONFLICT (reference_type, reference_id)
		DO UPDATE SET winner = EXCLUDED.winner, updated_at = now()
		RETURNING id, reference_type, reference_id, winner, created_at, updated_at
	`

	var cmp models.Comparison

	err := r.db.QueryRow(ctx, query,
		req.ReferenceType, req.ReferenceID, req.Winner,
	).Scan(
		&cmp.ID, &cmp.ReferenceType, &cmp.ReferenceID, &cmp.Winner, &cmp.CreatedAt, &cmp.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert comparison: %w", err)
	}

	return &cmp, nil
}

// ListFeedback returns all feedback votes for aggregation.
func (r *VotesRepository) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, reference_type, reference_id, model, rating, created_at, updated_at
		FROM feedback
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var votes []models.Feedback
	for rows.Next() {
		var fb models.Feedback
		if err := rows.Scan(&fb.ID, &fb.ReferenceType, &fb.ReferenceID, &fb.Model, &fb.Rating, &fb.CreatedAt, &fb.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		votes = append(votes, fb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback: %w", err)
	}

	return votes, nil
}

// ListComparisons returns all comparison votes for aggregation.
func (r *VotesRepository) ListComparisons(ctx context.Context) ([]models.Comparison, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, reference_type, reference_id, winner, created_at, updated_at
		FROM comparisons
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list comparisons: %w", err)
	}
	defer rows.Close()

	var votes []models.Comparison
	for rows.Next() {
		var cmp models.Comparison
		if err := rows.Scan(&cmp.ID, &cmp.ReferenceType, &cmp.ReferenceID, &cmp.Winner, &cmp.CreatedAt, &cmp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}
		votes = append(votes, cmp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comparisons: %w", err)
	}

	return votes, nil
}
