package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/docduel/docduel/internal/errors"
	"github.com/docduel/docduel/internal/models"
)

// SummariesRepository handles data access for the summaries table.
type SummariesRepository struct {
	db *pgxpool.Pool
}

// NewSummariesRepository creates a new summaries repository.
func NewSummariesRepository(db *pgxpool.Pool) *SummariesRepository {
	return &SummariesRepository{db: db}
}

const summaryColumns = `id, document_id, model, content, latency_ms, input_tokens, output_tokens, truncated, created_at`

// Insert stores one provider's summary for a document.
func (r *SummariesRepository) Insert(ctx context.Context, s *models.Summary) (*models.Summary, error) {
	query := `
		INSERT INTO summaries (document_id, model, content, latency_ms, input_tokens, output_tokens, truncated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + summaryColumns

	var out models.Summary

	err := r.db.QueryRow(ctx, query,
		s.DocumentID, s.Model, s.Content, s.LatencyMs, s.InputTokens, s.OutputTokens, s.Truncated,
	).Scan(
		&out.ID, &out.DocumentID, &out.Model, &out.Content, &out.LatencyMs,
		&out.InputTokens, &out.OutputTokens, &out.Truncated, &out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert summary: %w", err)
	}

	return &out, nil
}

// GetByID retrieves a single summary by ID.
func (r *SummariesRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Summary, error) {
	var out models.Summary

	err := r.db.QueryRow(ctx,
		`SELECT `+summaryColumns+` FROM summaries WHERE id = $1`, id,
	).Scan(
		&out.ID, &out.DocumentID, &out.Model, &out.Content, &out.LatencyMs,
		&out.InputTokens, &out.OutputTokens, &out.Truncated, &out.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("summary", "")
		}
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	return &out, nil
}

// ListByDocument returns the stored summaries for a document (at most one per provider).
func (r *SummariesRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]models.Summary, error) {
	return r.list(ctx, `SELECT `+summaryColumns+` FROM summaries WHERE document_id = $1 ORDER BY model`, documentID)
}

// List returns all summaries for aggregation.
func (r *SummariesRepository) List(ctx context.Context) ([]models.Summary, error) {
	return r.list(ctx, `SELECT `+summaryColumns+` FROM summaries ORDER BY created_at`)
}

func (r *SummariesRepository) list(ctx context.Context, query string, args ...any) ([]models.Summary, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.Summary
	for rows.Next() {
		var s models.Summary
		if err := rows.Scan(
			&s.ID, &s.DocumentID, &s.Model, &s.Content, &s.LatencyMs,
			&s.InputTokens, &s.OutputTokens, &s.Truncated, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summaries: %w", err)
	}

	return summaries, nil
}
