package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/docduel/docduel/internal/errors"
	"github.com/docduel/docduel/internal/models"
)

// QueriesRepository handles data access for the queries table.
type QueriesRepository struct {
	db *pgxpool.Pool
}

// NewQueriesRepository creates a new queries repository.
func NewQueriesRepository(db *pgxpool.Pool) *QueriesRepository {
	return &QueriesRepository{db: db}
}

const queryColumns = `id, document_id, question, claude_response, claude_latency_ms, openai_response, openai_latency_ms, chunks_used, created_at`

// Insert stores one RAG question exchange (both providers' answers together).
func (r *QueriesRepository) Insert(ctx context.Context, q *models.Query) (*models.Query, error) {
	chunksUsed, err := json.Marshal(q.ChunksUsed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chunks used: %w", err)
	}

	query := `
		INSERT INTO queries (document_id, question, claude_response, claude_latency_ms, openai_response, openai_latency_ms, chunks_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + queryColumns

	row := r.db.QueryRow(ctx, query,
		q.DocumentID, q.Question, q.ClaudeResponse, q.ClaudeLatencyMs,
		q.OpenAIResponse, q.OpenAILatencyMs, chunksUsed,
	)

	out, err := scanQuery(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert query: %w", err)
	}

	return out, nil
}

// GetByID retrieves a single query exchange by ID.
func (r *QueriesRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Query, error) {
	row := r.db.QueryRow(ctx, `SELECT `+queryColumns+` FROM queries WHERE id = $1`, id)

	out, err := scanQuery(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("query", "")
		}
		return nil, fmt.Errorf("failed to get query: %w", err)
	}

	return out, nil
}

// List returns all query exchanges for aggregation.
func (r *QueriesRepository) List(ctx context.Context) ([]models.Query, error) {
	rows, err := r.db.Query(ctx, `SELECT `+queryColumns+` FROM queries ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	defer rows.Close()

	var queries []models.Query
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan query: %w", err)
		}
		queries = append(queries, *q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate queries: %w", err)
	}

	return queries, nil
}

func scanQuery(row pgx.Row) (*models.Query, error) {
	var (
		q          models.Query
		chunksUsed []byte
	)

	if err := row.Scan(
		&q.ID, &q.DocumentID, &q.Question, &q.ClaudeResponse, &q.ClaudeLatencyMs,
		&q.OpenAIResponse, &q.OpenAILatencyMs, &chunksUsed, &q.CreatedAt,
	); err != nil {
		return nil, err
	}

	if len(chunksUsed) > 0 {
		if err := json.Unmarshal(chunksUsed, &q.ChunksUsed); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chunks used: %w", err)
		}
	}

	return &q, nil
}
