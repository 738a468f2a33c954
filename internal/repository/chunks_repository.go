package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/docduel/docduel/internal/models"
	"github.com/docduel/docduel/internal/retrieval"
)

// ChunksRepository handles data access for the chunks table.
type ChunksRepository struct {
	db *pgxpool.Pool
}

// NewChunksRepository creates a new chunks repository.
func NewChunksRepository(db *pgxpool.Pool) *ChunksRepository {
	return &ChunksRepository{db: db}
}

// InsertBatch writes all of a document's chunks in one batch. Chunks are
// created exactly once per document and never mutated afterwards.
func (r *ChunksRepository) InsertBatch(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range chunks {
		batch.Queue(`
			INSERT INTO chunks (document_id, chunk_index, text, embedding)
			VALUES ($1, $2, $3, $4)`,
			c.DocumentID, c.ChunkIndex, c.Text, pgvector.NewVector(c.Embedding),
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range chunks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert chunk batch: %w", err)
		}
	}

	return nil
}

// ListByDocument returns a document's chunks with embeddings, ordered by
// chunk index. The vector column round-trips the exact dimensionality used
// at embedding time.
func (r *ChunksRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]models.Chunk, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, document_id, chunk_index, text, embedding, created_at
		FROM chunks
		WHERE document_id = $1
		ORDER BY chunk_index
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.Chunk
	for rows.Next() {
		var (
			c   models.Chunk
			vec pgvector.Vector
		)
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.ChunkIndex, &c.Text, &vec, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		c.Embedding = vec.Slice()
		chunks = append(chunks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chunks: %w", err)
	}

	return chunks, nil
}

// CountByDocument returns the number of chunk rows for a document.
func (r *ChunksRepository) CountByDocument(ctx context.Context, documentID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM chunks WHERE document_id = $1`, documentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}

	return count, nil
}

// NearestChunks returns the k chunks of a document closest to the query
// embedding by cosine distance, using the pgvector operator. It is the
// index-backed alternative to the in-process linear ranker; both satisfy the
// same contract (descending similarity, k clamped by available rows).
func (r *ChunksRepository) NearestChunks(ctx context.Context, documentID uuid.UUID, queryEmbedding []float32, k int) ([]retrieval.Scored, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, text, 1 - (embedding <=> $2) AS score
		FROM chunks
		WHERE document_id = $1
		ORDER BY embedding <=> $2, chunk_index
		LIMIT $3
	`, documentID, pgvector.NewVector(queryEmbedding), k)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearest chunks: %w", err)
	}
	defer rows.Close()

	var scored []retrieval.Scored
	for rows.Next() {
		var s retrieval.Scored
		if err := rows.Scan(&s.ID, &s.Text, &s.Score); err != nil {
			return nil, fmt.Errorf("failed to scan nearest chunk: %w", err)
		}
		scored = append(scored, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate nearest chunks: %w", err)
	}

	return scored, nil
}
