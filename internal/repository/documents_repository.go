// Package repository provides pgx-based data access for documents, chunks,
// generated responses, and votes.
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

// DocumentsRepository handles data access for documents.
type DocumentsRepository struct {
	db *pgxpool.Pool
}

// NewDocumentsRepository creates a new documents repository.
func NewDocumentsRepository(db *pgxpool.Pool) *DocumentsRepository {
	return &DocumentsRepository{db: db}
}

// Create inserts a new document.
func (r *DocumentsRepository) Create(ctx context.Context, req *models.CreateDocumentRequest) (*models.Document, error) {
	query := `
		INSERT INTO documents (filename, text_content, char_count)
		VALUES ($1, $2, $3)
		RETURNING id, filename, text_content, char_count, chunk_count, created_at
	`

	var doc models.Document

	err := r.db.QueryRow(ctx, query,
		req.Filename, req.TextContent, len(req.TextContent),
	).Scan(
		&doc.ID, &doc.Filename, &doc.TextContent, &doc.CharCount, &doc.ChunkCount, &doc.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	return &doc, nil
}

// GetByID retrieves a single document by ID.
func (r *DocumentsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := `
		SELECT id, filename, text_content, char_count, chunk_count, created_at
		FROM documents
		WHERE id = $1
	`

	var doc models.Document

	err := r.db.QueryRow(ctx, query, id).Scan(
		&doc.ID, &doc.Filename, &doc.TextContent, &doc.CharCount, &doc.ChunkCount, &doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("document", "")
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return &doc, nil
}

// UpdateChunkCount annotates the document with its chunk count after
// segmentation completes. This is the only mutation documents ever receive.
func (r *DocumentsRepository) UpdateChunkCount(ctx context.Context, id uuid.UUID, chunkCount int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE documents SET chunk_count = $2 WHERE id = $1`,
		id, chunkCount,
	)
	if err != nil {
		return fmt.Errorf("failed to update chunk count: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("document", "")
	}

	return nil
}

// List returns all documents, newest first. Text content is omitted; the
// stats aggregator only needs metadata and timestamps.
func (r *DocumentsRepository) List(ctx context.Context) ([]models.Document, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, filename, '', char_count, chunk_count, created_at
		FROM documents
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.TextContent, &doc.CharCount, &doc.ChunkCount, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

// ListIDsWithoutChunks returns IDs of documents that have no chunk rows yet,
// so a backfill run can re-ingest them.
func (r *DocumentsRepository) ListIDsWithoutChunks(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT d.id FROM documents d
		WHERE NOT EXISTS (
			SELECT 1 FROM chunks c WHERE c.document_id = d.id
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents without chunks: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan document id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate document ids: %w", err)
	}

	return ids, nil
}
