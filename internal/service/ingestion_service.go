package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/docduel/docduel/internal/embeddings"
	apperrors "github.com/docduel/docduel/internal/errors"
	"github.com/docduel/docduel/internal/models"
	"github.com/docduel/docduel/internal/segment"
)

// DocumentsRepository defines the interface for document data access.
type DocumentsRepository interface {
	Create(ctx context.Context, req *models.CreateDocumentRequest) (*models.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	UpdateChunkCount(ctx context.Context, id uuid.UUID, chunkCount int) error
}

// ChunksRepository defines the interface for chunk data access.
type ChunksRepository interface {
	InsertBatch(ctx context.Context, chunks []models.Chunk) error
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]models.Chunk, error)
	CountByDocument(ctx context.Context, documentID uuid.UUID) (int, error)
}

// IngestionService owns the document ingestion flow: persisting uploaded
// text, segmenting it, embedding all chunks in one batched call, and
// annotating the document with its chunk count.
type IngestionService struct {
	docs      DocumentsRepository
	chunks    ChunksRepository
	embedder  embeddings.Client
	chunkSize int
	overlap   int
	logger    *slog.Logger
}

// NewIngestionService creates an ingestion service. chunkSize and overlap
// fall back to the segmenter defaults when non-positive.
func NewIngestionService(docs DocumentsRepository, chunks ChunksRepository, embedder embeddings.Client, chunkSize, overlap int, logger *slog.Logger) *IngestionService {
	if chunkSize <= 0 {
		chunkSize = segment.DefaultSize
	}
	if overlap <= 0 {
		overlap = segment.DefaultOverlap
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &IngestionService{
		docs:      docs,
		chunks:    chunks,
		embedder:  embedder,
		chunkSize: chunkSize,
		overlap:   overlap,
		logger:    logger,
	}
}

// CreateDocument persists a new document from extracted plain text.
func (s *IngestionService) CreateDocument(ctx context.Context, filename, textContent string) (*models.Document, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, apperrors.NewValidationError("filename", "filename is required")
	}
	if strings.TrimSpace(textContent) == "" {
		return nil, apperrors.NewValidationError("text_content", "document text is empty")
	}

	return s.docs.Create(ctx, &models.CreateDocumentRequest{
		Filename:    filename,
		TextContent: textContent,
	})
}

// GetDocument retrieves a document by ID.
func (s *IngestionService) GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	return s.docs.GetByID(ctx, id)
}

// Ingest segments the document, embeds every chunk in a single batched call,
// stores the chunk rows, and records the chunk count on the document.
// Re-running ingestion for a document that already has chunks is rejected;
// chunks are immutable once written.
func (s *IngestionService) Ingest(ctx context.Context, documentID uuid.UUID) (*models.IngestResult, error) {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.chunks.CountByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperrors.NewValidationError("document_id", "document has already been ingested")
	}

	segments, err := segment.Segment(doc.TextContent, s.chunkSize, s.overlap)
	if err != nil {
		return nil, fmt.Errorf("segment document: %w", err)
	}
	if len(segments) == 0 {
		return nil, apperrors.NewValidationError("text_content", "document produced no chunks")
	}

	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}

	// One batched embedding call per document bounds outbound requests.
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, apperrors.NewUpstreamError("embeddings", err)
	}

	rows := make([]models.Chunk, len(segments))
	for i, seg := range segments {
		rows[i] = models.Chunk{
			DocumentID: documentID,
			ChunkIndex: seg.Index,
			Text:       seg.Text,
			Embedding:  vectors[i],
		}
	}

	if err := s.chunks.InsertBatch(ctx, rows); err != nil {
		return nil, err
	}

	if err := s.docs.UpdateChunkCount(ctx, documentID, len(rows)); err != nil {
		return nil, err
	}

	s.logger.Info("document ingested",
		"document_id", documentID,
		"chunks", len(rows),
		"chars", doc.CharCount,
	)

	return &models.IngestResult{DocumentID: documentID, ChunkCount: len(rows)}, nil
}
