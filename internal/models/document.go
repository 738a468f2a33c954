package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded document with its extracted plain text.
// Immutable after creation except for ChunkCount, which is set once
// ingestion (segmentation + embedding) completes.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	TextContent string    `json:"text_content"`
	CharCount   int       `json:"char_count"`
	ChunkCount  *int      `json:"chunk_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Chunk is one retrieval unit of a document: a bounded text span with its
// embedding vector. Chunks are written in a single batch per document and
// never mutated; they are deleted only by document cascade.
type Chunk struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	ChunkIndex int       `json:"chunk_index"`
	Text       string    `json:"text"`
	Embedding  []float32 `json:"embedding,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateDocumentRequest carries the fields needed to persist a new document.
type CreateDocumentRequest struct {
	Filename    string `json:"filename"`
	TextContent string `json:"text_content"`
}

// IngestResult reports the outcome of segmenting and embedding a document.
type IngestResult struct {
	DocumentID uuid.UUID `json:"document_id"`
	ChunkCount int       `json:"chunk_count"`
}
