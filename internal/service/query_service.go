package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/docduel/docduel/internal/embeddings"
	apperrors "github.com/docduel/docduel/internal/errors"
	"github.com/docduel/docduel/internal/models"
	"github.com/docduel/docduel/internal/retrieval"
)

// QueriesRepository defines the interface for query data access.
type QueriesRepository interface {
	Insert(ctx context.Context, q *models.Query) (*models.Query, error)
}

const defaultTopK = 5

// QueryService answers questions about a document with retrieval-augmented
// generation: embed the question, rank the document's chunks by similarity,
// and send the top-K as context to both providers.
type QueryService struct {
	docs       DocumentsRepository
	chunks     ChunksRepository
	queries    QueriesRepository
	embedder   embeddings.Client
	ranker     retrieval.Ranker
	dual       *DualGenerator
	topK       int
	queryCache *lru.Cache[string, []float32]
	loadGroup  singleflight.Group
	logger     *slog.Logger
}

// QueryServiceParams configures QueryService. QueryCache may be nil (no caching).
type QueryServiceParams struct {
	Docs       DocumentsRepository
	Chunks     ChunksRepository
	Queries    QueriesRepository
	Embedder   embeddings.Client
	Ranker     retrieval.Ranker
	TopK       int
	Dual       *DualGenerator
	QueryCache *lru.Cache[string, []float32]
	Logger     *slog.Logger
}

// NewQueryService creates a query service.
func NewQueryService(p QueryServiceParams) *QueryService {
	ranker := p.Ranker
	if ranker == nil {
		ranker = retrieval.CosineRanker{}
	}

	topK := p.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QueryService{
		docs:       p.Docs,
		chunks:     p.Chunks,
		queries:    p.Queries,
		embedder:   p.Embedder,
		ranker:     ranker,
		dual:       p.Dual,
		topK:       topK,
		queryCache: p.QueryCache,
		logger:     logger,
	}
}

// Ask runs the RAG pipeline for one question and persists the exchange.
// A document that has no chunks yet yields a NotProcessedError ("run
// ingestion first"), not a generic failure.
func (s *QueryService) Ask(ctx context.Context, documentID uuid.UUID, question string) (*models.Query, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperrors.NewValidationError("question", "question is required")
	}

	if _, err := s.docs.GetByID(ctx, documentID); err != nil {
		return nil, err
	}

	docChunks, err := s.chunks.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if len(docChunks) == 0 {
		return nil, apperrors.NewNotProcessedError("document",
			"document has no chunks yet; run ingestion before querying")
	}

	questionEmbedding, err := s.embedQuestion(ctx, question)
	if err != nil {
		return nil, apperrors.NewUpstreamError("embeddings", err)
	}

	candidates := make([]retrieval.Candidate, len(docChunks))
	for i, c := range docChunks {
		candidates[i] = retrieval.Candidate{ID: c.ID, Text: c.Text, Vector: c.Embedding}
	}

	relevant := s.ranker.TopK(questionEmbedding, candidates, s.topK)

	userPrompt := buildQueryPrompt(relevant, question)

	result, err := s.dual.GenerateBoth(ctx, querySystemPrompt, userPrompt, defaultMaxTokens)
	if err != nil {
		return nil, err
	}

	chunksUsed := make([]models.ChunkRef, len(relevant))
	for i, c := range relevant {
		chunksUsed[i] = models.ChunkRef{ID: c.ID, Score: c.Score}
	}

	stored, err := s.queries.Insert(ctx, &models.Query{
		DocumentID:      documentID,
		Question:        question,
		ClaudeResponse:  result.Claude.Content,
		ClaudeLatencyMs: result.Claude.LatencyMs,
		OpenAIResponse:  result.OpenAI.Content,
		OpenAILatencyMs: result.OpenAI.LatencyMs,
		ChunksUsed:      chunksUsed,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("query answered",
		"document_id", documentID,
		"query_id", stored.ID,
		"chunks_used", len(chunksUsed),
		"claude_latency_ms", result.Claude.LatencyMs,
		"openai_latency_ms", result.OpenAI.LatencyMs,
	)

	return stored, nil
}

// embedQuestion returns the question embedding, serving repeats from the LRU
// cache. Concurrent misses for the same question are collapsed into one
// provider call via singleflight.
func (s *QueryService) embedQuestion(ctx context.Context, question string) ([]float32, error) {
	if s.queryCache == nil {
		return s.embedder.Embed(ctx, question)
	}

	if cached, ok := s.queryCache.Get(question); ok {
		return cached, nil
	}

	v, err, _ := s.loadGroup.Do(question, func() (any, error) {
		if cached, ok := s.queryCache.Get(question); ok {
			return cached, nil
		}

		embedding, err := s.embedder.Embed(ctx, question)
		if err != nil {
			return nil, err
		}

		s.queryCache.Add(question, embedding)

		return embedding, nil
	})
	if err != nil {
		return nil, err
	}

	embedding, ok := v.([]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected cache value type %T", v)
	}

	return embedding, nil
}
