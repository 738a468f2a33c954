package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/docduel/docduel/internal/errors"
	"github.com/docduel/docduel/internal/models"
)

// fakeDocumentsRepo is an in-memory DocumentsRepository.
type fakeDocumentsRepo struct {
	mu                sync.Mutex
	docs              map[uuid.UUID]*models.Document
	updateChunkCounts map[uuid.UUID]int
	createErr         error
}

func newFakeDocumentsRepo() *fakeDocumentsRepo {
	return &fakeDocumentsRepo{
		docs:              make(map[uuid.UUID]*models.Document),
		updateChunkCounts: make(map[uuid.UUID]int),
	}
}

func (f *fakeDocumentsRepo) add(doc *models.Document) *models.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	f.docs[doc.ID] = doc
	return doc
}

func (f *fakeDocumentsRepo) Create(_ context.Context, req *models.CreateDocumentRequest) (*models.Document, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.add(&models.Document{
		Filename:    req.Filename,
		TextContent: req.TextContent,
		CharCount:   len(req.TextContent),
	}), nil
}

func (f *fakeDocumentsRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("document", "")
	}
	return doc, nil
}

func (f *fakeDocumentsRepo) UpdateChunkCount(_ context.Context, id uuid.UUID, chunkCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return apperrors.NewNotFoundError("document", "")
	}
	f.updateChunkCounts[id] = chunkCount
	return nil
}

// fakeChunksRepo is an in-memory ChunksRepository.
type fakeChunksRepo struct {
	mu        sync.Mutex
	byDoc     map[uuid.UUID][]models.Chunk
	insertErr error
}

func newFakeChunksRepo() *fakeChunksRepo {
	return &fakeChunksRepo{byDoc: make(map[uuid.UUID][]models.Chunk)}
}

func (f *fakeChunksRepo) InsertBatch(_ context.Context, chunks []models.Chunk) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range chunks {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		f.byDoc[c.DocumentID] = append(f.byDoc[c.DocumentID], c)
	}
	return nil
}

func (f *fakeChunksRepo) ListByDocument(_ context.Context, documentID uuid.UUID) ([]models.Chunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byDoc[documentID], nil
}

func (f *fakeChunksRepo) CountByDocument(_ context.Context, documentID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byDoc[documentID]), nil
}

// fakeSummariesRepo is an in-memory SummariesRepository.
type fakeSummariesRepo struct {
	mu   sync.Mutex
	rows []models.Summary
}

func (f *fakeSummariesRepo) Insert(_ context.Context, s *models.Summary) (*models.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := *s
	row.ID = uuid.New()
	f.rows = append(f.rows, row)
	return &row, nil
}

func (f *fakeSummariesRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			out := row
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFoundError("summary", "")
}

func (f *fakeSummariesRepo) ListByDocument(_ context.Context, documentID uuid.UUID) ([]models.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Summary
	for _, row := range f.rows {
		if row.DocumentID == documentID {
			out = append(out, row)
		}
	}
	return out, nil
}

// fakeQueriesRepo is an in-memory QueriesRepository.
type fakeQueriesRepo struct {
	mu   sync.Mutex
	rows []models.Query
}

func (f *fakeQueriesRepo) Insert(_ context.Context, q *models.Query) (*models.Query, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := *q
	row.ID = uuid.New()
	f.rows = append(f.rows, row)
	return &row, nil
}

func (f *fakeQueriesRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Query, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			out := row
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFoundError("query", "")
}

// fakeVotesRepo records upserts keyed the way the storage layer would.
type fakeVotesRepo struct {
	mu          sync.Mutex
	feedback    map[string]models.Feedback
	comparisons map[string]models.Comparison
}

func newFakeVotesRepo() *fakeVotesRepo {
	return &fakeVotesRepo{
		feedback:    make(map[string]models.Feedback),
		comparisons: make(map[string]models.Comparison),
	}
}

func (f *fakeVotesRepo) UpsertFeedback(_ context.Context, req *models.SubmitFeedbackRequest) (*models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := req.ReferenceType + "/" + req.ReferenceID.String() + "/" + req.Model
	fb, ok := f.feedback[key]
	if !ok {
		fb = models.Feedback{
			ID:            uuid.New(),
			ReferenceType: req.ReferenceType,
			ReferenceID:   req.ReferenceID,
			Model:         req.Model,
		}
	}
	fb.Rating = req.Rating
	f.feedback[key] = fb
	return &fb, nil
}

func (f *fakeVotesRepo) UpsertComparison(_ context.Context, req *models.SubmitComparisonRequest) (*models.Comparison, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := req.ReferenceType + "/" + req.ReferenceID.String()
	cmp, ok := f.comparisons[key]
	if !ok {
		cmp = models.Comparison{
			ID:            uuid.New(),
			ReferenceType: req.ReferenceType,
			ReferenceID:   req.ReferenceID,
		}
	}
	cmp.Winner = req.Winner
	f.comparisons[key] = cmp
	return &cmp, nil
}

// fakeEmbedder is a deterministic embeddings.Client for service tests.
type fakeEmbedder struct {
	mu         sync.Mutex
	embedCalls int
	batchCalls int
	dim        int
	err        error
}

func (f *fakeEmbedder) vector(text string) []float32 {
	dim := f.dim
	if dim == 0 {
		dim = 4
	}
	v := make([]float32, dim)
	for i, r := range text {
		v[i%dim] += float32(r)
	}
	return v
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.embedCalls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.vector(text), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.batchCalls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vector(t)
	}
	return out, nil
}
