// Package retrieval scores document chunks against a query embedding and
// selects the most relevant ones for prompt context.
package retrieval

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Candidate is a chunk considered for retrieval: its ID, text, and embedding.
type Candidate struct {
	ID     uuid.UUID
	Text   string
	Vector []float32
}

// Scored is a retrieved chunk with its similarity score.
type Scored struct {
	ID    uuid.UUID
	Text  string
	Score float64
}

// Ranker selects the top-k candidates for a query vector, ordered by
// descending relevance. The default is a linear cosine scan; an
// approximate-nearest-neighbor backend (e.g. a pgvector index query) can
// replace it without changing the contract.
type Ranker interface {
	TopK(query []float32, candidates []Candidate, k int) []Scored
}

// CosineRanker is the exhaustive O(N) ranker. N is chunks-per-document
// (low hundreds), so a scan beats maintaining an index.
type CosineRanker struct{}

var _ Ranker = CosineRanker{}

// TopK scores every candidate with cosine similarity and returns the k best
// in descending score order. Ties keep input order (stable sort). k is
// clamped to len(candidates); asking for more than exists is not an error.
func (CosineRanker) TopK(query []float32, candidates []Candidate, k int) []Scored {
	scored := make([]Scored, len(candidates))
	for i, c := range candidates {
		scored[i] = Scored{
			ID:    c.ID,
			Text:  c.Text,
			Score: CosineSimilarity(query, c.Vector),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	if k < 0 {
		k = 0
	}

	return scored[:k]
}

// CosineSimilarity returns dot(a,b) / (||a|| * ||b||). When either norm is
// zero the similarity is defined as 0 rather than an error, so zero vectors
// rank last instead of aborting retrieval. Vectors of unequal length get the
// same treatment: all embeddings share one fixed dimensionality, so a
// mismatch means a corrupt vector, which must never outrank a valid one.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}
