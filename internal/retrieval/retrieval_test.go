package retrieval

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score 1", func(t *testing.T) {
		v := []float32{0.3, -0.5, 0.8}
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	})

	t.Run("opposite vectors score -1", func(t *testing.T) {
		assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 2}, []float32{-1, -2}), 1e-9)
	})

	t.Run("zero vector scores exactly 0", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3}))
		assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2, 3}, []float32{0, 0, 0}))
	})

	t.Run("mismatched dimensions score exactly 0", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2}))
		assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	})

	t.Run("bounded for random vectors", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 100; i++ {
			a := randomVector(rng, 64)
			b := randomVector(rng, 64)
			s := CosineSimilarity(a, b)
			assert.GreaterOrEqual(t, s, -1.0-1e-9)
			assert.LessOrEqual(t, s, 1.0+1e-9)
		}
	})
}

func TestCosineRanker_TopK(t *testing.T) {
	ranker := CosineRanker{}

	candidates := []Candidate{
		{ID: uuid.New(), Text: "c0", Vector: []float32{1, 0, 0}},
		{ID: uuid.New(), Text: "c1", Vector: []float32{0.9, 0.1, 0}},
		{ID: uuid.New(), Text: "c2", Vector: []float32{0, 1, 0}},
		{ID: uuid.New(), Text: "c3", Vector: []float32{0.2, 0.3, 0.9}},
		{ID: uuid.New(), Text: "c4", Vector: []float32{0, 0, 1}},
	}

	t.Run("exact match ranks first with score 1", func(t *testing.T) {
		got := ranker.TopK(candidates[3].Vector, candidates, 1)
		require.Len(t, got, 1)
		assert.Equal(t, candidates[3].ID, got[0].ID)
		assert.InDelta(t, 1.0, got[0].Score, 1e-6)
	})

	t.Run("scores are non-increasing", func(t *testing.T) {
		got := ranker.TopK([]float32{1, 1, 1}, candidates, len(candidates))
		require.Len(t, got, len(candidates))
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
		}
	})

	t.Run("topK is a prefix of topK+1", func(t *testing.T) {
		query := []float32{0.4, 0.2, 0.7}
		for k := 1; k < len(candidates); k++ {
			smaller := ranker.TopK(query, candidates, k)
			larger := ranker.TopK(query, candidates, k+1)
			require.Len(t, larger, k+1)
			assert.Equal(t, smaller, larger[:k], "k=%d", k)
		}
	})

	t.Run("k larger than candidate count returns all", func(t *testing.T) {
		got := ranker.TopK([]float32{1, 0, 0}, candidates, 50)
		assert.Len(t, got, len(candidates))
	})

	t.Run("ties keep input order", func(t *testing.T) {
		dup := []Candidate{
			{ID: uuid.New(), Text: "first", Vector: []float32{1, 0}},
			{ID: uuid.New(), Text: "second", Vector: []float32{1, 0}},
			{ID: uuid.New(), Text: "third", Vector: []float32{2, 0}}, // same direction, same cosine
		}
		got := ranker.TopK([]float32{1, 0}, dup, 3)
		require.Len(t, got, 3)
		assert.Equal(t, "first", got[0].Text)
		assert.Equal(t, "second", got[1].Text)
		assert.Equal(t, "third", got[2].Text)
	})

	t.Run("empty candidates", func(t *testing.T) {
		assert.Empty(t, ranker.TopK([]float32{1}, nil, 5))
	})
}

func randomVector(rng *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = rng.Float32()*2 - 1
	}
	return v
}

func BenchmarkCosineRanker_TopK(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	candidates := make([]Candidate, 300)
	for i := range candidates {
		candidates[i] = Candidate{
			ID:     uuid.New(),
			Text:   fmt.Sprintf("chunk-%d", i),
			Vector: randomVector(rng, 1536),
		}
	}
	query := randomVector(rng, 1536)
	ranker := CosineRanker{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ranker.TopK(query, candidates, 5)
	}
}
