package embeddings

import "context"

// Client defines the interface for generating text embeddings.
type Client interface {
	// Embed generates an embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embedding vectors for multiple texts in one call.
	// More efficient than calling Embed per text; a whole document's chunks
	// are embedded this way to bound outbound requests.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
