package domain

import "context"

// Document represents a single piece of text submitted for import.
type Document struct {
	ID      string
	Name    string
	Content string
}

// Chunk is a bounded-length part of a document used for indexing.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Text       string
	Index      int
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// ImportReport summarizes a batch import. Per-chunk failures are counted
// rather than aborting the batch, so Succeeded+Failed == Chunks.
type ImportReport struct {
	Chunks    int
	Succeeded int
	Failed    int
}

// Answer is the result of a question against a dataset: the completion text
// plus the retrieved chunks that were folded into the prompt.
type Answer struct {
	Text    string
	Sources []SearchResult
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Embedder converts free text into a numeric vector representation.
// Dimension may be unknown (zero) until the first successful Embed.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Completer produces a completion for a fully built prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
