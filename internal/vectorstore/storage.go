package vectorstore

import (
	"context"

	"textrag/internal/domain"
)

// Storage persists chunk embeddings grouped into named datasets and supports
// similarity search within a dataset. Inserting a chunk whose text is already
// present in the dataset is a silent no-op.
type Storage interface {
	EnsureDataset(ctx context.Context, dataset string) error
	Upsert(ctx context.Context, dataset string, chunks []domain.Chunk, vectors [][]float32) error
	Search(ctx context.Context, dataset string, vector []float32, topK int) ([]domain.SearchResult, error)
	DeleteDataset(ctx context.Context, dataset string) error
}
