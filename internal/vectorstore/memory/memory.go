package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"textrag/internal/domain"
	"textrag/internal/vectorstore"
)

// Storage is an in-memory vector store with brute-force cosine search,
// useful for tests and zero-setup runs.
type Storage struct {
	mu       sync.RWMutex
	datasets map[string]*collection
}

type collection struct {
	chunks  []domain.Chunk
	vectors [][]float32
	seen    map[string]struct{}
}

func NewStorage() *Storage {
	return &Storage{datasets: make(map[string]*collection)}
}

func (s *Storage) EnsureDataset(ctx context.Context, dataset string) error {
	if dataset == "" {
		return fmt.Errorf("memory: empty dataset name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.datasets[dataset]; !ok {
		s.datasets[dataset] = &collection{seen: make(map[string]struct{})}
	}
	return nil
}

func (s *Storage) Upsert(ctx context.Context, dataset string, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("memory: chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.datasets[dataset]
	if !ok {
		return fmt.Errorf("memory: unknown dataset %q", dataset)
	}
	for i, ch := range chunks {
		if _, dup := col.seen[ch.Text]; dup {
			continue
		}
		col.seen[ch.Text] = struct{}{}
		col.chunks = append(col.chunks, ch)
		col.vectors = append(col.vectors, vectors[i])
	}
	return nil
}

func (s *Storage) Search(ctx context.Context, dataset string, vector []float32, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	col, ok := s.datasets[dataset]
	if !ok {
		return nil, fmt.Errorf("memory: unknown dataset %q", dataset)
	}
	var results []domain.SearchResult
	for i := range col.vectors {
		score, err := vectorstore.CosineSimilarity(col.vectors[i], vector)
		if err != nil {
			continue
		}
		results = append(results, domain.SearchResult{Chunk: col.chunks[i], Score: score})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

func (s *Storage) DeleteDataset(ctx context.Context, dataset string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.datasets, dataset)
	return nil
}

var _ vectorstore.Storage = (*Storage)(nil)
