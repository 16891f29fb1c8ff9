package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"textrag/internal/domain"
	"textrag/internal/vectorstore"
)

// FallbackAnswer is returned to the user when the completion service fails;
// the failure is logged, not propagated.
const FallbackAnswer = "Sorry, I could not generate an answer right now. Please try again later."

// RAG orchestrates the import and question-answering flows over the chunker,
// the embedder, the vector store and the completion client.
type RAG struct {
	chunker   domain.Chunker
	embedder  domain.Embedder
	store     vectorstore.Storage
	completer domain.Completer
	topK      int
}

func NewRAG(chunker domain.Chunker, embedder domain.Embedder, store vectorstore.Storage, completer domain.Completer, topK int) *RAG {
	if topK <= 0 {
		topK = 5
	}
	return &RAG{chunker: chunker, embedder: embedder, store: store, completer: completer, topK: topK}
}

// Import chunks the text, embeds each chunk and stores it in the dataset.
// Individual chunk failures (embedding or storage) are logged and counted
// instead of aborting the batch, so a flaky downstream still yields a
// partially imported document.
func (s *RAG) Import(ctx context.Context, dataset, name, text string) (domain.ImportReport, error) {
	doc := domain.Document{ID: uuid.NewString(), Name: name, Content: text}
	chunks, err := s.chunker.Chunk(doc)
	if err != nil {
		return domain.ImportReport{}, fmt.Errorf("chunk document: %w", err)
	}
	report := domain.ImportReport{Chunks: len(chunks)}
	if len(chunks) == 0 {
		return report, nil
	}
	if err := s.store.EnsureDataset(ctx, dataset); err != nil {
		return report, err
	}
	for _, ch := range chunks {
		vec, err := s.embedder.Embed(ctx, ch.Text)
		if err != nil {
			log.Printf("embed chunk %s: %v", ch.ChunkID, err)
			report.Failed++
			continue
		}
		if err := s.store.Upsert(ctx, dataset, []domain.Chunk{ch}, [][]float32{vec}); err != nil {
			log.Printf("store chunk %s: %v", ch.ChunkID, err)
			report.Failed++
			continue
		}
		report.Succeeded++
	}
	return report, nil
}

// Ask embeds the question, retrieves the closest chunks from the dataset and
// asks the completion model with a context-augmented prompt. Every retrieved
// chunk is included as context; no similarity cutoff is applied.
func (s *RAG) Ask(ctx context.Context, dataset, question string, topK int) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, fmt.Errorf("empty question")
	}
	if topK <= 0 {
		topK = s.topK
	}
	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("embed question: %w", err)
	}
	sources, err := s.store.Search(ctx, dataset, vec, topK)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("search dataset %q: %w", dataset, err)
	}
	text, err := s.completer.Complete(ctx, buildPrompt(question, sources))
	if err != nil {
		log.Printf("completion: %v", err)
		return domain.Answer{Text: FallbackAnswer, Sources: sources}, nil
	}
	return domain.Answer{Text: text, Sources: sources}, nil
}

// DropDataset removes a dataset and everything stored in it.
func (s *RAG) DropDataset(ctx context.Context, dataset string) error {
	return s.store.DeleteDataset(ctx, dataset)
}

func buildPrompt(question string, sources []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString("Answer the question using only the context below.\n\nContext:\n")
	if len(sources) == 0 {
		b.WriteString("(no matching documents)\n")
	}
	for i, r := range sources {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, r.Chunk.Text)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer:")
	return b.String()
}
