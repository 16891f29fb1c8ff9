package sqlite

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"textrag/internal/domain"
	"textrag/internal/vectorstore"
)

// Store keeps chunk embeddings in one relational table per dataset, with the
// embedding encoded as a BLOB. Similarity search is a brute-force cosine scan
// over the dataset table, which is adequate for the corpus sizes this
// application handles.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) a SQLite database at path and returns a
// store backed by it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps in-memory databases coherent and avoids
	// SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing database handle.
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite: db is nil")
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// EnsureDataset creates the dataset's chunk table if it does not exist.
func (s *Store) EnsureDataset(ctx context.Context, dataset string) error {
	id, err := ParseIdentifier(dataset)
	if err != nil {
		return err
	}
	schema := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL,
    chunk_id TEXT NOT NULL,
    idx INTEGER NOT NULL,
    content TEXT NOT NULL,
    embedding BLOB NOT NULL
);`, id.Table())
	_, err = s.db.ExecContext(ctx, schema)
	return err
}

// Upsert inserts chunks with their embeddings into the dataset table. The row
// key is a hash of the chunk text, so re-importing identical content is a
// silent no-op.
func (s *Store) Upsert(ctx context.Context, dataset string, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("sqlite: chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	id, err := ParseIdentifier(dataset)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	insert := fmt.Sprintf(`INSERT OR IGNORE INTO %s (id, document_id, chunk_id, idx, content, embedding) VALUES (?, ?, ?, ?, ?, ?)`, id.Table())
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, ch := range chunks {
		if _, err := stmt.ExecContext(ctx, hashText(ch.Text), ch.DocumentID, ch.ChunkID, ch.Index, ch.Text, EncodeEmbedding(vectors[i])); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Search scans the dataset table and returns the topK chunks ranked by cosine
// similarity to the query vector, best first. Rows whose stored embedding
// cannot be compared to the query (dimension mismatch, zero magnitude) are
// skipped.
func (s *Store) Search(ctx context.Context, dataset string, vector []float32, topK int) ([]domain.SearchResult, error) {
	id, err := ParseIdentifier(dataset)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 5
	}

	query := fmt.Sprintf(`SELECT document_id, chunk_id, idx, content, embedding FROM %s`, id.Table())
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var ch domain.Chunk
		var blob []byte
		if err := rows.Scan(&ch.DocumentID, &ch.ChunkID, &ch.Index, &ch.Text, &blob); err != nil {
			return nil, err
		}
		emb, err := DecodeEmbedding(blob)
		if err != nil {
			return nil, err
		}
		score, err := vectorstore.CosineSimilarity(emb, vector)
		if err != nil {
			continue
		}
		results = append(results, domain.SearchResult{Chunk: ch, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// DeleteDataset drops the dataset table. Dropping a dataset that does not
// exist is not an error.
func (s *Store) DeleteDataset(ctx context.Context, dataset string) error {
	id, err := ParseIdentifier(dataset)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, id.Table()))
	return err
}

func hashText(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:])
}

var _ vectorstore.Storage = (*Store)(nil)
