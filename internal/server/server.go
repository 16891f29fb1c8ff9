package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"textrag/internal/domain"
)

// RAGPort is the HTTP-facing subset of the RAG service.
type RAGPort interface {
	Import(ctx context.Context, dataset, name, text string) (domain.ImportReport, error)
	Ask(ctx context.Context, dataset, question string, topK int) (domain.Answer, error)
	DropDataset(ctx context.Context, dataset string) error
}

// Server exposes the RAG service as a JSON HTTP API.
type Server struct {
	svc     RAGPort
	handler http.Handler
}

func New(svc RAGPort) *Server {
	s := &Server{svc: svc}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/datasets/{dataset}/documents", s.handleImport)
	mux.HandleFunc("POST /api/datasets/{dataset}/ask", s.handleAsk)
	mux.HandleFunc("DELETE /api/datasets/{dataset}", s.handleDrop)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	s.handler = withCORS(mux)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.handler.ServeHTTP(w, r)
	log.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "POST, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type importRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

type importResponse struct {
	Chunks    int `json:"chunks"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	dataset := r.PathValue("dataset")
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "missing 'text' field")
		return
	}
	report, err := s.svc.Import(r.Context(), dataset, req.Name, req.Text)
	if err != nil {
		log.Printf("import into %s: %v", dataset, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, importResponse{
		Chunks:    report.Chunks,
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
	})
}

type askRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
}

type askResponse struct {
	Answer  string       `json:"answer"`
	Sources []sourceJSON `json:"sources"`
}

type sourceJSON struct {
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
	DocumentID string  `json:"document_id"`
	ChunkID    string  `json:"chunk_id"`
	Index      int     `json:"index"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	dataset := r.PathValue("dataset")
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "missing 'question' field")
		return
	}
	ans, err := s.svc.Ask(r.Context(), dataset, req.Question, req.TopK)
	if err != nil {
		log.Printf("ask %s: %v", dataset, err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	resp := askResponse{Answer: ans.Text, Sources: make([]sourceJSON, 0, len(ans.Sources))}
	for _, src := range ans.Sources {
		resp.Sources = append(resp.Sources, sourceJSON{
			Text:       src.Chunk.Text,
			Score:      src.Score,
			DocumentID: src.Chunk.DocumentID,
			ChunkID:    src.Chunk.ChunkID,
			Index:      src.Chunk.Index,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	dataset := r.PathValue("dataset")
	if err := s.svc.DropDataset(r.Context(), dataset); err != nil {
		log.Printf("drop %s: %v", dataset, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
