package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"textrag/internal/chunker"
	completion "textrag/internal/completion/openai"
	"textrag/internal/config"
	embedding "textrag/internal/embedding/openai"
	"textrag/internal/server"
	"textrag/internal/service"
	"textrag/internal/vectorstore"
	"textrag/internal/vectorstore/memory"
	"textrag/internal/vectorstore/sqlite"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/textrag/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Assemble components
	var store vectorstore.Storage
	switch cfg.Store.Type {
	case "sqlite", "":
		st, err := sqlite.Open(cfg.Store.SQLite.Path)
		if err != nil {
			log.Fatalf("open sqlite store: %v", err)
		}
		defer st.Close()
		store = st
	case "memory":
		store = memory.NewStorage()
	default:
		log.Fatalf("unknown store type: %s", cfg.Store.Type)
	}

	embedder, err := embedding.NewClient(embedding.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}

	completer, err := completion.NewClient(completion.Config{
		BaseURL:     cfg.Completion.BaseURL,
		APIKeyEnv:   cfg.Completion.APIKeyEnv,
		Model:       cfg.Completion.Model,
		MaxTokens:   cfg.Completion.MaxTokens,
		Temperature: cfg.Completion.Temperature,
		Timeout:     time.Duration(cfg.Completion.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("completer init failed: %v", err)
	}

	svc := service.NewRAG(
		chunker.NewTextChunker(cfg.Chunker.MaxCharLength),
		embedder,
		store,
		completer,
		cfg.Retrieval.TopK,
	)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(svc),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Print("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
