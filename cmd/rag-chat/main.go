package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"textrag/internal/chunker"
	completion "textrag/internal/completion/openai"
	"textrag/internal/config"
	embedding "textrag/internal/embedding/openai"
	"textrag/internal/service"
	"textrag/internal/tui"
	"textrag/internal/vectorstore"
	"textrag/internal/vectorstore/memory"
	"textrag/internal/vectorstore/sqlite"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, dataset string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/textrag/config.yaml if not provided)")
	flag.StringVar(&dataset, "dataset", "default", "Dataset to import into and ask against")
	flag.Parse()
	inputs := flag.Args()

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

	ctx := context.Background()
	for _, pattern := range inputs {
		matches, _ := filepath.Glob(pattern)
		if matches == nil {
			matches = []string{pattern}
		}
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Fatalf("read %s: %v", path, err)
			}
			report, err := svc.Import(ctx, dataset, filepath.Base(path), string(data))
			if err != nil {
				log.Fatalf("import %s: %v", path, err)
			}
			fmt.Printf("imported %s: %d chunks (%d ok, %d failed)\n", path, report.Chunks, report.Succeeded, report.Failed)
		}
	}

	m := tui.New(svc, dataset)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
