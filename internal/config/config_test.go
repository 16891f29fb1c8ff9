package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q", cfg.Server.Addr)
	}
	if cfg.Store.Type != "sqlite" || cfg.Store.SQLite == nil || cfg.Store.SQLite.Path == "" {
		t.Errorf("default store = %+v", cfg.Store)
	}
	if cfg.Chunker.MaxCharLength != 4000 {
		t.Errorf("default max_char_length = %d", cfg.Chunker.MaxCharLength)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("default top_k = %d", cfg.Retrieval.TopK)
	}
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  addr: \":9000\"\nchunker:\n  max_char_length: 100\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q, want :9000", cfg.Server.Addr)
	}
	if cfg.Chunker.MaxCharLength != 100 {
		t.Errorf("max_char_length = %d, want 100", cfg.Chunker.MaxCharLength)
	}
	if cfg.Embedder.Model == "" || cfg.Completion.Model == "" {
		t.Errorf("client defaults not applied: %+v", cfg)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := defaultConfig()
	cfg.Server.Addr = ":7777"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Server.Addr != ":7777" {
		t.Errorf("round-trip addr = %q", loaded.Server.Addr)
	}
}
