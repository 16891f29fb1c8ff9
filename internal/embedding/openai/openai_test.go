package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("TEST_EMBED_KEY", "test-key")
	c, err := NewClient(Config{BaseURL: srv.URL, APIKeyEnv: "TEST_EMBED_KEY"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestEmbedDiscoverDimension(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	})
	if c.Dimension() != 0 {
		t.Fatalf("dimension before first embed = %d, want 0", c.Dimension())
	}
	vec, err := c.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("vector length = %d, want 3", len(vec))
	}
	if c.Dimension() != 3 {
		t.Errorf("dimension = %d, want 3", c.Dimension())
	}
}

func TestEmbedConcurrent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"embedding":[1,0,0,0]}]}`))
	})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vec, err := c.Embed(context.Background(), "concurrent text")
			if err != nil {
				t.Errorf("embed: %v", err)
				return
			}
			if len(vec) != 4 {
				t.Errorf("vector length = %d, want 4", len(vec))
			}
		}()
	}
	wg.Wait()
	if c.Dimension() != 4 {
		t.Errorf("dimension = %d, want 4", c.Dimension())
	}
}

func TestEmbedOllamaShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embedding":[0.5,0.5]}`))
	})
	vec, err := c.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vec) != 2 || c.Dimension() != 2 {
		t.Errorf("vector length = %d, dimension = %d, want 2/2", len(vec), c.Dimension())
	}
}
