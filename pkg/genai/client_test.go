package genai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/talentscout/screener/internal/config"
	"github.com/talentscout/screener/pkg/genai"
)

// writeSequence writes each object as a JSON line and flushes; simulates the
// model server's streaming responses.
func writeSequence(w http.ResponseWriter, seq []map[string]any) {
	enc := json.NewEncoder(w)
	for _, obj := range seq {
		_ = enc.Encode(obj)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

func testConfig(baseURL string) config.GenAIConfig {
	return config.GenAIConfig{
		BaseURL:                 baseURL,
		Model:                   "m",
		Timeout:                 2 * time.Second,
		Retries:                 2,
		Backoff:                 5 * time.Millisecond,
		CircuitFailureThreshold: 10,
		CircuitReset:            time.Second,
	}
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := genai.NewClient(config.GenAIConfig{BaseURL: "::bad::"}, nil)
	if err == nil {
		t.Fatalf("expected error for invalid base url")
	}
}

func TestClient_Generate_ConcatenatesStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		writeSequence(w, []map[string]any{
			{"response": "Hello, ", "done": false},
			{"response": "world", "done": true},
		})
	}))
	defer srv.Close()

	client, err := genai.NewClient(testConfig(srv.URL), srv.Client())
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	out, err := client.Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if out != "Hello, world" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestClient_Generate_RetriesThenSucceeds(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			http.Error(w, "temporary", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		writeSequence(w, []map[string]any{{"response": "ok", "done": true}})
	}))
	defer srv.Close()

	client, err := genai.NewClient(testConfig(srv.URL), srv.Client())
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	out, err := client.Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("expected success after retry, got: %v", err)
	}
	if out != "ok" {
		t.Fatalf("unexpected output: %q", out)
	}
	if atomic.LoadInt32(&attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestClient_CircuitBreaker_Opens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "permanent", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Retries = 0
	cfg.CircuitFailureThreshold = 2
	cfg.CircuitReset = time.Minute

	client, err := genai.NewClient(cfg, srv.Client())
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.Generate(ctx, "p"); err == nil {
			t.Fatalf("expected failure on attempt %d", i)
		}
	}

	_, err = client.Generate(ctx, "p")
	if !errors.Is(err, genai.ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got: %v", err)
	}
}

func TestClient_Close_Idempotent(t *testing.T) {
	client, err := genai.NewDefaultClient(testConfig("http://localhost:11434"))
	if err != nil {
		t.Fatalf("NewDefaultClient error: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestRenderTemplate(t *testing.T) {
	out, err := genai.RenderTemplate("hello {{.Name}}", map[string]any{"Name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "hello Ada" {
		t.Fatalf("unexpected render output: %q", out)
	}
}

func TestRenderTemplate_BadTemplate(t *testing.T) {
	if _, err := genai.RenderTemplate("{{.Broken", nil); err == nil {
		t.Fatalf("expected parse error")
	}
}
