package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ecetin/invoice-audit/internal/llm"
)

func TestGenerateSendsOptionsAndReturnsResponse(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"response": `{"ok": true}`})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "mistral:7b-instruct"}, nil)
	got, err := client.Generate(context.Background(), "extract this invoice", llm.GenerateOptions{
		Temperature:   0.1,
		TopP:          0.9,
		RepeatPenalty: 1.1,
		Seed:          1764,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != `{"ok": true}` {
		t.Fatalf("Generate() = %q", got)
	}

	if captured["model"] != "mistral:7b-instruct" {
		t.Fatalf("model = %v", captured["model"])
	}
	if captured["stream"] != false {
		t.Fatalf("stream = %v", captured["stream"])
	}
	if captured["prompt"] == "" {
		t.Fatal("prompt missing from payload")
	}
	opts, ok := captured["options"].(map[string]any)
	if !ok {
		t.Fatalf("options = %#v", captured["options"])
	}
	if opts["seed"] != float64(1764) {
		t.Fatalf("seed = %v", opts["seed"])
	}
	if opts["temperature"] != 0.1 || opts["top_p"] != 0.9 || opts["repeat_penalty"] != 1.1 {
		t.Fatalf("options = %#v", opts)
	}
}

func TestGenerateNon2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, nil)
	_, err := client.Generate(context.Background(), "prompt", llm.GenerateOptions{Seed: 42})
	if err == nil {
		t.Fatal("Generate() succeeded on 404")
	}
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %T, want *HTTPStatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", statusErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Fatalf("err = %q, want the body included", err)
	}
}

func TestGenerateMissingResponseField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"done": true})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, nil)
	_, err := client.Generate(context.Background(), "prompt", llm.GenerateOptions{Seed: 42})
	if err == nil || !strings.Contains(err.Error(), "missing response field") {
		t.Fatalf("err = %v, want missing response field", err)
	}
}

func TestGenerateContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(Config{BaseURL: server.URL}, nil)
	if _, err := client.Generate(ctx, "prompt", llm.GenerateOptions{}); err == nil {
		t.Fatal("Generate() succeeded with a cancelled context")
	}
}
