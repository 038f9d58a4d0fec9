package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ecetin/invoice-audit/internal/llm"
)

// Client talks to an Ollama-compatible /api/generate endpoint. It implements
// llm.CompletionClient.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config carries the completion-service connection settings. The timeout is
// deliberately long: local models can take minutes on a large prompt.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "mistral:7b-instruct"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// HTTPStatusError is a non-2xx completion-service response.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("ollama generate status: %s", e.Status)
	}
	return fmt.Sprintf("ollama generate status: %s: %s", e.Status, strings.TrimSpace(e.Body))
}

// Generate performs one synchronous completion call and returns the model's
// raw response text.
func (c *Client) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	reqID := uuid.New().String()
	start := time.Now()

	payload := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature":    opts.Temperature,
			"top_p":          opts.TopP,
			"repeat_penalty": opts.RepeatPenalty,
			"seed":           opts.Seed,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("llm.http.request",
		"req_id", reqID,
		"model", c.model,
		"seed", opts.Seed,
		"content_length", len(body),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("llm.http.send_error",
			"req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("ollama generate request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<20))

	c.logger.Info("llm.http.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return "", &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}

	var decoded struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if decoded.Response == nil {
		return "", fmt.Errorf("unexpected response format: missing response field")
	}
	return *decoded.Response, nil
}
