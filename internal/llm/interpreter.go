package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// AnalyzerConfig carries the deterministic sampling setup and retry bound.
type AnalyzerConfig struct {
	Temperature   float64
	TopP          float64
	RepeatPenalty float64
	Seed          int64
	MaxRetries    int
}

// DefaultAnalyzerConfig mirrors the tuned production parameters: low
// randomness and a fixed seed, so identical inputs reproduce identical runs.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Temperature:   0.1,
		TopP:          0.9,
		RepeatPenalty: 1.1,
		Seed:          42,
		MaxRetries:    3,
	}
}

// Analyzer turns raw invoice text into a structured Invoice through the
// completion service, retrying transient failures with bounded attempts.
type Analyzer struct {
	client CompletionClient
	cfg    AnalyzerConfig
	logger *slog.Logger
}

func NewAnalyzer(client CompletionClient, cfg AnalyzerConfig, logger *slog.Logger) *Analyzer {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{client: client, cfg: cfg, logger: logger}
}

// seedEscalationFactor derives a fresh seed after a JSON-extraction failure
// so a deterministic retry does not reproduce the same malformed output.
const seedEscalationFactor = 42

// derivedSeed computes the attempt's seed from immutable state: the base
// seed and the number of prior JSON-extraction failures.
func derivedSeed(base int64, jsonFailures int) int64 {
	seed := base
	for i := 0; i < jsonFailures; i++ {
		seed *= seedEscalationFactor
	}
	return seed
}

// Analyze interprets extracted invoice text into a structured Invoice.
// Transport errors, malformed responses, and JSON-extraction failures all
// consume one attempt; a terminal error is returned only after every attempt
// is spent.
func (a *Analyzer) Analyze(ctx context.Context, invoiceText string) (Invoice, error) {
	reqID := uuid.New().String()
	prompt := BuildPrompt(invoiceText)

	jsonFailures := 0
	for attempt := 1; attempt <= a.cfg.MaxRetries; attempt++ {
		opts := GenerateOptions{
			Temperature:   a.cfg.Temperature,
			TopP:          a.cfg.TopP,
			RepeatPenalty: a.cfg.RepeatPenalty,
			Seed:          derivedSeed(a.cfg.Seed, jsonFailures),
		}

		a.logger.Info("llm.interpret.attempt",
			"req_id", reqID,
			"attempt", attempt,
			"max_retries", a.cfg.MaxRetries,
			"seed", opts.Seed,
			"text_len", len(invoiceText),
		)

		response, err := a.client.Generate(ctx, prompt, opts)
		if err != nil {
			a.logger.Warn("llm.interpret.attempt_failed",
				"req_id", reqID, "attempt", attempt, "error", err)
			continue
		}

		inv, err := ExtractJSON(response)
		if err != nil {
			jsonFailures++
			a.logger.Warn("llm.interpret.json_extraction_failed",
				"req_id", reqID, "attempt", attempt,
				"response_len", len(response), "error", err)
			continue
		}

		a.warnOnSchemaMismatch(reqID, inv)
		return inv, nil
	}

	return nil, fmt.Errorf("invoice analysis failed after %d attempts", a.cfg.MaxRetries)
}

// warnOnSchemaMismatch runs the strict schema over the accepted document.
// The lenient Validate pass decides acceptance; this only surfaces drift.
func (a *Analyzer) warnOnSchemaMismatch(reqID string, inv Invoice) {
	raw, err := json.Marshal(inv)
	if err != nil {
		return
	}
	if err := ValidateJSONAgainstSchema(BuildInvoiceJSONSchema(), raw); err != nil {
		a.logger.Warn("llm.interpret.schema_mismatch", "req_id", reqID, "error", err)
	}
}
