package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ecetin/invoice-audit/constants"
	"github.com/ecetin/invoice-audit/internal/common"
	"github.com/ecetin/invoice-audit/internal/export"
	"github.com/ecetin/invoice-audit/internal/extract"
	"github.com/ecetin/invoice-audit/internal/llm"
	"github.com/ecetin/invoice-audit/internal/llm/ollama"
	"github.com/ecetin/invoice-audit/internal/pipeline"
	"github.com/ecetin/invoice-audit/internal/recon"
	"github.com/ecetin/invoice-audit/internal/storage"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir             = flag.String("dir", "", "directory of invoice PDFs to process (required)")
		out             = flag.String("out", "", "output directory for JSON artifacts (default: config OUTPUT_DIR)")
		groundTruthPath = flag.String("ground-truth", "", "JSON file mapping artifact filename to expected PO numbers")
		dbPath          = flag.String("db", "", "run-history SQLite path (default: config DB_PATH, \"off\" disables)")
		xlsxPath        = flag.String("xlsx", "", "run-summary XLSX path (default: config XLSX_PATH, \"off\" disables)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *out != "" {
		cfg.Output.Dir = *out
	}
	if *dbPath != "" {
		cfg.Output.DBPath = *dbPath
	}
	if *xlsxPath != "" {
		cfg.Output.XLSXPath = *xlsxPath
	}

	groundTruth, err := pipeline.LoadGroundTruth(*groundTruthPath)
	if err != nil {
		logger.Error("failed to load ground truth", "path", *groundTruthPath, "error", err)
		os.Exit(1)
	}
	logger.Info("ground truth loaded", "documents", len(groundTruth))

	// Run history is best-effort; a broken DB path degrades, not aborts.
	var store *storage.RunStore
	if cfg.Output.DBPath != "off" {
		store, err = storage.NewRunStore(cfg.Output.DBPath)
		if err != nil {
			logger.Warn("run history disabled", "path", cfg.Output.DBPath, "error", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	client := ollama.NewClient(ollama.Config{
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, logger)
	logger.Info("completion client initialized", "url", cfg.LLM.BaseURL, "model", cfg.LLM.Model)

	analyzer := llm.NewAnalyzer(client, llm.AnalyzerConfig{
		Temperature:   cfg.LLM.Temperature,
		TopP:          cfg.LLM.TopP,
		RepeatPenalty: cfg.LLM.RepeatPenalty,
		Seed:          cfg.LLM.Seed,
		MaxRetries:    cfg.LLM.MaxRetries,
	}, logger)

	selector := extract.NewSelector(cfg.OCR, extract.NewRunner(), logger)

	reconciler := recon.New(recon.Thresholds{
		PriceAccuracy:   cfg.Recon.PriceAccuracyThreshold,
		POAccuracy:      cfg.Recon.POAccuracyThreshold,
		SeverityPercent: cfg.Recon.SeverityDeviationPct,
		HealthWeight:    cfg.Recon.PenaltyWeight,
		AnomalyPenalty:  int(cfg.Recon.AnomalyPenaltyPerItem),
		AnomalyCap:      int(cfg.Recon.AnomalyPenaltyCap),
	}, logger)

	processor := pipeline.NewProcessor(selector, analyzer, reconciler, store, groundTruth, cfg.Output, logger)

	outcomes, err := processor.ProcessDir(ctx, *dir)
	if err != nil {
		logger.Error("failed to process directory", "dir", *dir, "error", err)
		os.Exit(1)
	}

	processed := 0
	failures := 0
	rows := make([]export.SummaryRow, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Status == constants.RunStatusReconciled {
			processed++
		} else {
			failures++
		}
		rows = append(rows, export.SummaryRow{
			Filename:    o.Filename,
			PDFType:     string(o.PDFType),
			Method:      o.Method,
			Pages:       o.Pages,
			Status:      o.Status,
			HealthScore: o.HealthScore,
			PriceStatus: passFail(o.PricePass),
			POStatus:    passFail(o.POPass),
			Error:       o.Error,
		})
	}

	if cfg.Output.XLSXPath != "off" && len(rows) > 0 {
		xlsxBytes, err := export.SummaryXLSX(rows, logger)
		if err != nil {
			logger.Error("failed to build summary workbook", "error", err)
		} else if err := os.WriteFile(cfg.Output.XLSXPath, xlsxBytes, 0o644); err != nil {
			logger.Error("failed to write summary workbook", "path", cfg.Output.XLSXPath, "error", err)
		}
	}

	logger.Info("batch processing complete",
		"documents", len(outcomes),
		"processed", processed,
		"failures", failures,
		"output_dir", cfg.Output.Dir,
	)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Documents: %d\n", len(outcomes))
	fmt.Printf("- Processed: %d\n", processed)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Output: %s\n", cfg.Output.Dir)
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}
