package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ecetin/invoice-audit/constants"
	"github.com/ecetin/invoice-audit/internal/common"
	"github.com/ecetin/invoice-audit/internal/export"
	"github.com/ecetin/invoice-audit/internal/extract"
	"github.com/ecetin/invoice-audit/internal/llm"
	"github.com/ecetin/invoice-audit/internal/recon"
	"github.com/ecetin/invoice-audit/internal/storage"
)

// Artifact subdirectories under the output root, one per pipeline stage.
const (
	rawOutputsDir      = "raw_ocr_outputs"
	analyzedOutputsDir = "analyzed_outputs"
	finalOutputsDir    = "final_outputs"
)

// ExtractorSelector picks the extractor variant for a document.
type ExtractorSelector interface {
	Select(ctx context.Context, path string) (extract.Extractor, constants.PDFType)
}

// InvoiceAnalyzer turns extracted text into a structured invoice.
type InvoiceAnalyzer interface {
	Analyze(ctx context.Context, invoiceText string) (llm.Invoice, error)
}

// Outcome is the per-document result of one pipeline run.
type Outcome struct {
	Filename    string
	PDFType     constants.PDFType
	Method      string
	Pages       int
	Status      constants.RunStatus
	HealthScore int
	PricePass   bool
	POPass      bool
	Error       string
}

// Processor drives one document through classify -> extract -> analyze ->
// reconcile, exporting a JSON artifact after each stage. A document's
// failure never escapes ProcessFile; it is reported in the Outcome so a
// batch run survives bad inputs.
type Processor struct {
	selector    ExtractorSelector
	analyzer    InvoiceAnalyzer
	reconciler  *recon.Reconciler
	store       *storage.RunStore
	groundTruth map[string][]string
	output      common.OutputConfig
	logger      *slog.Logger
}

// NewProcessor wires the pipeline stages. store may be nil to skip run
// history; groundTruth may be nil, treating every document as "no PO
// expected".
func NewProcessor(
	selector ExtractorSelector,
	analyzer InvoiceAnalyzer,
	reconciler *recon.Reconciler,
	store *storage.RunStore,
	groundTruth map[string][]string,
	output common.OutputConfig,
	logger *slog.Logger,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		selector:    selector,
		analyzer:    analyzer,
		reconciler:  reconciler,
		store:       store,
		groundTruth: groundTruth,
		output:      output,
		logger:      logger,
	}
}

// ProcessFile runs the full pipeline over one PDF.
func (p *Processor) ProcessFile(ctx context.Context, path string) Outcome {
	filename := filepath.Base(path)
	outcome := Outcome{Filename: filename, Status: constants.RunStatusFailed}

	p.logger.Info("pipeline.process.start", "filename", filename)

	extractor, pdfType := p.selector.Select(ctx, path)
	outcome.PDFType = pdfType

	result := extractor.Extract(ctx, path)
	outcome.Method = result.Method
	outcome.Pages = result.PageCount

	if _, err := export.WriteJSON(filepath.Join(p.output.Dir, rawOutputsDir), filename, result); err != nil {
		p.logger.Warn("pipeline.export.raw_failed", "filename", filename, "error", err)
	}

	if !result.Success {
		outcome.Error = result.Error
		p.logger.Error("pipeline.extract.failed", "filename", filename, "error", result.Error)
		p.record(ctx, outcome)
		return outcome
	}
	outcome.Status = constants.RunStatusExtractOK

	inv, err := p.analyzer.Analyze(ctx, result.Text)
	if err != nil {
		outcome.Status = constants.RunStatusFailed
		outcome.Error = err.Error()
		p.logger.Error("pipeline.analyze.failed", "filename", filename, "error", err)
		p.record(ctx, outcome)
		return outcome
	}

	if ok, reason := llm.Validate(inv); !ok {
		outcome.Status = constants.RunStatusInvalidJSON
		outcome.Error = reason
		p.logger.Error("pipeline.validate.failed", "filename", filename, "reason", reason)
		p.record(ctx, outcome)
		return outcome
	}
	outcome.Status = constants.RunStatusAnalyzed

	if _, err := export.WriteJSON(filepath.Join(p.output.Dir, analyzedOutputsDir), filename, inv); err != nil {
		p.logger.Warn("pipeline.export.analyzed_failed", "filename", filename, "error", err)
	}

	// Ground truth is keyed by the artifact name, not the source PDF.
	jsonName := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".json"
	enriched := p.reconciler.GenerateReport(inv, p.groundTruth[jsonName], jsonName)

	if _, err := export.WriteJSON(filepath.Join(p.output.Dir, finalOutputsDir), filename, enriched); err != nil {
		p.logger.Warn("pipeline.export.final_failed", "filename", filename, "error", err)
	}

	outcome.Status = constants.RunStatusReconciled
	if report, ok := enriched["validation_report"].(recon.Report); ok {
		outcome.HealthScore = report.Summary.HealthScore
		outcome.PricePass = report.Summary.PriceAccuracyStatus == "PASS"
		outcome.POPass = report.Summary.PODetectionStatus == "PASS"
	}

	p.logger.Info("pipeline.process.ok",
		"filename", filename,
		"pdf_type", string(pdfType),
		"method", result.Method,
		"pages", result.PageCount,
		"health_score", outcome.HealthScore,
	)
	p.record(ctx, outcome)
	return outcome
}

// ProcessDir runs the pipeline over every *.pdf in dir, in name order. One
// document's failure does not stop the batch.
func (p *Processor) ProcessDir(ctx context.Context, dir string) ([]Outcome, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var outcomes []Outcome
	for _, entry := range entries {
		if entry.IsDir() || !constants.IsPDFExt(filepath.Ext(entry.Name())) {
			continue
		}
		outcomes = append(outcomes, p.ProcessFile(ctx, filepath.Join(dir, entry.Name())))
	}

	p.logger.Info("pipeline.batch.done", "dir", dir, "documents", len(outcomes))
	return outcomes, nil
}

func (p *Processor) record(ctx context.Context, outcome Outcome) {
	if p.store == nil {
		return
	}
	run := storage.Run{
		Filename:    outcome.Filename,
		PDFType:     outcome.PDFType,
		Method:      outcome.Method,
		Pages:       outcome.Pages,
		Status:      outcome.Status,
		HealthScore: outcome.HealthScore,
		PricePass:   outcome.PricePass,
		POPass:      outcome.POPass,
		Error:       outcome.Error,
	}
	if err := p.store.Record(ctx, run); err != nil {
		p.logger.Warn("pipeline.history.record_failed", "filename", outcome.Filename, "error", err)
	}
}
