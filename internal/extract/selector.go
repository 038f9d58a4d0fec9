package extract

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/ecetin/invoice-audit/constants"
	"github.com/ecetin/invoice-audit/internal/common"
	pdfdoc "github.com/ecetin/invoice-audit/internal/pdf"
)

// Selector chooses an extractor for a document based on its classification.
// When a scanned document arrives but the OCR binary is unusable, it degrades
// to the text-based extractor rather than failing.
type Selector struct {
	cfg    common.OCRConfig
	runner Runner
	logger *slog.Logger
}

func NewSelector(cfg common.OCRConfig, runner Runner, logger *slog.Logger) *Selector {
	if runner == nil {
		runner = NewRunner()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{cfg: cfg, runner: runner, logger: logger}
}

// Select classifies the document and returns the extractor to run, along
// with the detected type for reporting.
func (s *Selector) Select(ctx context.Context, path string) (Extractor, constants.PDFType) {
	textExtractor := NewTextExtractor(s.cfg.Pdftotext, s.runner, s.logger)

	detected := pdfdoc.DetectType(path, s.logger)
	if detected == constants.PDFTypeTextBased {
		return textExtractor, detected
	}

	if !s.ProbeOCR(ctx) {
		s.logger.Warn("extract.select.ocr_unavailable",
			"path", path,
			"hint", "tesseract installation is required for the OCR feature; falling back to text-based extraction",
		)
		return textExtractor, detected
	}

	return NewScannedExtractor(ScannedConfig{
		Pdftoppm:  s.cfg.Pdftoppm,
		Mutool:    s.cfg.Mutool,
		Tesseract: s.cfg.Tesseract,
		Lang:      s.cfg.TesseractLang,
		PSM:       s.cfg.PSM,
		OEM:       s.cfg.OEM,
		Zoom:      s.cfg.Zoom,
	}, s.runner, s.logger), detected
}

// ProbeOCR verifies the recognition capability with a lightweight self-test:
// render a blank synthetic image and confirm tesseract accepts it.
func (s *Selector) ProbeOCR(ctx context.Context) bool {
	tmpDir, err := os.MkdirTemp("", "ia-probe-*")
	if err != nil {
		return false
	}
	defer os.RemoveAll(tmpDir)

	probe := image.NewNRGBA(image.Rect(0, 0, 100, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 100; x++ {
			probe.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	probePath := filepath.Join(tmpDir, "probe.png")
	if err := imaging.Save(probe, probePath); err != nil {
		return false
	}

	tesseract := s.cfg.Tesseract
	if tesseract == "" {
		tesseract = "tesseract"
	}
	_, _, err = s.runner.Run(ctx, tesseract, probePath, "stdout")
	return err == nil
}
