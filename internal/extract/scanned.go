package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ecetin/invoice-audit/constants"
)

// ScannedExtractor rasterizes pages, preprocesses the images, and runs
// optical recognition, rebuilding paragraph structure from token geometry.
type ScannedExtractor struct {
	pdftoppm  string
	mutool    string
	tesseract string
	lang      string
	psm       int
	oem       int
	zoom      float64

	runner Runner
	logger *slog.Logger
}

// ScannedConfig carries the binaries and tuning for the OCR path.
type ScannedConfig struct {
	Pdftoppm  string
	Mutool    string
	Tesseract string
	Lang      string
	PSM       int
	OEM       int
	Zoom      float64
}

func NewScannedExtractor(cfg ScannedConfig, runner Runner, logger *slog.Logger) *ScannedExtractor {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Mutool == "" {
		cfg.Mutool = "mutool"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	if cfg.OEM <= 0 {
		cfg.OEM = 3
	}
	if cfg.Zoom <= 0 {
		cfg.Zoom = 2.0
	}
	if runner == nil {
		runner = NewRunner()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScannedExtractor{
		pdftoppm:  cfg.Pdftoppm,
		mutool:    cfg.Mutool,
		tesseract: cfg.Tesseract,
		lang:      cfg.Lang,
		psm:       cfg.PSM,
		oem:       cfg.OEM,
		zoom:      cfg.Zoom,
		runner:    runner,
		logger:    logger,
	}
}

func (s *ScannedExtractor) Extract(ctx context.Context, path string) Result {
	if err := validateFile(path); err != nil {
		return failure(err.Error())
	}

	tmpDir, err := os.MkdirTemp("", "ia-ocr-*")
	if err != nil {
		return failure(fmt.Sprintf("create temp dir: %v", err))
	}
	defer os.RemoveAll(tmpDir)

	s.logger.Debug("extract.ocr.start", "path", path, "zoom", s.zoom)

	images, rasterMethod, err := s.rasterize(ctx, path, tmpDir)
	if err != nil {
		return failure(fmt.Sprintf("rasterize: %v", err))
	}

	var pages []PageContent
	var full strings.Builder
	var warnings []string
	var confSum float64
	var confN int

	for i, imgPath := range images {
		ocrInput := s.preprocess(imgPath, tmpDir, i, &warnings)

		pageText, conf, err := s.recognize(ctx, ocrInput)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i+1, err))
			pageText = ""
		} else if conf > 0 {
			confSum += float64(conf)
			confN++
		}

		pages = append(pages, PageContent{
			PageNumber: i + 1,
			Text:       pageText,
			Tables:     TablesFromPageText(pageText),
			Method:     constants.MethodOCR,
		})
		full.WriteString(pageText)
		full.WriteString("\n")
	}

	var confidence float32
	if confN > 0 {
		confidence = float32(confSum / float64(confN))
	}

	s.logger.Info("extract.ocr.done",
		"path", path,
		"pages", len(pages),
		"raster", rasterMethod,
		"confidence", confidence,
	)

	return Result{
		Success:    true,
		Filename:   path,
		PDFType:    constants.PDFTypeScannedImage,
		Text:       full.String(),
		Pages:      pages,
		PageCount:  len(pages),
		Method:     constants.MethodOCR,
		Confidence: confidence,
		Warnings:   append(warnings, "raster: "+rasterMethod),
	}
}

// preprocess enhances a page image for recognition. Any failure falls back
// to the unprocessed image; a bad page never aborts the document.
func (s *ScannedExtractor) preprocess(imgPath, tmpDir string, pageIdx int, warnings *[]string) string {
	src, err := imaging.Open(imgPath)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("page %d: open image: %v", pageIdx+1, err))
		return imgPath
	}

	processed := PreprocessForOCR(src)
	out := filepath.Join(tmpDir, fmt.Sprintf("prep-%03d.png", pageIdx+1))
	if err := imaging.Save(processed, out); err != nil {
		*warnings = append(*warnings, fmt.Sprintf("page %d: save preprocessed: %v", pageIdx+1, err))
		return imgPath
	}
	return out
}

// recognize runs tesseract in TSV mode and rebuilds paragraphs from the
// word tokens.
func (s *ScannedExtractor) recognize(ctx context.Context, imgPath string) (string, float32, error) {
	// tesseract <img> stdout -l <lang> --psm 6 --oem 3 tsv
	args := []string{imgPath, "stdout", "-l", s.lang,
		"--psm", strconv.Itoa(s.psm), "--oem", strconv.Itoa(s.oem), "tsv"}
	out, errb, err := s.runner.Run(ctx, s.tesseract, args...)
	if err != nil {
		return "", 0, fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}

	tokens, conf := tokensFromTSV(string(out))
	return ReassembleParagraphs(tokens), conf, nil
}
