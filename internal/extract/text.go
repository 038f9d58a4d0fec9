package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/ecetin/invoice-audit/constants"
)

// TextExtractor reads native PDFs. It runs two independent backends over the
// same document and keeps the result whose aggregate text is longer; the
// outputs are never merged page by page.
type TextExtractor struct {
	pdftotext string
	runner    Runner
	logger    *slog.Logger
}

func NewTextExtractor(pdftotextBin string, runner Runner, logger *slog.Logger) *TextExtractor {
	if pdftotextBin == "" {
		pdftotextBin = "pdftotext"
	}
	if runner == nil {
		runner = NewRunner()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TextExtractor{pdftotext: pdftotextBin, runner: runner, logger: logger}
}

// backendResult is one backend's full read of the document.
type backendResult struct {
	Text      string
	Pages     []PageContent
	PageCount int
	Method    string
	Err       string
}

func (t *TextExtractor) Extract(ctx context.Context, path string) Result {
	if err := validateFile(path); err != nil {
		return failure(err.Error())
	}

	t.logger.Debug("extract.text.start", "path", path)

	goResult := t.readWithGoPDF(path)
	ptResult := t.readWithPdftotext(ctx, path)

	// Longer aggregate text wins; a tie keeps the second backend.
	final := ptResult
	if len(goResult.Text) > len(ptResult.Text) {
		final = goResult
	}

	var warnings []string
	for _, b := range []backendResult{goResult, ptResult} {
		if b.Err != "" {
			warnings = append(warnings, b.Method+": "+b.Err)
		}
	}

	t.logger.Info("extract.text.done",
		"path", path,
		"method", final.Method,
		"pages", final.PageCount,
		"bytes", len(final.Text),
	)

	return Result{
		Success:   true,
		Filename:  path,
		PDFType:   constants.PDFTypeTextBased,
		Text:      final.Text,
		Pages:     final.Pages,
		PageCount: final.PageCount,
		Method:    final.Method,
		Warnings:  warnings,
	}
}

// readWithGoPDF extracts text in-process. Per-page tables come from the
// library's native row grouping.
func (t *TextExtractor) readWithGoPDF(path string) backendResult {
	res := backendResult{Method: constants.MethodGoPDF}

	f, reader, err := pdflib.Open(path)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	defer f.Close()

	var full strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		pageText := ""
		var tables [][]string
		if !page.V.IsNull() {
			if text, err := page.GetPlainText(nil); err == nil {
				pageText = text
			}
			tables = nativeRowTable(page)
		}
		res.Pages = append(res.Pages, PageContent{
			PageNumber: i,
			Text:       pageText,
			Tables:     tables,
			Method:     constants.MethodGoPDF,
		})
		full.WriteString(pageText)
		full.WriteString("\n")
	}

	res.Text = full.String()
	res.PageCount = numPages
	return res
}

// nativeRowTable turns the backend's row geometry into a single candidate
// table of joined row strings. Row extraction errors yield no table.
func nativeRowTable(page pdflib.Page) [][]string {
	rows, err := page.GetTextByRow()
	if err != nil || len(rows) == 0 {
		return nil
	}
	var table []string
	for _, row := range rows {
		var words []string
		for _, word := range row.Content {
			if s := strings.TrimSpace(word.S); s != "" {
				words = append(words, s)
			}
		}
		if len(words) > 0 {
			table = append(table, strings.Join(words, " "))
		}
	}
	if len(table) == 0 {
		return nil
	}
	return [][]string{table}
}

// readWithPdftotext shells out to poppler. Pages arrive separated by form
// feeds; tables fall back to the blank-line-run heuristic.
func (t *TextExtractor) readWithPdftotext(ctx context.Context, path string) backendResult {
	res := backendResult{Method: constants.MethodPdftotext}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := t.runner.Run(ctx, t.pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		res.Err = strings.TrimSpace(string(errb))
		if res.Err == "" {
			res.Err = err.Error()
		}
		return res
	}

	pages := strings.Split(string(out), "\f")
	// pdftotext emits a trailing form feed after the last page
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}

	var full strings.Builder
	for i, pageText := range pages {
		res.Pages = append(res.Pages, PageContent{
			PageNumber: i + 1,
			Text:       pageText,
			Tables:     TablesFromPageText(pageText),
			Method:     constants.MethodPdftotext,
		})
		full.WriteString(pageText)
		full.WriteString("\n")
	}

	res.Text = full.String()
	res.PageCount = len(pages)
	return res
}

// validateFile rejects paths that do not exist or are not PDFs.
func validateFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("invalid file: %s", path)
	}
	if !constants.IsPDFExt(filepath.Ext(path)) {
		return fmt.Errorf("invalid file: %s", path)
	}
	return nil
}
