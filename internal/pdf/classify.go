package pdf

import (
	"log/slog"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/ecetin/invoice-audit/constants"
)

// minEmbeddedTextChars is the amount of trimmed text on a single page that
// marks a document as text-based.
const minEmbeddedTextChars = 50

// maxProbePages limits how many leading pages are inspected.
const maxProbePages = 3

// DetectType inspects up to the first 3 pages of a PDF and classifies it as
// text-based or scanned. Unreadable documents come back as mixed so the
// pipeline can pick the safest extraction path instead of failing.
func DetectType(path string, logger *slog.Logger) constants.PDFType {
	if logger == nil {
		logger = slog.Default()
	}

	f, reader, err := pdflib.Open(path)
	if err != nil {
		logger.Warn("pdf.classify.unreadable", "path", path, "error", err)
		return constants.PDFTypeMixed
	}
	defer f.Close()

	var texts []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages && i <= maxProbePages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, text)
	}

	return classifyPageTexts(texts)
}

// classifyPageTexts applies the embedded-text rule to already extracted page
// texts: any page with more than minEmbeddedTextChars of trimmed text makes
// the document text-based, otherwise it is treated as a scanned image.
func classifyPageTexts(texts []string) constants.PDFType {
	for _, t := range texts {
		if len(strings.TrimSpace(t)) > minEmbeddedTextChars {
			return constants.PDFTypeTextBased
		}
	}
	return constants.PDFTypeScannedImage
}
