package constants

// PDFType classifies an input document before an extractor is chosen.
type PDFType string

// Stable values (these exact strings appear in exported JSON artifacts).
const (
	PDFTypeTextBased    PDFType = "text_based"
	PDFTypeScannedImage PDFType = "scanned_image"
	PDFTypeMixed        PDFType = "mixed" // unreadable/ambiguous; prefer the safest path
)

// Extraction method tags recorded on page content and results.
const (
	MethodGoPDF     = "gopdf"
	MethodPdftotext = "pdftotext"
	MethodOCR       = "ocr_tesseract"
)
