package extract

import (
	"context"

	"github.com/ecetin/invoice-audit/constants"
)

// PageContent is the extracted content of a single page. Tables are candidate
// tabular blocks: each table is an ordered list of row strings.
type PageContent struct {
	PageNumber int        `json:"page_number"`
	Text       string     `json:"text"`
	Tables     [][]string `json:"tables"`
	Method     string     `json:"method"`
}

// Result is the outcome of a document extraction. On failure Success is false
// and Error carries a description; no extractor lets a fault escape.
type Result struct {
	Success    bool              `json:"success"`
	Filename   string            `json:"filename,omitempty"`
	PDFType    constants.PDFType `json:"pdf_type,omitempty"`
	Text       string            `json:"text"`
	Pages      []PageContent     `json:"pages"`
	PageCount  int               `json:"pages_count"`
	Method     string            `json:"method,omitempty"`
	Confidence float32           `json:"confidence,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Extractor turns a PDF on disk into a Result. Implementations absorb input
// errors into a failure Result instead of letting them escape.
type Extractor interface {
	Extract(ctx context.Context, path string) Result
}

func failure(reason string) Result {
	return Result{Success: false, Error: reason}
}
