package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ecetin/invoice-audit/constants"
)

func TestSummaryXLSX(t *testing.T) {
	rows := []SummaryRow{
		{
			Filename:    "invoice_001.pdf",
			PDFType:     string(constants.PDFTypeTextBased),
			Method:      constants.MethodPdftotext,
			Pages:       2,
			Status:      constants.RunStatusReconciled,
			HealthScore: 100,
			PriceStatus: "PASS",
			POStatus:    "PASS",
		},
		{
			Filename: "scan_002.pdf",
			PDFType:  string(constants.PDFTypeScannedImage),
			Method:   constants.MethodOCR,
			Status:   constants.RunStatusFailed,
			Error:    "invoice analysis failed after 3 attempts",
		},
	}

	data, err := SummaryXLSX(rows, nil)
	if err != nil {
		t.Fatalf("SummaryXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	const sheet = "Run Summary"
	got, err := f.GetCellValue(sheet, "A2")
	if err != nil || got != "invoice_001.pdf" {
		t.Fatalf("A2 = %q, err %v", got, err)
	}
	if got, _ := f.GetCellValue(sheet, "F2"); got != "100" {
		t.Fatalf("F2 health score = %q, want 100", got)
	}
	if got, _ := f.GetCellValue(sheet, "E3"); got != "FAILED" {
		t.Fatalf("E3 status = %q, want FAILED", got)
	}
	// No health score for a failed document.
	if got, _ := f.GetCellValue(sheet, "F3"); got != "" {
		t.Fatalf("F3 = %q, want empty", got)
	}
	if got, _ := f.GetCellValue(sheet, "I3"); got == "" {
		t.Fatal("I3 error column empty for failed document")
	}
}
