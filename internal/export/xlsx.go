package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ecetin/invoice-audit/constants"
)

// SummaryRow is one processed document in the run-summary workbook.
type SummaryRow struct {
	Filename    string
	PDFType     string
	Method      string
	Pages       int
	Status      constants.RunStatus
	HealthScore int
	PriceStatus string
	POStatus    string
	Error       string
}

// SummaryXLSX returns an XLSX workbook (as bytes) summarizing a batch run,
// one row per document.
func SummaryXLSX(rows []SummaryRow, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Run Summary"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Filename",
		"PDF Type",
		"Extraction Method",
		"Pages",
		"Status",
		"Health Score",
		"Price Check",
		"PO Check",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.Filename)
		write(2, r.PDFType)
		write(3, r.Method)
		write(4, r.Pages)
		write(5, string(r.Status))
		// Health score only means something once a report was produced.
		if r.Status == constants.RunStatusReconciled {
			write(6, r.HealthScore)
			write(7, r.PriceStatus)
			write(8, r.POStatus)
		}
		write(9, r.Error)
	}

	_ = f.SetColWidth(sheet, "A", "A", 36) // filename
	_ = f.SetColWidth(sheet, "B", "C", 18) // type, method
	_ = f.SetColWidth(sheet, "D", "F", 12) // pages, status, score
	_ = f.SetColWidth(sheet, "G", "H", 12) // pass/fail columns
	_ = f.SetColWidth(sheet, "I", "I", 60) // error

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
