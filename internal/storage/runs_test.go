package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ecetin/invoice-audit/constants"
)

func TestRunStoreRecordAndList(t *testing.T) {
	store, err := NewRunStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("NewRunStore() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	first := Run{
		Filename:    "invoice_001.pdf",
		PDFType:     constants.PDFTypeTextBased,
		Method:      constants.MethodPdftotext,
		Pages:       2,
		Status:      constants.RunStatusReconciled,
		HealthScore: 100,
		PricePass:   true,
		POPass:      true,
	}
	second := Run{
		Filename: "scan_002.pdf",
		PDFType:  constants.PDFTypeScannedImage,
		Method:   constants.MethodOCR,
		Status:   constants.RunStatusFailed,
		Error:    "invoice analysis failed after 3 attempts",
	}
	if err := store.Record(ctx, first); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := store.Record(ctx, second); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}

	// Most recent first.
	if runs[0].Filename != "scan_002.pdf" || runs[1].Filename != "invoice_001.pdf" {
		t.Fatalf("order = %q, %q", runs[0].Filename, runs[1].Filename)
	}
	if runs[1].Status != constants.RunStatusReconciled || !runs[1].PricePass || !runs[1].POPass {
		t.Fatalf("run = %#v", runs[1])
	}
	if runs[0].Error == "" {
		t.Fatal("failed run lost its error message")
	}
	if runs[0].CreatedAt.IsZero() {
		t.Fatal("created_at not populated")
	}
}

func TestRunStoreReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(path)
	if err != nil {
		t.Fatalf("NewRunStore() error = %v", err)
	}
	if err := store.Record(context.Background(), Run{Filename: "a.pdf", Status: constants.RunStatusExtractOK}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	store.Close()

	reopened, err := NewRunStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	runs, err := reopened.ListRuns(context.Background())
	if err != nil || len(runs) != 1 {
		t.Fatalf("runs = %v, err %v", runs, err)
	}
}
