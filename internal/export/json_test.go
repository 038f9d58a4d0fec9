package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "raw_outputs")

	path, err := WriteJSON(dir, "invoice_001.pdf", map[string]any{
		"success": true,
		"text":    "Total <= 100 & VAT",
	})
	if err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if filepath.Base(path) != "invoice_001.json" {
		t.Fatalf("path = %q, want invoice_001.json", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if decoded["success"] != true {
		t.Fatalf("decoded = %#v", decoded)
	}

	// Indented, and HTML-significant characters written verbatim.
	if !strings.Contains(string(raw), "\n    \"") {
		t.Fatalf("artifact not indented: %q", raw)
	}
	if !strings.Contains(string(raw), "<= 100 & VAT") {
		t.Fatalf("artifact escaped HTML characters: %q", raw)
	}
}

func TestWriteJSONStripsSourceDir(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteJSON(dir, "/somewhere/else/scan.PDF", map[string]any{})
	if err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if got := filepath.Base(path); got != "scan.json" {
		t.Fatalf("artifact name = %q, want scan.json", got)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("artifact dir = %q, want %q", filepath.Dir(path), dir)
	}
}
