package llm

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// Invoice is the structured invoice JSON produced by the completion service.
// Keys stay loosely typed because the model controls the exact shape (the
// VAT entry in total_details carries its rate in the key name).
type Invoice map[string]any

// RequiredKeys are the six top-level groups every structured invoice carries.
var RequiredKeys = []string{
	"supplier_details",
	"invoice_details",
	"bill_to_details",
	"line_items",
	"total_details",
	"payment_terms",
}

// LineItems returns the invoice's line items as generic maps; entries of any
// other shape are skipped.
func (inv Invoice) LineItems() []map[string]any {
	raw, _ := inv["line_items"].([]any)
	items := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		if m, ok := it.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}

// TotalDetails returns the totals group, or an empty map when absent.
func (inv Invoice) TotalDetails() map[string]any {
	if m, ok := inv["total_details"].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// VATKey finds the totals key labeled with VAT, e.g. "vat (20%)".
func VATKey(totals map[string]any) (string, bool) {
	for k := range totals {
		if strings.Contains(strings.ToLower(k), "vat") {
			return k, true
		}
	}
	return "", false
}

var reVATRate = regexp.MustCompile(`\((\d+(?:\.\d+)?)%?\)`)

// ParseVATRate extracts the rate fraction from a VAT key name; a label
// without a parsable percentage defaults to 20%.
func ParseVATRate(key string) float64 {
	if m := reVATRate.FindStringSubmatch(key); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			return f / 100
		}
	}
	return 0.20
}

// GenerateOptions are the deterministic sampling parameters sent with every
// completion request.
type GenerateOptions struct {
	Temperature   float64
	TopP          float64
	RepeatPenalty float64
	Seed          int64
}

// CompletionClient is the opaque completion service the interpreter depends
// on. The response is the model's raw output, which may wrap the desired
// JSON payload in prose.
type CompletionClient interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}
