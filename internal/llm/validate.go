package llm

import (
	"fmt"

	"github.com/ecetin/invoice-audit/internal/common"
)

// Validate checks the structured invoice's required shape: all six top-level
// groups present, line_items a sequence, and the three totals numeric. It
// reports the first violation found.
func Validate(inv Invoice) (bool, string) {
	for _, key := range RequiredKeys {
		if _, ok := inv[key]; !ok {
			return false, fmt.Sprintf("missing key: %s", key)
		}
	}

	if _, ok := inv["line_items"].([]any); !ok {
		return false, "line_items must be an array"
	}

	totals, ok := inv["total_details"].(map[string]any)
	if !ok {
		return false, "total_details must be an object"
	}
	for _, key := range []string{"total", "subtotal"} {
		if _, ok := common.ToFloat(totals[key]); !ok {
			return false, fmt.Sprintf("total_details.%s must be numeric", key)
		}
	}
	vatKey, found := VATKey(totals)
	if !found {
		return false, "total_details is missing a vat entry"
	}
	if _, ok := common.ToFloat(totals[vatKey]); !ok {
		return false, fmt.Sprintf("total_details.%q must be numeric", vatKey)
	}

	return true, "valid"
}
