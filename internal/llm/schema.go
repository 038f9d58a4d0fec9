package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing the strict invoice shape. It is advisory: documents
// failing it still flow through the lenient Validate check, but the failure
// is logged for traceability.
func BuildInvoiceJSONSchema() map[string]any {
	lineItem := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"item_name":   map[string]any{"type": "string"},
			"quantity":    map[string]any{"type": "number"},
			"unit_price":  map[string]any{"type": "number"},
			"total_price": map[string]any{"type": "number"},
			"po_number":   map[string]any{"type": []any{"string", "null"}},
		},
		"required": []string{"quantity", "unit_price", "total_price"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"supplier_details": map[string]any{"type": "object"},
			"invoice_details":  map[string]any{"type": "object"},
			"bill_to_details":  map[string]any{"type": "object"},
			"line_items":       map[string]any{"type": "array", "items": lineItem},
			"total_details":    map[string]any{"type": "object"},
			"payment_terms":    map[string]any{"type": "object"},
		},
		"required": RequiredKeys,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
