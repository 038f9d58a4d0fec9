package llm

import "strings"

// promptTemplate instructs the model to emit the six-group invoice JSON.
// {invoice_text} is replaced with the raw extracted document text.
const promptTemplate = `You are an invoice parser. Read the invoice text below and return ONLY a JSON object, with no explanation before or after it.

The JSON object must contain exactly these top-level keys:
- "supplier_details": object with the supplier's name, address, and contact fields found on the invoice
- "invoice_details": object with invoice number, invoice date, due date, and "po_number" (string, or null if no purchase order number is shown at invoice level)
- "bill_to_details": object with the billed party's name and address
- "line_items": array of objects, each with "item_name" (string), "quantity" (number), "unit_price" (number), "total_price" (number), and "po_number" (string or null)
- "total_details": object with numeric "subtotal", a VAT entry whose key names the rate like "vat (20%)", and numeric "total"
- "payment_terms": object with the payment terms and bank details found on the invoice

Rules:
- Copy numbers exactly as printed; do not recompute them.
- Use null for values that are not present.
- Purchase order numbers look like "PO-123456".

Invoice text:
{invoice_text}`

// BuildPrompt substitutes the extracted invoice text into the fixed template.
func BuildPrompt(invoiceText string) string {
	return strings.ReplaceAll(promptTemplate, "{invoice_text}", invoiceText)
}
