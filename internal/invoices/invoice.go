// Package invoices defines the invoice extraction schema and the
// rule-based validator applied to extracted invoice data.
package invoices

// Invoice is the structured data extracted from a document segment
// classified as an invoice. Only InvoiceID and the per-item ProductCode,
// Quantity, and Total are validated structurally; the remaining fields
// are carried through as extracted.
type Invoice struct {
	InvoiceID       string        `json:"invoice_id"`
	InvoiceDate     *string       `json:"invoice_date"`
	CustomerName    *string       `json:"customer_name"`
	CustomerAddress *string       `json:"customer_address"`
	Items           []InvoiceItem `json:"items"`
	Subtotal        *float64      `json:"subtotal"`
	TotalAmount     *float64      `json:"total_amount"`
}

// InvoiceItem is one line item of an invoice.
type InvoiceItem struct {
	ProductCode string   `json:"product_code"`
	Description *string  `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	Total       float64  `json:"total"`
}

// ExtractionPrompt is the instruction sent with the page images when
// extracting invoice data.
const ExtractionPrompt = `Extract the data from this invoice.
- If a value is not present, provide null.
- It is possible that there are multiple invoices in the same document across multiple pages.
- Some values must be inferred based on the content defined in the invoice.
- Dates should be in the format YYYY-MM-DD.`

// Schema returns the JSON-Schema constraining invoice extraction output,
// as a generic map passed to the provider and used for local validation.
func Schema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"product_code": map[string]any{"type": []string{"string", "null"}},
			"description":  map[string]any{"type": []string{"string", "null"}},
			"quantity":     map[string]any{"type": []string{"number", "null"}},
			"unit_price":   map[string]any{"type": []string{"number", "null"}},
			"total":        map[string]any{"type": []string{"number", "null"}},
		},
		"required": []string{"product_code", "quantity", "total"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"invoice_id":       map[string]any{"type": []string{"string", "null"}},
			"invoice_date":     map[string]any{"type": []string{"string", "null"}, "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"customer_name":    map[string]any{"type": []string{"string", "null"}},
			"customer_address": map[string]any{"type": []string{"string", "null"}},
			"items":            map[string]any{"type": "array", "items": item},
			"subtotal":         map[string]any{"type": []string{"number", "null"}},
			"total_amount":     map[string]any{"type": []string{"number", "null"}},
		},
		"required": []string{"invoice_id", "items"},
	}
}
