package invoices

import (
	"fmt"

	"github.com/banerRana/docpipe/pkg/results"
)

// ActivityName identifies the invoice validation activity in workflow
// messages and persisted results.
const ActivityName = "ValidateInvoice"

// Result is the outcome of validating extracted invoice data: the
// workflow-style message accumulator plus a machine-readable status
// bitmask.
type Result struct {
	results.WorkflowResult
	Status ResultStatus `json:"status"`
}

// Validate applies the required-field rules to extracted invoice data.
// Every rule is evaluated; violations accumulate rather than
// short-circuit. The name labels the result, typically the source
// document blob name. Validate is pure and performs no I/O.
func Validate(name string, data *Invoice) *Result {
	result := &Result{
		WorkflowResult: *results.NewWorkflowResult(name),
		Status:         StatusUndetermined,
	}

	if data == nil {
		result.Status |= StatusFail
		result.AddError(ActivityName, "data is required")
		return result
	}

	if data.InvoiceID == "" {
		result.Status |= StatusInvoiceIDMissing
		result.AddError(ActivityName, "invoice_id is required")
	}

	validateItems(data, result)

	if result.IsValid {
		result.Status = StatusSuccess
	} else {
		result.Status |= StatusFail
	}

	return result
}

func validateItems(data *Invoice, result *Result) {
	if len(data.Items) == 0 {
		result.Status |= StatusItemsMissing
		result.AddError(ActivityName, "items is required")
		return
	}

	for i, item := range data.Items {
		if item.ProductCode == "" {
			result.Status |= StatusItemProductCodeMissing
			result.AddError(ActivityName, fmt.Sprintf("items[%d].product_code is required", i))
		}
		if item.Quantity == 0 {
			result.Status |= StatusItemQuantityMissing
			result.AddError(ActivityName, fmt.Sprintf("items[%d].quantity is required", i))
		}
		if item.Total == 0 {
			result.Status |= StatusItemTotalMissing
			result.AddError(ActivityName, fmt.Sprintf("items[%d].total is required", i))
		}
	}
}
