package invoices_test

import (
	"strings"
	"testing"

	"github.com/banerRana/docpipe/internal/invoices"
)

func ptr[T any](v T) *T { return &v }

func validInvoice() *invoices.Invoice {
	return &invoices.Invoice{
		InvoiceID:    "INV-1",
		InvoiceDate:  ptr("2024-01-15"),
		CustomerName: ptr("Contoso"),
		Items: []invoices.InvoiceItem{
			{ProductCode: "A1", Quantity: 2, UnitPrice: ptr(5.0), Total: 10},
		},
		TotalAmount: ptr(10.0),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		data       func() *invoices.Invoice
		wantValid  bool
		wantStatus invoices.ResultStatus
		wantMsgs   []string
	}{
		{
			name:       "valid invoice",
			data:       validInvoice,
			wantValid:  true,
			wantStatus: invoices.StatusSuccess,
		},
		{
			name:       "nil data",
			data:       func() *invoices.Invoice { return nil },
			wantValid:  false,
			wantStatus: invoices.StatusFail,
			wantMsgs:   []string{"data is required"},
		},
		{
			name: "missing invoice id",
			data: func() *invoices.Invoice {
				inv := validInvoice()
				inv.InvoiceID = ""
				return inv
			},
			wantValid:  false,
			wantStatus: invoices.StatusFail | invoices.StatusInvoiceIDMissing,
			wantMsgs:   []string{"invoice_id is required"},
		},
		{
			name: "missing items",
			data: func() *invoices.Invoice {
				inv := validInvoice()
				inv.Items = nil
				return inv
			},
			wantValid:  false,
			wantStatus: invoices.StatusFail | invoices.StatusItemsMissing,
			wantMsgs:   []string{"items is required"},
		},
		{
			name: "incomplete item accumulates every violation",
			data: func() *invoices.Invoice {
				inv := validInvoice()
				inv.Items = []invoices.InvoiceItem{{}}
				return inv
			},
			wantValid: false,
			wantStatus: invoices.StatusFail |
				invoices.StatusItemProductCodeMissing |
				invoices.StatusItemQuantityMissing |
				invoices.StatusItemTotalMissing,
			wantMsgs: []string{
				"items[0].product_code is required",
				"items[0].quantity is required",
				"items[0].total is required",
			},
		},
		{
			name: "violations on later items keep their index",
			data: func() *invoices.Invoice {
				inv := validInvoice()
				inv.Items = append(inv.Items, invoices.InvoiceItem{ProductCode: "B2", Quantity: 1})
				return inv
			},
			wantValid:  false,
			wantStatus: invoices.StatusFail | invoices.StatusItemTotalMissing,
			wantMsgs:   []string{"items[1].total is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := invoices.Validate("folder1/invoice.pdf", tt.data())

			if result.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v", result.IsValid, tt.wantValid)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", result.Status, tt.wantStatus)
			}
			if len(result.Messages) != len(tt.wantMsgs) {
				t.Fatalf("messages = %v, want %d entries", result.Messages, len(tt.wantMsgs))
			}
			for i, want := range tt.wantMsgs {
				if !strings.Contains(result.Messages[i], want) {
					t.Errorf("message %d = %q, want it to contain %q", i, result.Messages[i], want)
				}
			}
		})
	}
}

func TestValidateMessagePrefix(t *testing.T) {
	result := invoices.Validate("folder1/invoice.pdf", nil)

	want := "folder1/invoice.pdf::ValidateInvoice - data is required"
	if result.Messages[0] != want {
		t.Errorf("message = %q, want %q", result.Messages[0], want)
	}
}

func TestStatusHas(t *testing.T) {
	status := invoices.StatusFail | invoices.StatusItemsMissing

	if !status.Has(invoices.StatusFail) {
		t.Error("expected fail bit")
	}
	if !status.Has(invoices.StatusItemsMissing) {
		t.Error("expected items-missing bit")
	}
	if status.Has(invoices.StatusSuccess) {
		t.Error("unexpected success bit")
	}
}
