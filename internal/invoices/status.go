package invoices

import "strings"

// ResultStatus is a bitmask of invoice validation outcomes. Multiple
// failure reasons coexist in one value so callers can diagnose results
// without parsing messages.
type ResultStatus uint16

const (
	StatusUndetermined ResultStatus = 0
	StatusFail         ResultStatus = 1 << 0
	StatusSuccess      ResultStatus = 1 << 1

	StatusInvoiceIDMissing       ResultStatus = 1 << 2
	StatusItemsMissing           ResultStatus = 1 << 3
	StatusItemProductCodeMissing ResultStatus = 1 << 4
	StatusItemQuantityMissing    ResultStatus = 1 << 5
	StatusItemTotalMissing       ResultStatus = 1 << 6
)

var statusNames = []struct {
	flag ResultStatus
	name string
}{
	{StatusFail, "Fail"},
	{StatusSuccess, "Success"},
	{StatusInvoiceIDMissing, "InvoiceIdMissing"},
	{StatusItemsMissing, "ItemsMissing"},
	{StatusItemProductCodeMissing, "ItemProductCodeMissing"},
	{StatusItemQuantityMissing, "ItemQuantityMissing"},
	{StatusItemTotalMissing, "ItemTotalMissing"},
}

// Has reports whether all bits of flag are set.
func (s ResultStatus) Has(flag ResultStatus) bool {
	return s&flag == flag
}

func (s ResultStatus) String() string {
	if s == StatusUndetermined {
		return "Undetermined"
	}

	var names []string
	for _, entry := range statusNames {
		if s.Has(entry.flag) {
			names = append(names, entry.name)
		}
	}
	return strings.Join(names, "|")
}
