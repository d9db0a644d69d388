package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charta-io/charta/model"
)

const invoiceText = "Invoice No: INV-12345\nAmount Due: USD 1,234.56\nInvoice Date: 12/11/2025\nVAT: USD 12.34"

func TestFieldsInvoice(t *testing.T) {
	out := Fields(invoiceText, model.TypeInvoice, nil)

	assert.Equal(t, model.TypeInvoice, out["doc_type"])
	assert.Equal(t, "INV-12345", out["invoice_number"])
	assert.Equal(t, "USD", out["currency"])
	assert.InDelta(t, 1234.56, out["total_amount"], 1e-9)
	assert.InDelta(t, 12.34, out["tax_amount"], 1e-9)
	assert.Equal(t, "2025-11-12", out["invoice_date"])
}

func TestFieldsGrandTotalFallback(t *testing.T) {
	out := Fields("Invoice\nGrand Total: 99.50", model.TypeInvoice, nil)
	assert.InDelta(t, 99.5, out["total_amount"], 1e-9)
}

func TestFieldsDueDate(t *testing.T) {
	out := Fields("Invoice No: INV-9\nDue Date: 01/02/2026", model.TypeInvoice, nil)
	assert.Equal(t, "2026-02-01", out["due_date"])
}

func TestFieldsTextualDate(t *testing.T) {
	out := Fields("Date: 3 March 2025", model.TypeUnknown, nil)
	assert.Equal(t, "2025-03-03", out["date"])
}

func TestFieldsPurchaseOrder(t *testing.T) {
	out := Fields("PURCHASE ORDER\nPO Number: PO-2024-001\nShip To: somewhere", model.TypePurchaseOrder, nil)
	assert.Equal(t, "PO-2024-001", out["po_number"])
}

func TestFieldsPONumberNotExtractedForInvoice(t *testing.T) {
	out := Fields("PO Number: PO-2024-001", model.TypeInvoice, nil)
	assert.NotContains(t, out, "po_number")
}

func TestFieldsEmails(t *testing.T) {
	text := "Contact: Billing@Example.com or billing@example.com, cc ops@foo.io"
	out := Fields(text, model.TypeUnknown, nil)
	assert.Equal(t, []string{"billing@example.com", "ops@foo.io"}, out["emails"])
}

func TestFieldsPhones(t *testing.T) {
	text := "Call +4915112345678 or 0612345678. Call +4915112345678 again."
	out := Fields(text, model.TypeUnknown, nil)

	phones, ok := out["phones"].([]string)
	require.True(t, ok)
	assert.Contains(t, phones, "+4915112345678")
	assert.Contains(t, phones, "0612345678")
	// De-duplicated.
	assert.Len(t, phones, len(uniqueStrings(phones)))
}

func uniqueStrings(in []string) map[string]struct{} {
	set := make(map[string]struct{}, len(in))
	for _, s := range in {
		set[s] = struct{}{}
	}
	return set
}

func TestFieldsOmissionLaw(t *testing.T) {
	// Nothing extractable: only doc_type remains.
	out := Fields("lorem ipsum", model.TypeInvoice, nil)
	assert.Equal(t, model.Fields{"doc_type": model.TypeInvoice}, out)
}

func TestFieldsUnparseableDateOmitted(t *testing.T) {
	// The token shape matches the rule but is not a real date.
	out := Fields("Invoice Date: 99/99/9999", model.TypeInvoice, nil)
	assert.NotContains(t, out, "invoice_date")
}

func TestFieldsCustomRules(t *testing.T) {
	rules := RuleSet{
		"order_ref": {`\border\s*ref\s*[:\-]?\s*([A-Z0-9]{4,})\b`},
	}
	out := Fields("Order Ref: AB1234", model.TypeUnknown, rules)

	custom, ok := out["custom"].(model.Fields)
	require.True(t, ok)
	assert.Equal(t, "AB1234", custom["order_ref"])
}

func TestFieldsCustomGroupPreference(t *testing.T) {
	// Three groups: group 3 wins when it captures.
	rules := RuleSet{
		"num": {`\b(invoice|inv)\s*(no|#|number)\s*[:\-]?\s*([A-Z0-9\-/]{4,})\b`},
	}
	out := Fields("Invoice No: INV-77777", model.TypeUnknown, rules)
	custom := out["custom"].(model.Fields)
	assert.Equal(t, "INV-77777", custom["num"])
}

func TestFieldsCustomGroupFallback(t *testing.T) {
	// One group: groups 3 and 2 are out of range and count as no match;
	// group 1 is used.
	rules := RuleSet{"code": {`code\s*[:\-]?\s*(\w{4,})`}}
	out := Fields("Code: XYZ99", model.TypeUnknown, rules)
	custom := out["custom"].(model.Fields)
	assert.Equal(t, "XYZ99", custom["code"])
}

func TestFieldsCustomFullMatchFallback(t *testing.T) {
	// No capture groups at all: the full match is used.
	rules := RuleSet{"keyword": {`priority shipping`}}
	out := Fields("includes PRIORITY SHIPPING service", model.TypeUnknown, rules)
	custom := out["custom"].(model.Fields)
	assert.Equal(t, "PRIORITY SHIPPING", custom["keyword"])
}

func TestFieldsCustomInvalidPatternDropped(t *testing.T) {
	rules := RuleSet{
		"broken": {`([unclosed`},
		"good":   {`ref\s*(\d{4})`},
	}
	out := Fields("ref 1234", model.TypeUnknown, rules)
	custom, ok := out["custom"].(model.Fields)
	require.True(t, ok)
	assert.NotContains(t, custom, "broken")
	assert.Equal(t, "1234", custom["good"])
}

func TestFieldsCustomNeverFlattened(t *testing.T) {
	rules := RuleSet{"invoice_number": {`INV-(\d+)`}}
	out := Fields("Invoice No: INV-12345", model.TypeInvoice, rules)

	// Built-in result stays at top level, custom result stays nested.
	assert.Equal(t, "INV-12345", out["invoice_number"])
	custom := out["custom"].(model.Fields)
	assert.Equal(t, "12345", custom["invoice_number"])
}

func TestFirstMatchOrder(t *testing.T) {
	// First pattern that matches wins; later patterns are not consulted.
	patterns := []pattern{
		mustPattern(`first:(\w+)`, 1),
		mustPattern(`second:(\w+)`, 1),
	}
	v, ok := firstMatch(patterns, "second:beta first:alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", v)
}

func TestFirstMatchNoPatterns(t *testing.T) {
	_, ok := firstMatch(nil, "anything")
	assert.False(t, ok)
}
