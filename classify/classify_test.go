package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/charta-io/charta/model"
)

func TestDetectDocumentType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.DocumentType
	}{
		{
			"invoice",
			"TAX INVOICE\nInvoice No: INV-12345\nAmount Due: USD 1,234.56",
			model.TypeInvoice,
		},
		{
			"receipt",
			"RECEIPT\nSubtotal: 4.50\nCashier: #12\nThank you for shopping",
			model.TypeReceipt,
		},
		{
			"purchase order",
			"PURCHASE ORDER\nPO Number: 4711\nShip To: 1 Warehouse Rd\nVendor: Acme",
			model.TypePurchaseOrder,
		},
		{
			"contract",
			"SERVICE AGREEMENT between Party A and Party B, hereinafter the Supplier, WHEREAS ...",
			model.TypeContract,
		},
		{"no signal", "lorem ipsum dolor sit amet", model.TypeUnknown},
		{"empty", "", model.TypeUnknown},
		{"whitespace only", "  \n\t ", model.TypeUnknown},
		{
			"case insensitive",
			"iNvOiCe with aMoUnT dUe",
			model.TypeInvoice,
		},
		{
			"keywords split across whitespace",
			"amount \n   due",
			model.TypeInvoice,
		},
		{
			// "change" matches as a substring of "exchange": partial-word
			// containment is accepted.
			"partial word match",
			"no exchange of goods",
			model.TypeReceipt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDocumentType(tt.text))
		})
	}
}

func TestDetectDocumentTypeClosedSet(t *testing.T) {
	inputs := []string{
		"", "invoice receipt purchase order agreement", "12345", "日本語のテキスト",
	}
	for _, in := range inputs {
		got := DetectDocumentType(in)
		assert.Contains(t, model.DocumentTypes, got)
	}
}

func TestDetectDocumentTypeTieBreak(t *testing.T) {
	// One keyword from invoice, one from receipt: equal scores. The first
	// category in table order wins.
	assert.Equal(t, model.TypeInvoice, DetectDocumentType("vat subtotal"))
}

func TestDetectDocumentTypeZeroScoreIsUnknown(t *testing.T) {
	// Scores must all be zero for unknown, and any single match flips it.
	assert.Equal(t, model.TypeUnknown, DetectDocumentType("nothing relevant"))
	assert.Equal(t, model.TypeContract, DetectDocumentType("whereas nothing relevant"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b c", Normalize("  A \n\t B \r\n  c  "))
	assert.Equal(t, "", Normalize(""))
}
