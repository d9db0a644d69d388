package model

import (
	"encoding/json"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointJSON(t *testing.T) {
	data, err := json.Marshal(Point{3, 7})
	require.NoError(t, err)
	assert.Equal(t, "[3,7]", string(data))

	var p Point
	require.NoError(t, json.Unmarshal([]byte("[10,20]"), &p))
	assert.Equal(t, Point{10, 20}, p)
}

func TestQuadBounds(t *testing.T) {
	q := Quad{{5, 2}, {40, 4}, {38, 18}, {3, 16}}
	assert.Equal(t, image.Rect(3, 2, 40, 18), q.Bounds())
}

func TestQuadFromRect(t *testing.T) {
	q := QuadFromRect(image.Rect(1, 2, 30, 12))
	assert.Equal(t, Quad{{1, 2}, {30, 2}, {30, 12}, {1, 12}}, q)
	assert.Equal(t, image.Rect(1, 2, 30, 12), q.Bounds())
}

func TestParseDocumentType(t *testing.T) {
	tests := []struct {
		in   string
		want DocumentType
	}{
		{"invoice", TypeInvoice},
		{"receipt", TypeReceipt},
		{"purchase_order", TypePurchaseOrder},
		{"contract", TypeContract},
		{"unknown", TypeUnknown},
		{"", TypeUnknown},
		{"Invoice", TypeUnknown},
		{"memo", TypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDocumentType(tt.in))
		})
	}
}

func TestJoinLines(t *testing.T) {
	lines := []TextLine{
		{Text: "Invoice No: INV-1"},
		{Text: ""},
		{Text: "Total: 9.99"},
	}
	assert.Equal(t, "Invoice No: INV-1\nTotal: 9.99", JoinLines(lines))

	// Idempotence: re-splitting and re-joining is stable.
	again := []TextLine{{Text: "Invoice No: INV-1"}, {Text: "Total: 9.99"}}
	assert.Equal(t, JoinLines(lines), JoinLines(again))

	assert.Equal(t, "", JoinLines(nil))
}

func TestFieldsPrune(t *testing.T) {
	f := Fields{
		"doc_type":       TypeInvoice,
		"invoice_number": "INV-1",
		"total_amount":   12.5,
		"date":           "",
		"emails":         []string{},
		"phones":         []string{"+4412345678"},
		"custom":         Fields{"ref": "", "order": "A-1"},
		"missing":        nil,
	}
	f.Prune()

	assert.Equal(t, Fields{
		"doc_type":       TypeInvoice,
		"invoice_number": "INV-1",
		"total_amount":   12.5,
		"phones":         []string{"+4412345678"},
		"custom":         Fields{"order": "A-1"},
	}, f)
}

func TestFieldsPruneEmptyNested(t *testing.T) {
	f := Fields{"custom": Fields{"a": "", "b": nil}}
	f.Prune()
	assert.Empty(t, f)
}

func TestDocumentResultFullText(t *testing.T) {
	d := &DocumentResult{
		Pages: []PageResult{{Text: "page one"}, {Text: "page two"}},
	}
	assert.Equal(t, "page one\n\npage two", d.FullText())
}

func TestPageResultJSONShape(t *testing.T) {
	p := PageResult{
		Page:    1,
		DocType: TypeInvoice,
		Text:    "Total: 5",
		Lines:   []TextLine{{Box: QuadFromRect(image.Rect(0, 0, 10, 5)), Text: "Total: 5", Score: 0.91}},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "invoice", decoded["doc_type"])
	lines := decoded["lines"].([]any)
	require.Len(t, lines, 1)
	line := lines[0].(map[string]any)
	assert.Contains(t, line, "box")
	assert.Contains(t, line, "text")
	assert.Contains(t, line, "score")
}
