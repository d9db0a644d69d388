package model

import "strings"

// DocumentType is a coarse category label for a processed document. It drives
// which field-extraction rules apply.
type DocumentType string

// The closed set of document types. Anything unrecognized or ambiguous
// resolves to TypeUnknown, never to an error.
const (
	TypeInvoice       DocumentType = "invoice"
	TypeReceipt       DocumentType = "receipt"
	TypePurchaseOrder DocumentType = "purchase_order"
	TypeContract      DocumentType = "contract"
	TypeUnknown       DocumentType = "unknown"
)

// DocumentTypes lists all valid document types in their canonical order.
var DocumentTypes = []DocumentType{
	TypeInvoice,
	TypeReceipt,
	TypePurchaseOrder,
	TypeContract,
	TypeUnknown,
}

// ParseDocumentType maps a string onto the closed document-type set.
// Unrecognized values map to TypeUnknown.
func ParseDocumentType(s string) DocumentType {
	for _, dt := range DocumentTypes {
		if string(dt) == s {
			return dt
		}
	}
	return TypeUnknown
}

// TextLine is one OCR-detected line of text: its bounding polygon, the
// recognized text, and the engine's confidence in [0, 1]. Lines are created
// once per detection by normalization and are immutable afterward.
type TextLine struct {
	Box   Quad    `json:"box"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// JoinLines reconstructs the full-page text from a line sequence: the
// newline join of all non-empty line texts in their original order. Page
// text is always reproducible from its lines through this function.
func JoinLines(lines []TextLine) string {
	parts := make([]string, 0, len(lines))
	for _, ln := range lines {
		if ln.Text != "" {
			parts = append(parts, ln.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// Fields holds extracted field values keyed by field name. Values are
// strings, floats, string slices, or a nested Fields map for custom rules.
//
// Presence signals "found": a key whose value is nil, an empty string, an
// empty slice, or an empty map must not appear. Prune enforces this.
type Fields map[string]any

// Prune removes keys whose values are empty, recursing into nested Fields
// maps, and returns the receiver. A nested map that prunes to empty is
// removed as well.
func (f Fields) Prune() Fields {
	for k, v := range f {
		if isEmptyValue(v) {
			delete(f, k)
			continue
		}
		if nested, ok := v.(Fields); ok {
			nested.Prune()
			if len(nested) == 0 {
				delete(f, k)
			}
		}
	}
	return f
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []string:
		return len(val) == 0
	case Fields:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	case DocumentType:
		return val == ""
	default:
		return false
	}
}

// PageResult holds everything produced for a single page: the detected
// document type, the assembled text, the ordered line sequence, and the
// extracted fields.
type PageResult struct {
	Page      int          `json:"page"`
	DocType   DocumentType `json:"doc_type"`
	Text      string       `json:"text"`
	Lines     []TextLine   `json:"lines"`
	Extracted Fields       `json:"extracted,omitempty"`

	// Visualization is an optional PNG overlay of the detected line
	// polygons. Purely cosmetic, so it is not part of the serialized
	// payload.
	Visualization []byte `json:"-"`
}

// DocumentResult is the aggregate payload for a processed document. It is
// directly serializable to JSON for downstream consumers.
type DocumentResult struct {
	FileName  string       `json:"file_name"`
	DocType   DocumentType `json:"doc_type"`
	Pages     []PageResult `json:"pages"`
	Extracted Fields       `json:"extracted,omitempty"`
}

// FullText returns the text of all pages joined with blank lines, in page
// order.
func (d *DocumentResult) FullText() string {
	parts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n\n")
}
