// Package classify assigns a document-type label to OCR text using fixed
// keyword heuristics.
//
// Classification is a pure function over the text: each category earns a
// fixed weight for every keyword phrase contained in the normalized text,
// and the highest-scoring category wins. Matching is substring containment
// over whitespace-collapsed, lower-cased text, so partial-word and
// overlapping matches are accepted. A document that matches no keywords at
// all is [model.TypeUnknown].
package classify

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/charta-io/charta/model"
)

// keywordWeight is the score added per matched keyword phrase.
const keywordWeight = 2

// category pairs a document type with its keyword phrases. Slice order is
// the tie-break order: the first category to reach the maximum score wins.
type category struct {
	docType  model.DocumentType
	keywords []string
}

// categories is the process-wide classification table, fixed at startup
// and never written afterward.
var categories = []category{
	{model.TypeInvoice, []string{"invoice", "inv#", "amount due", "bill to", "tax invoice", "vat"}},
	{model.TypeReceipt, []string{"receipt", "thank you", "change", "cashier", "subtotal"}},
	{model.TypePurchaseOrder, []string{"purchase order", "po number", "ship to", "deliver to", "vendor"}},
	{model.TypeContract, []string{"agreement", "party", "terms and conditions", "hereinafter", "whereas"}},
}

var whitespace = regexp.MustCompile(`\s+`)

// Normalize prepares text for keyword matching: Unicode compatibility
// normalization, whitespace collapsed to single spaces, trimmed, and
// lower-cased.
func Normalize(text string) string {
	t := norm.NFKC.String(text)
	t = whitespace.ReplaceAllString(t, " ")
	return strings.ToLower(strings.TrimSpace(t))
}

// DetectDocumentType scores the text against every category's keyword list
// and returns the winning label. Returns [model.TypeUnknown] when no
// keyword matched at all, regardless of which category nominally won.
func DetectDocumentType(text string) model.DocumentType {
	t := Normalize(text)

	best := model.TypeUnknown
	bestScore := 0
	for _, c := range categories {
		score := 0
		for _, kw := range c.keywords {
			if strings.Contains(t, kw) {
				score += keywordWeight
			}
		}
		if score > bestScore {
			bestScore = score
			best = c.docType
		}
	}

	if bestScore == 0 {
		return model.TypeUnknown
	}
	return best
}
