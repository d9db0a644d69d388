// Package extract pulls structured business fields out of raw document
// text using ordered regex rules.
//
// Extraction is best-effort: OCR text is noisy and none of the extracted
// values are guaranteed correct. A field that cannot be found or
// normalized is simply absent from the result; extraction itself never
// fails.
//
// Built-in rules cover fields common to all documents (emails, phones, a
// labeled date) plus type-specific fields for invoices and purchase
// orders. Callers may add their own fields through a [RuleSet]; custom
// results are nested under the "custom" key and never collide with the
// built-in names.
package extract

import (
	"sort"
	"strings"

	"github.com/charta-io/charta/model"
)

// Fields extracts every applicable field from the text. The document type
// selects which type-specific rules run on top of the common ones; custom
// is optional. The result always carries "doc_type" and obeys the
// omission law: absent, empty, or unparseable fields do not appear.
func Fields(text string, docType model.DocumentType, custom RuleSet) model.Fields {
	out := model.Fields{"doc_type": docType}

	out["emails"] = findEmails(text)
	out["phones"] = findPhones(text)

	if raw, ok := firstMatch(datePatterns, text); ok {
		if iso, ok := Date(raw); ok {
			out["date"] = iso
		}
	}

	switch docType {
	case model.TypeInvoice:
		extractInvoice(text, out)
	case model.TypePurchaseOrder:
		extractPurchaseOrder(text, out)
	}

	if customOut := applyCustom(text, custom); len(customOut) > 0 {
		out["custom"] = customOut
	}

	return out.Prune()
}

func extractInvoice(text string, out model.Fields) {
	if v, ok := firstMatch(invoiceNumberPatterns, text); ok {
		out["invoice_number"] = v
	}
	if raw, ok := firstMatch(invoiceDatePatterns, text); ok {
		if iso, ok := Date(raw); ok {
			out["invoice_date"] = iso
		}
	}
	if raw, ok := firstMatch(dueDatePatterns, text); ok {
		if iso, ok := Date(raw); ok {
			out["due_date"] = iso
		}
	}
	if v, ok := firstMatch(currencyPatterns, text); ok {
		out["currency"] = strings.ToUpper(v)
	}
	if raw, ok := firstMatch(totalAmountPatterns, text); ok {
		if f, ok := Amount(raw); ok {
			out["total_amount"] = f
		}
	}
	if raw, ok := firstMatch(taxAmountPatterns, text); ok {
		if f, ok := Amount(raw); ok {
			out["tax_amount"] = f
		}
	}
}

func extractPurchaseOrder(text string, out model.Fields) {
	if v, ok := firstMatch(poNumberPatterns, text); ok {
		out["po_number"] = v
	}
}

// applyCustom runs the user-supplied rules. Each field follows the same
// first-match-wins policy as the built-ins, with the custom group
// preference (3, 2, 1, then the full match).
func applyCustom(text string, rs RuleSet) model.Fields {
	compiled := compileCustom(rs)
	if len(compiled) == 0 {
		return nil
	}
	out := model.Fields{}
	for field, patterns := range compiled {
		if v, ok := firstMatch(patterns, text); ok {
			out[field] = v
		}
	}
	return out
}

// findEmails returns all email addresses, case-folded to lower case and
// de-duplicated. Order carries no meaning; the result is sorted for
// determinism.
func findEmails(text string) []string {
	return dedupe(emailPattern.FindAllString(text, -1), strings.ToLower)
}

// findPhones returns all phone-shaped tokens (optional +NNN international
// prefix, then 6-14 digits), de-duplicated and sorted.
func findPhones(text string) []string {
	return dedupe(phonePattern.FindAllString(text, -1), nil)
}

func dedupe(matches []string, fold func(string) string) []string {
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if fold != nil {
			m = fold(m)
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
