package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// RuleSet maps a field name to an ordered list of regex pattern strings.
// Pattern order is match priority: the first pattern that yields a value
// wins and later patterns are never consulted.
type RuleSet map[string][]string

// pattern is one compiled regex with its capture-group preference. Groups
// are tried in order against a match; a group index beyond what the
// pattern captures, or an empty capture, counts as no value.
type pattern struct {
	re     *regexp.Regexp
	groups []int
}

// customGroupPreference is the capture preference for user-supplied rules:
// highest group first, falling back to the full match.
var customGroupPreference = []int{3, 2, 1, 0}

func mustPattern(expr string, groups ...int) pattern {
	return pattern{re: regexp.MustCompile(expr), groups: groups}
}

// Built-in rule tables. Fixed at startup, read-only afterward.
var (
	datePatterns = []pattern{
		mustPattern(`(?i)\bdate\s*[:\-]?\s*([0-9]{1,2}[/\-.][0-9]{1,2}[/\-.][0-9]{2,4})\b`, 1),
		mustPattern(`(?i)\bdate\s*[:\-]?\s*([0-9]{1,2}\s+[A-Za-z]{3,9}\s+[0-9]{2,4})\b`, 1),
	}

	invoiceNumberPatterns = []pattern{
		mustPattern(`(?i)\binvoice\s*(?:no|#|number)\s*[:\-]?\s*([A-Z0-9\-/]{4,})\b`, 1),
		mustPattern(`(?i)\binv\s*(?:no|#|number)?\s*[:\-]?\s*([A-Z0-9\-/]{4,})\b`, 1),
	}

	invoiceDatePatterns = []pattern{
		mustPattern(`(?i)\binvoice\s*date\s*[:\-]?\s*([0-9]{1,2}[/\-.][0-9]{1,2}[/\-.][0-9]{2,4})\b`, 1),
		mustPattern(`(?i)\binvoice\s*date\s*[:\-]?\s*([0-9]{1,2}\s+[A-Za-z]{3,9}\s+[0-9]{2,4})\b`, 1),
	}

	dueDatePatterns = []pattern{
		mustPattern(`(?i)\bdue\s*date\s*[:\-]?\s*([0-9]{1,2}[/\-.][0-9]{1,2}[/\-.][0-9]{2,4})\b`, 1),
		mustPattern(`(?i)\bdue\s*date\s*[:\-]?\s*([0-9]{1,2}\s+[A-Za-z]{3,9}\s+[0-9]{2,4})\b`, 1),
	}

	currencyPatterns = []pattern{
		mustPattern(`(?i)\b(usd|eur|gbp|inr|aed|sar|bhd|qar|omr|jod)\b`, 1),
	}

	totalAmountPatterns = []pattern{
		mustPattern(`(?i)\b(total\s*(?:amount)?|amount\s*due)\s*[:\-]?\s*([A-Z]{0,3}\s?\d[\d,]*\.?\d{0,2})\b`, 2),
		mustPattern(`(?i)\bgrand\s*total\s*[:\-]?\s*([A-Z]{0,3}\s?\d[\d,]*\.?\d{0,2})\b`, 1),
	}

	taxAmountPatterns = []pattern{
		mustPattern(`(?i)\b(vat|tax)\s*[:\-]?\s*([A-Z]{0,3}\s?\d[\d,]*\.?\d{0,2})\b`, 2),
	}

	poNumberPatterns = []pattern{
		mustPattern(`(?i)\bpo\s*(?:no|#|number)\s*[:\-]?\s*([A-Z0-9\-/]{4,})\b`, 1),
		mustPattern(`(?i)\bpurchase\s*order\s*(?:no|#|number)\s*[:\-]?\s*([A-Z0-9\-/]{4,})\b`, 1),
	}

	emailPattern = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+\d{1,3}[\s-]?)?\d{6,14}`)
)

// firstMatch evaluates patterns in order and returns the value of the
// first one that yields a non-empty capture, following each pattern's
// group preference. A pattern that matches but captures nothing defers to
// the next pattern.
func firstMatch(patterns []pattern, text string) (string, bool) {
	for _, p := range patterns {
		sub := p.re.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		for _, g := range p.groups {
			if g >= len(sub) {
				continue
			}
			if v := strings.TrimSpace(sub[g]); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// ParseRuleSet decodes a JSON rule configuration: an object mapping field
// names to arrays of pattern strings. Entries with the wrong value types
// are dropped silently rather than rejecting the whole configuration.
// Malformed JSON yields an empty rule set.
func ParseRuleSet(data []byte) RuleSet {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return RuleSet{}
	}

	rs := RuleSet{}
	for field, v := range raw {
		list, ok := v.([]any)
		if !ok {
			continue
		}
		patterns := make([]string, 0, len(list))
		valid := true
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				valid = false
				break
			}
			patterns = append(patterns, s)
		}
		if valid && len(patterns) > 0 {
			rs[field] = patterns
		}
	}
	return rs
}

// compileCustom compiles a user-supplied rule set, dropping patterns that
// fail to compile. Patterns match case-insensitively, like the built-ins.
// Fields left with no usable patterns are dropped.
func compileCustom(rs RuleSet) map[string][]pattern {
	if len(rs) == 0 {
		return nil
	}
	compiled := make(map[string][]pattern, len(rs))
	for field, exprs := range rs {
		var patterns []pattern
		for _, expr := range exprs {
			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				continue
			}
			patterns = append(patterns, pattern{re: re, groups: customGroupPreference})
		}
		if len(patterns) > 0 {
			compiled[field] = patterns
		}
	}
	return compiled
}
