package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
)

var nonAmountChars = regexp.MustCompile(`[^\d,.]`)

// Amount normalizes a matched amount token into a float. Currency symbols
// and letters are stripped first; the separator ambiguity between
// thousands-comma and decimal-comma is resolved as follows, in order:
//
//  1. both comma and period present: commas are thousands separators
//  2. two or more commas: all are thousands separators
//  3. exactly one comma and no period: the comma is a decimal separator
//  4. otherwise the token is used as-is
//
// The second return is false when nothing parseable remains.
func Amount(raw string) (float64, bool) {
	s := nonAmountChars.ReplaceAllString(raw, "")
	if s == "" {
		return 0, false
	}

	hasComma := strings.Contains(s, ",")
	hasPeriod := strings.Contains(s, ".")
	switch {
	case hasComma && hasPeriod:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") >= 2:
		s = strings.ReplaceAll(s, ",", "")
	case hasComma:
		s = strings.Replace(s, ",", ".", 1)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Date normalizes a matched date token to an ISO calendar date
// (YYYY-MM-DD). Ambiguous day/month positions resolve day-first: 12/11/2025
// is the 12th of November. The second return is false when the token does
// not parse as a date.
func Date(raw string) (string, bool) {
	t, err := dateparse.ParseAny(strings.TrimSpace(raw), dateparse.PreferMonthFirst(false))
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}
