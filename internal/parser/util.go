package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func parseISODate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// yearFromName pulls a statement year out of a document name. Names often
// carry several year-like runs; the statement year is conventionally the
// last one, so the last match wins.
func yearFromName(docID string) (int, bool) {
	matches := yearDigitsPattern.FindAllString(docID, -1)
	if len(matches) == 0 {
		return 0, false
	}
	y, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil {
		return 0, false
	}
	return y, true
}

// ParseAmount converts statement amount text into a signed decimal plus a CR
// credit marker. It accepts both "1,234.56" and French "1 234,56" digit
// grouping, a trailing "CR" suffix, a leading minus, and accounting
// parentheses (both of which make the value negative).
func ParseAmount(s string) (decimal.Decimal, bool, error) {
	s = strings.TrimSpace(s)

	credit := false
	if strings.HasSuffix(strings.ToUpper(s), "CR") {
		credit = true
		s = strings.TrimSpace(s[:len(s)-2])
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.Trim(s, "()")
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "+")

	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "£", "")

	// French statements use the comma as the decimal separator.
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, err
	}
	if negative {
		d = d.Neg()
	}
	return d, credit, nil
}
