package parser

import (
	"regexp"
	"strings"

	"github.com/ledgerlens/statement-ledger/internal/models"
)

// Rules drives line classification for one statement layout.
type Rules struct {
	// Start matches lines that open a new transaction record.
	Start *regexp.Regexp
	// CurrencyDetail matches foreign-currency conversion sub-lines.
	CurrencyDetail *regexp.Regexp
	// MetadataKeywords mark statement boilerplate: page headers, legal
	// text, interest tables.
	MetadataKeywords []string
	// BalanceKeywords force lines that also look like transactions into
	// metadata. Running-total rows often carry a date and an amount and
	// would otherwise become spurious records.
	BalanceKeywords []string
}

// Classify labels one raw line given the previous line's label. Pure function
// of the line text and one prior label of context.
func Classify(rules Rules, line models.RawLine, prev models.LineKind) models.ClassifiedLine {
	return models.ClassifiedLine{RawLine: line, Kind: classifyText(rules, line.Text, prev)}
}

func classifyText(rules Rules, text string, prev models.LineKind) models.LineKind {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.LineNoise
	}

	if rules.Start != nil && rules.Start.MatchString(trimmed) {
		if containsKeyword(trimmed, rules.BalanceKeywords) {
			return models.LineMetadata
		}
		return models.LineStart
	}
	if rules.CurrencyDetail != nil && rules.CurrencyDetail.MatchString(trimmed) {
		return models.LineCurrencyDetail
	}
	if containsKeyword(trimmed, rules.MetadataKeywords) || containsKeyword(trimmed, rules.BalanceKeywords) {
		return models.LineMetadata
	}
	if prev == models.LineStart || prev == models.LineContinuation {
		return models.LineContinuation
	}
	return models.LineNoise
}

func containsKeyword(line string, keywords []string) bool {
	upper := strings.ToUpper(line)
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
