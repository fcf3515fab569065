package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledgerlens/statement-ledger/internal/models"
)

// Parser converts the extracted pages of one statement document into
// normalized transactions.
type Parser interface {
	// Name returns the identifier accepted by the -bank flag.
	Name() string
	// CanParse reports whether the first page looks like this bank's
	// statement format.
	CanParse(firstPage string) bool
	// Parse processes all pages of a document.
	Parse(pages []string, docID string) (*Result, error)
}

// Result is the outcome of parsing a single document.
type Result struct {
	Bank         models.BankType
	Period       models.Period
	Transactions []models.Transaction
	// Skipped records malformed lines that were dropped. They are logged
	// and counted but do not fail the document.
	Skipped []SkippedRecord
}

// SkippedRecord describes a candidate record the normalizer rejected.
type SkippedRecord struct {
	Line string
	Err  error
}

var (
	ErrNoParser       = errors.New("no parser recognizes this statement")
	ErrParserConflict = errors.New("statement matches more than one parser")
)

// All returns every registered parser.
func All() []Parser {
	return []Parser{
		NewDesjardinsParser(),
		NewTDParser(),
		NewVisaParser(),
	}
}

// New returns the parser with the given name, or nil if unknown.
func New(name string) Parser {
	for _, p := range All() {
		if strings.EqualFold(p.Name(), name) {
			return p
		}
	}
	return nil
}

// Resolve picks the parser for a document. A forced parser is validated
// against the first page; otherwise every registered parser is probed and
// exactly one must claim the document.
func Resolve(firstPage string, forced Parser) (Parser, error) {
	if forced != nil {
		if !forced.CanParse(firstPage) {
			return nil, fmt.Errorf("%w: first page does not look like a %s statement", ErrNoParser, forced.Name())
		}
		return forced, nil
	}

	var matches []Parser
	for _, p := range All() {
		if p.CanParse(firstPage) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, ErrNoParser
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, p := range matches {
			names[i] = p.Name()
		}
		return nil, fmt.Errorf("%w: %s", ErrParserConflict, strings.Join(names, ", "))
	}
}

// parseWithLayout runs the shared classify/assemble/normalize pipeline over
// all pages of a document. Record ordinals follow statement order and are
// consumed even by records that end up skipped, so reconciliation references
// stay stable.
func parseWithLayout(lay Layout, pages []string, docID string, period models.Period) *Result {
	res := &Result{Bank: lay.Bank, Period: period}

	var classified []models.ClassifiedLine
	for pageNum, page := range pages {
		prev := models.LineNoise
		for idx, text := range strings.Split(page, "\n") {
			cl := Classify(lay.Rules, models.RawLine{Text: text, Page: pageNum, Index: idx}, prev)
			prev = cl.Kind
			classified = append(classified, cl)
		}
	}

	for ordinal, rec := range Assemble(docID, classified) {
		tx, err := NormalizeRecord(lay, rec, period, ordinal)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedRecord{
				Line: strings.TrimSpace(rec.Start().Text),
				Err:  err,
			})
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}

	return res
}
