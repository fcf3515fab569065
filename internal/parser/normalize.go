package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerlens/statement-ledger/internal/models"
)

// Errors reported by the field normalizer. Affected records are skipped and
// counted; they never fail the whole document.
var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrAmbiguousYear   = errors.New("no year places the date inside the statement period window")
)

// StartFields is what a layout extracts from a record's Start line.
type StartFields struct {
	Month, Day int
	// Year is zero when the layout's transaction dates carry no year and
	// it must be inferred from the statement period.
	Year     int
	Merchant string
	// Amount is the unsigned magnitude printed on the statement.
	Amount decimal.Decimal
	// Credit reports whether the layout marked the amount as money in
	// (CR suffix, deposit column, explicit sign).
	Credit bool
}

// Layout bundles everything layout-specific the generic pipeline needs.
type Layout struct {
	Name  string
	Bank  models.BankType
	Rules Rules
	// ExtractStart pulls typed fields out of a Start line. It returns an
	// error wrapping ErrMalformedRecord when no amount can be parsed.
	ExtractStart func(text string) (StartFields, error)
	// PaymentKeywords mark account-settlement credits. Payment rows never
	// reach the output ledger.
	PaymentKeywords []string
	// CreditKeywords mark reimbursements and other non-payment credits.
	CreditKeywords []string
}

// periodLead is how far before the period start an inferred transaction date
// may fall: purchases post up to a month after they are made.
const periodLead = 31

// NormalizeRecord converts one candidate record into a transaction.
func NormalizeRecord(lay Layout, rec models.CandidateRecord, period models.Period, ordinal int) (models.Transaction, error) {
	sf, err := lay.ExtractStart(strings.TrimSpace(rec.Start().Text))
	if err != nil {
		return models.Transaction{}, err
	}

	year := sf.Year
	if year == 0 {
		year, err = InferYear(sf.Month, sf.Day, period)
		if err != nil {
			return models.Transaction{}, err
		}
	}
	date, err := calendarDate(year, sf.Month, sf.Day)
	if err != nil {
		return models.Transaction{}, err
	}
	if sf.Year != 0 && !period.IsZero() && !insideWindow(date, period) {
		return models.Transaction{}, fmt.Errorf("%w: %s", ErrAmbiguousYear, date.Format("2006-01-02"))
	}

	merchant := sf.Merchant
	for _, line := range rec.Lines[1:] {
		if line.Kind == models.LineContinuation {
			merchant += " " + line.Text
		}
	}
	merchant = strings.Join(strings.Fields(merchant), " ")

	upper := strings.ToUpper(merchant)
	isPayment := containsKeyword(upper, lay.PaymentKeywords)
	credit := sf.Credit || isPayment || containsKeyword(upper, lay.CreditKeywords)

	amount := sf.Amount.Abs()
	if !credit {
		amount = amount.Neg()
	}

	tx := models.Transaction{
		Date:       date,
		Amount:     amount,
		Merchant:   merchant,
		IsPayment:  isPayment,
		DocumentID: rec.DocumentID,
		Ordinal:    ordinal,
	}

	if lay.Rules.CurrencyDetail != nil {
		for _, line := range rec.Lines[1:] {
			if line.Kind != models.LineCurrencyDetail {
				continue
			}
			m := lay.Rules.CurrencyDetail.FindStringSubmatch(strings.TrimSpace(line.Text))
			if m != nil {
				if fx, _, err := ParseAmount(m[1]); err == nil {
					fx = fx.Abs()
					tx.ForeignAmount = &fx
					tx.ForeignCurrency = m[2]
				}
			}
			break
		}
	}

	return tx, nil
}

// InferYear picks the year that places month/day inside
// [period start − 31 days, period end]. A pure function of its inputs so
// alternate inference strategies can be substituted without touching the
// parsers.
func InferYear(month, day int, period models.Period) (int, error) {
	if period.IsZero() {
		return 0, fmt.Errorf("%w: document has no period metadata", ErrAmbiguousYear)
	}
	for y := period.Start.Year() - 1; y <= period.End.Year(); y++ {
		d, err := calendarDate(y, month, day)
		if err != nil {
			continue
		}
		if insideWindow(d, period) {
			return y, nil
		}
	}
	return 0, fmt.Errorf("%w: %02d-%02d", ErrAmbiguousYear, month, day)
}

func insideWindow(d time.Time, p models.Period) bool {
	lower := p.Start.AddDate(0, 0, -periodLead)
	return !d.Before(lower) && !d.After(p.End)
}

func calendarDate(year, month, day int) (time.Time, error) {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, fmt.Errorf("%w: invalid calendar date %02d-%02d", ErrMalformedRecord, month, day)
	}
	return d, nil
}
