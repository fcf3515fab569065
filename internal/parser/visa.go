package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledgerlens/statement-ledger/internal/models"
)

// VisaParser handles generic Visa statements whose transaction lines begin
// with an ISO date and end with a signed amount:
//
//	2024-03-05 TIM HORTONS #1234 -4.50
var (
	visaStartPattern    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})\s+(.+?)\s+([-+]?\(?\d[\d,]*\.\d{2}\)?(?:\s*CR)?)$`)
	visaCurrencyPattern = regexp.MustCompile(`^(-?\d[\d,]*\.\d{2})\s+([A-Z]{3})\b`)
	visaPeriodPattern   = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s+(?:to|au|AU|TO|-)\s+(\d{4}-\d{2}-\d{2})`)
)

type VisaParser struct {
	layout Layout
}

func NewVisaParser() *VisaParser {
	return &VisaParser{
		layout: Layout{
			Name: "visa",
			Bank: models.BankVisa,
			Rules: Rules{
				Start:          visaStartPattern,
				CurrencyDetail: visaCurrencyPattern,
				MetadataKeywords: []string{
					"PAGE",
					"LIMITE DE CREDIT",
					"CREDIT LIMIT",
					"TAUX D'INTERET",
					"INTEREST RATE",
					"RELEVE",
					"STATEMENT PERIOD",
				},
				BalanceKeywords: []string{"SOLDE", "BALANCE", "TOTAL"},
			},
			ExtractStart:    extractVisaStart,
			PaymentKeywords: []string{"PAIEMENT", "PAYMENT"},
			CreditKeywords:  []string{"REMBOURSEMENT", "REFUND", "CREDIT", "RETOUR"},
		},
	}
}

func (p *VisaParser) Name() string { return p.layout.Name }

func (p *VisaParser) CanParse(firstPage string) bool {
	for _, line := range strings.Split(firstPage, "\n") {
		if visaStartPattern.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

func (p *VisaParser) Parse(pages []string, docID string) (*Result, error) {
	period := visaPeriod(pages)
	return parseWithLayout(p.layout, pages, docID, period), nil
}

func extractVisaStart(text string) (StartFields, error) {
	m := visaStartPattern.FindStringSubmatch(text)
	if m == nil {
		return StartFields{}, fmt.Errorf("%w: %q", ErrMalformedRecord, text)
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	amount, cr, err := ParseAmount(m[5])
	if err != nil {
		return StartFields{}, fmt.Errorf("%w: amount %q: %v", ErrMalformedRecord, m[5], err)
	}

	// An amount is a debit unless the statement marks it as money in with a
	// CR suffix or an explicit plus. Bare unsigned amounts are purchases;
	// refunds and payments announce themselves through their description.
	return StartFields{
		Year:     year,
		Month:    month,
		Day:      day,
		Merchant: m[4],
		Amount:   amount.Abs(),
		Credit:   cr || strings.HasPrefix(m[5], "+"),
	}, nil
}

func visaPeriod(pages []string) models.Period {
	for _, page := range pages {
		if m := visaPeriodPattern.FindStringSubmatch(page); m != nil {
			start, err1 := parseISODate(m[1])
			end, err2 := parseISODate(m[2])
			if err1 == nil && err2 == nil && !end.Before(start) {
				return models.Period{Start: start, End: end}
			}
		}
	}
	return models.Period{}
}
