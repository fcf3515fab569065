package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ledgerlens/statement-ledger/internal/models"
)

// DesjardinsParser handles French-language Desjardins card statements. Each
// transaction line starts with two DD MM pairs, the transaction date and the
// posting date, and ends with a comma-decimal amount:
//
//	15 06  17 06  METRO RICHELIEU 1234  45,67
//
// Credits carry a CR suffix or accounting parentheses. Some lines append an
// interest percentage after the amount, which is dropped.
var (
	desjardinsStartPattern    = regexp.MustCompile(`^(\d{2}) (\d{2})\s+(\d{2}) (\d{2})\s+(.+)$`)
	// Digit grouping inside an amount is a non-breaking space; an ASCII
	// space would swallow trailing merchant digits into the amount.
	desjardinsAmountPattern   = regexp.MustCompile(`(\(?\d[\d\x{00a0}]*,\d{2}\)?(?:\s*CR)?)$`)
	desjardinsPercentPattern  = regexp.MustCompile(`\s*\d+,\d{2}\s*%$`)
	desjardinsCurrencyPattern = regexp.MustCompile(`^(\d[\d \x{00a0}]*,\d{2})\s+([A-Z]{3})\b`)
	desjardinsYearPattern     = regexp.MustCompile(`(?i)Ann[ée]e\s+(\d{4})`)
	yearDigitsPattern         = regexp.MustCompile(`(20\d{2})`)
)

type DesjardinsParser struct {
	layout Layout
}

func NewDesjardinsParser() *DesjardinsParser {
	return &DesjardinsParser{
		layout: Layout{
			Name: "desjardins",
			Bank: models.BankDesjardins,
			Rules: Rules{
				Start:          desjardinsStartPattern,
				CurrencyDetail: desjardinsCurrencyPattern,
				MetadataKeywords: []string{
					"DATE DU RELE",
					"DESJARDINS",
					"LIMITE DE CREDIT",
					"TAUX",
					"PAGE",
					"ANNEE",
					"ANNÉE",
				},
				BalanceKeywords: []string{"SOLDE", "TOTAL"},
			},
			ExtractStart:    extractDesjardinsStart,
			PaymentKeywords: []string{"PAIEMENT CAISSE", "PAIEMENT RECU"},
			CreditKeywords:  []string{"REMBOURSEMENT", "REMISE", "RETOUR"},
		},
	}
}

func (p *DesjardinsParser) Name() string { return p.layout.Name }

func (p *DesjardinsParser) CanParse(firstPage string) bool {
	upper := strings.ToUpper(firstPage)
	return strings.Contains(upper, "DESJARDINS") && strings.Contains(upper, "DATE DU RELE")
}

func (p *DesjardinsParser) Parse(pages []string, docID string) (*Result, error) {
	year := desjardinsYear(pages, docID)
	// Transaction dates only carry day and month; the statement gives one
	// year, so the inference window is the whole calendar year.
	period := models.Period{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	return parseWithLayout(p.layout, pages, docID, period), nil
}

func extractDesjardinsStart(text string) (StartFields, error) {
	m := desjardinsStartPattern.FindStringSubmatch(text)
	if m == nil {
		return StartFields{}, fmt.Errorf("%w: %q", ErrMalformedRecord, text)
	}

	txDay, _ := strconv.Atoi(m[1])
	txMonth, _ := strconv.Atoi(m[2])
	postDay, _ := strconv.Atoi(m[3])
	postMonth, _ := strconv.Atoi(m[4])

	if postMonth < txMonth || (postMonth == txMonth && postDay < txDay) {
		return StartFields{}, fmt.Errorf("%w: posting date %02d/%02d precedes transaction date %02d/%02d",
			ErrMalformedRecord, postDay, postMonth, txDay, txMonth)
	}

	rest := desjardinsPercentPattern.ReplaceAllString(strings.TrimSpace(m[5]), "")
	am := desjardinsAmountPattern.FindStringSubmatch(rest)
	if am == nil {
		return StartFields{}, fmt.Errorf("%w: no amount in %q", ErrMalformedRecord, text)
	}

	amount, cr, err := ParseAmount(am[1])
	if err != nil {
		return StartFields{}, fmt.Errorf("%w: amount %q: %v", ErrMalformedRecord, am[1], err)
	}

	return StartFields{
		Month:    txMonth,
		Day:      txDay,
		Merchant: strings.TrimSpace(strings.TrimSuffix(rest, am[1])),
		Amount:   amount.Abs(),
		Credit:   cr || amount.Sign() < 0,
	}, nil
}

// desjardinsYear finds the statement year, trying the "Année YYYY" banner
// first, then digits in the file name, then the current year.
func desjardinsYear(pages []string, docID string) int {
	for _, page := range pages {
		if m := desjardinsYearPattern.FindStringSubmatch(page); m != nil {
			y, _ := strconv.Atoi(m[1])
			return y
		}
	}
	if y, ok := yearFromName(docID); ok {
		return y
	}
	return time.Now().Year()
}
