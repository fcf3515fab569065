package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ledgerlens/statement-ledger/internal/models"
)

// TDParser handles TD statements of account. Transaction lines put the
// description first, then one or two amount columns, then a month-day token,
// then the running balance:
//
//	MACS CONV. STORE W/D  133.60  NOV 3  4,388.15
//	PAYMENT - THANK YOU  1,234.56  NOV 12  5,622.71
//
// When both the withdrawal and deposit columns are printed, a non-zero
// deposit wins. A single printed amount is treated as a withdrawal; deposit
// rows announce themselves through their description.
const tdMonths = `JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC`

const tdAmount = `-?\$?[\d,]+\.\d{2}`

var (
	tdStartPattern = regexp.MustCompile(
		`^(.+?)\s+(` + tdAmount + `)(?:\s+(` + tdAmount + `))?\s+((?:` + tdMonths + `)\s?\d{1,2})\s+(` + tdAmount + `)$`)
	tdDatePattern   = regexp.MustCompile(`(` + tdMonths + `)\s?(\d{1,2})`)
	tdPeriodPattern = regexp.MustCompile(`(` + tdMonths + `)\s*(\d{1,2})/(\d{2})-(` + tdMonths + `)\s*(\d{1,2})/(\d{2})`)
)

var tdMonthNum = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

type TDParser struct {
	layout Layout
}

func NewTDParser() *TDParser {
	return &TDParser{
		layout: Layout{
			Name: "td",
			Bank: models.BankTD,
			Rules: Rules{
				Start: tdStartPattern,
				MetadataKeywords: []string{
					"STARTINGBALANCE",
					"CLOSINGBALANCE",
					"STARTING BALANCE",
					"CLOSING BALANCE",
					"STATEMENT OF ACCOUNT",
					"TORONTO-DOMINION",
				},
				BalanceKeywords: []string{"STARTING BALANCE", "CLOSING BALANCE", "STARTINGBALANCE", "CLOSINGBALANCE"},
			},
			ExtractStart:    extractTDStart,
			PaymentKeywords: []string{"PAYMENT"},
			CreditKeywords:  []string{"DEPOSIT", "REFUND", "TFR-IN"},
		},
	}
}

func (p *TDParser) Name() string { return p.layout.Name }

func (p *TDParser) CanParse(firstPage string) bool {
	squeezed := strings.ReplaceAll(strings.ToUpper(firstPage), " ", "")
	return strings.Contains(squeezed, "TORONTO-DOMINION") &&
		strings.Contains(squeezed, "STATEMENTOFACCOUNT")
}

func (p *TDParser) Parse(pages []string, docID string) (*Result, error) {
	period := tdPeriod(pages, docID)
	return parseWithLayout(p.layout, pages, docID, period), nil
}

func extractTDStart(text string) (StartFields, error) {
	m := tdStartPattern.FindStringSubmatch(text)
	if m == nil {
		return StartFields{}, fmt.Errorf("%w: %q", ErrMalformedRecord, text)
	}

	dm := tdDatePattern.FindStringSubmatch(m[4])
	month := tdMonthNum[dm[1]]
	day, _ := strconv.Atoi(dm[2])

	withdrawal, _, err := ParseAmount(m[2])
	if err != nil {
		return StartFields{}, fmt.Errorf("%w: amount %q: %v", ErrMalformedRecord, m[2], err)
	}

	amount := withdrawal
	credit := false
	if m[3] != "" {
		deposit, _, err := ParseAmount(m[3])
		if err != nil {
			return StartFields{}, fmt.Errorf("%w: amount %q: %v", ErrMalformedRecord, m[3], err)
		}
		if !deposit.IsZero() {
			amount = deposit
			credit = true
		}
	}

	return StartFields{
		Month:    month,
		Day:      day,
		Merchant: m[1],
		Amount:   amount.Abs(),
		Credit:   credit,
	}, nil
}

// tdPeriod reads the "OCT31/25-NOV28/25" statement range. Without one, the
// inference window widens to the whole year taken from the file name, or the
// current year.
func tdPeriod(pages []string, docID string) models.Period {
	for _, page := range pages {
		if m := tdPeriodPattern.FindStringSubmatch(page); m != nil {
			sd, _ := strconv.Atoi(m[2])
			sy, _ := strconv.Atoi(m[3])
			ed, _ := strconv.Atoi(m[5])
			ey, _ := strconv.Atoi(m[6])
			start := time.Date(2000+sy, time.Month(tdMonthNum[m[1]]), sd, 0, 0, 0, 0, time.UTC)
			end := time.Date(2000+ey, time.Month(tdMonthNum[m[4]]), ed, 0, 0, 0, 0, time.UTC)
			if !end.Before(start) {
				return models.Period{Start: start, End: end}
			}
		}
	}

	year := time.Now().Year()
	if y, ok := yearFromName(docID); ok {
		year = y
	}
	return models.Period{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}
