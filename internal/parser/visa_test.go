package parser

import (
	"testing"
	"time"
)

const visaPage = `VISA DESJARDINS ODYSSEY
STATEMENT PERIOD 2024-03-01 to 2024-03-31
2024-03-05 TIM HORTONS #1234 -4.50
2024-03-07 AIR CANADA -168.40
120.00 USD
2024-03-10 PAYMENT THANK YOU 500.00
2024-03-12 REMBOURSEMENT AIR CANADA 168.40
TOTAL 350.00
Page 1 of 1`

func TestVisaParserParse(t *testing.T) {
	p := NewVisaParser()

	res, err := p.Parse([]string{visaPage}, "mars.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Skipped) != 0 {
		t.Fatalf("skipped: got %d, want 0: %v", len(res.Skipped), res.Skipped)
	}
	if len(res.Transactions) != 4 {
		t.Fatalf("transactions: got %d, want 4", len(res.Transactions))
	}

	wantStart, _ := parseISODate("2024-03-01")
	if !res.Period.Start.Equal(wantStart) {
		t.Errorf("period start: got %v", res.Period.Start)
	}

	tim := res.Transactions[0]
	if tim.Merchant != "TIM HORTONS #1234" || tim.Amount.String() != "-4.5" {
		t.Errorf("txn[0]: got %q %s", tim.Merchant, tim.Amount)
	}
	if !tim.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("txn[0].Date: got %v", tim.Date)
	}

	air := res.Transactions[1]
	if air.Amount.String() != "-168.4" {
		t.Errorf("txn[1].Amount: got %s", air.Amount)
	}
	if air.ForeignAmount == nil || air.ForeignAmount.String() != "120" || air.ForeignCurrency != "USD" {
		t.Errorf("txn[1] foreign: got %v %q", air.ForeignAmount, air.ForeignCurrency)
	}

	payment := res.Transactions[2]
	if !payment.IsPayment || payment.Amount.String() != "500" {
		t.Errorf("txn[2]: IsPayment=%v amount=%s", payment.IsPayment, payment.Amount)
	}

	refund := res.Transactions[3]
	if refund.IsPayment {
		t.Error("txn[3]: refund flagged as payment")
	}
	if refund.Amount.String() != "168.4" {
		t.Errorf("txn[3].Amount: got %s", refund.Amount)
	}
	if refund.Ordinal != 3 {
		t.Errorf("txn[3].Ordinal: got %d, want 3", refund.Ordinal)
	}
}

func TestVisaStartAmountSigns(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		amount string
		credit bool
	}{
		{"unsigned is a purchase", "2024-03-05 GROCERY MART 4.50", "4.5", false},
		{"minus is a purchase", "2024-03-05 TIM HORTONS #1234 -4.50", "4.5", false},
		{"CR suffix is a credit", "2024-03-05 GROCERY MART 4.50 CR", "4.5", true},
		{"explicit plus is a credit", "2024-03-05 GROCERY MART +4.50", "4.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sf, err := extractVisaStart(tt.line)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sf.Amount.String() != tt.amount {
				t.Errorf("amount: got %s, want %s", sf.Amount, tt.amount)
			}
			if sf.Credit != tt.credit {
				t.Errorf("credit: got %v, want %v", sf.Credit, tt.credit)
			}
		})
	}
}

func TestVisaUnsignedAmountWithoutKeywordIsDebit(t *testing.T) {
	p := NewVisaParser()

	res, err := p.Parse([]string{"2024-03-05 GROCERY MART 4.50"}, "mars.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Transactions) != 1 {
		t.Fatalf("transactions: got %d, want 1", len(res.Transactions))
	}
	tx := res.Transactions[0]
	if tx.Amount.String() != "-4.5" {
		t.Errorf("amount: got %s, want -4.5", tx.Amount)
	}
	if tx.IsPayment {
		t.Error("IsPayment: got true, want false")
	}
}

func TestVisaParserCanParse(t *testing.T) {
	p := NewVisaParser()
	if !p.CanParse(visaPage) {
		t.Error("CanParse: got false for a visa page")
	}
	if p.CanParse("THE TORONTO-DOMINION BANK\nSTATEMENT OF ACCOUNT") {
		t.Error("CanParse: claimed a TD page")
	}
}
