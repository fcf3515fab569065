package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/ledgerlens/statement-ledger/internal/models"
)

func period(start, end string) models.Period {
	s, _ := parseISODate(start)
	e, _ := parseISODate(end)
	return models.Period{Start: s, End: e}
}

func TestInferYear(t *testing.T) {
	tests := []struct {
		name       string
		month, day int
		period     models.Period
		want       int
		wantErr    bool
	}{
		{"inside period", 11, 5, period("2025-10-31", "2025-11-28"), 2025, false},
		{"lead before period start", 10, 15, period("2025-10-31", "2025-11-28"), 2025, false},
		{"december in year-end crossing", 12, 20, period("2024-12-15", "2025-01-14"), 2024, false},
		{"january in year-end crossing", 1, 5, period("2024-12-15", "2025-01-14"), 2025, false},
		{"far outside window", 6, 1, period("2024-12-15", "2025-01-14"), 0, true},
		{"no period metadata", 3, 5, models.Period{}, 0, true},
		{"invalid day", 2, 30, period("2025-01-01", "2025-12-31"), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InferYear(tt.month, tt.day, tt.period)
			if tt.wantErr {
				if !errors.Is(err, ErrAmbiguousYear) {
					t.Fatalf("error: got %v, want ErrAmbiguousYear", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("year: got %d, want %d", got, tt.want)
			}
		})
	}
}

func startRecord(docID string, lines ...models.ClassifiedLine) models.CandidateRecord {
	return models.CandidateRecord{DocumentID: docID, Lines: lines}
}

func TestNormalizeRecordDebit(t *testing.T) {
	lay := NewVisaParser().layout
	rec := startRecord("mars.pdf",
		classified(models.LineStart, "2024-03-05 TIM HORTONS #1234 -4.50"),
	)

	tx, err := NormalizeRecord(lay, rec, models.Period{}, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC); !tx.Date.Equal(want) {
		t.Errorf("Date: got %v, want %v", tx.Date, want)
	}
	if tx.Amount.String() != "-4.5" {
		t.Errorf("Amount: got %s, want -4.5", tx.Amount)
	}
	if tx.Merchant != "TIM HORTONS #1234" {
		t.Errorf("Merchant: got %q", tx.Merchant)
	}
	if tx.IsPayment {
		t.Error("IsPayment: got true, want false")
	}
	if tx.Ordinal != 7 || tx.DocumentID != "mars.pdf" {
		t.Errorf("identity: got ordinal %d doc %q", tx.Ordinal, tx.DocumentID)
	}
}

func TestNormalizeRecordContinuationAndCurrency(t *testing.T) {
	lay := NewVisaParser().layout
	rec := startRecord("mars.pdf",
		classified(models.LineStart, "2024-03-07 AIR  CANADA -168.40"),
		classified(models.LineContinuation, "  TORONTO ON "),
		classified(models.LineCurrencyDetail, "120.00 USD"),
	)

	tx, err := NormalizeRecord(lay, rec, models.Period{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Merchant != "AIR CANADA TORONTO ON" {
		t.Errorf("Merchant: got %q", tx.Merchant)
	}
	if tx.ForeignAmount == nil || tx.ForeignAmount.String() != "120" {
		t.Errorf("ForeignAmount: got %v", tx.ForeignAmount)
	}
	if tx.ForeignCurrency != "USD" {
		t.Errorf("ForeignCurrency: got %q", tx.ForeignCurrency)
	}
}

func TestNormalizeRecordPayment(t *testing.T) {
	lay := NewVisaParser().layout
	rec := startRecord("mars.pdf",
		classified(models.LineStart, "2024-03-10 PAYMENT THANK YOU 500.00"),
	)

	tx, err := NormalizeRecord(lay, rec, models.Period{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.IsPayment {
		t.Error("IsPayment: got false, want true")
	}
	if tx.Amount.String() != "500" {
		t.Errorf("Amount: got %s, want 500", tx.Amount)
	}
}

func TestNormalizeRecordOutsideStatementWindow(t *testing.T) {
	lay := NewVisaParser().layout
	rec := startRecord("mars.pdf",
		classified(models.LineStart, "2023-06-05 OLD PURCHASE -10.00"),
	)

	_, err := NormalizeRecord(lay, rec, period("2024-03-01", "2024-03-31"), 0)
	if !errors.Is(err, ErrAmbiguousYear) {
		t.Fatalf("error: got %v, want ErrAmbiguousYear", err)
	}
}

func TestNormalizeRecordMalformed(t *testing.T) {
	lay := NewVisaParser().layout
	rec := startRecord("mars.pdf",
		classified(models.LineStart, "not a transaction line"),
	)

	_, err := NormalizeRecord(lay, rec, models.Period{}, 0)
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("error: got %v, want ErrMalformedRecord", err)
	}
}
