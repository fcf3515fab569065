// Package models holds the data types shared across the statement pipeline.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineKind labels what a raw statement line means to the record assembler.
type LineKind int

const (
	LineNoise LineKind = iota
	LineStart
	LineContinuation
	LineCurrencyDetail
	LineMetadata
)

func (k LineKind) String() string {
	switch k {
	case LineStart:
		return "start"
	case LineContinuation:
		return "continuation"
	case LineCurrencyDetail:
		return "currency-detail"
	case LineMetadata:
		return "metadata"
	default:
		return "noise"
	}
}

// RawLine is one line of text extracted from a statement page.
type RawLine struct {
	Text  string
	Page  int
	Index int
}

// ClassifiedLine is a raw line plus its classification.
type ClassifiedLine struct {
	RawLine
	Kind LineKind
}

// CandidateRecord is a group of classified lines forming one transaction.
// The first line is always the Start line.
type CandidateRecord struct {
	DocumentID string
	Lines      []ClassifiedLine
}

// Start returns the record's opening line.
func (r CandidateRecord) Start() ClassifiedLine { return r.Lines[0] }

// Period is the date range one statement document covers.
type Period struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether no period metadata was found for the document.
func (p Period) IsZero() bool { return p.Start.IsZero() && p.End.IsZero() }

// BankType identifies a supported statement layout.
type BankType string

const (
	BankDesjardins BankType = "desjardins"
	BankTD         BankType = "td"
	BankVisa       BankType = "visa"
)

// Transaction is one normalized statement entry.
//
// Amount is in statement currency and is negative for debits (purchases),
// positive for credits (payments and reimbursements). The sign convention is
// uniform across the whole ledger.
type Transaction struct {
	Date            time.Time
	Amount          decimal.Decimal
	Merchant        string
	ForeignAmount   *decimal.Decimal
	ForeignCurrency string
	IsPayment       bool
	DocumentID      string
	// Ordinal is the record's index within its document, assigned during
	// assembly. It identifies the record's source line span and breaks
	// same-day ties when the ledger is sorted.
	Ordinal int
}

// ReconciledTransaction is a transaction plus its reconciliation outcome.
// MatchedWith holds the ordinal of the paired transaction in the same
// document, or -1 when unmatched. It is a back-link, not ownership.
type ReconciledTransaction struct {
	Transaction
	Excluded    bool
	MatchedWith int
}
