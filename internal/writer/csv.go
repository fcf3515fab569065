// Package writer renders the output ledger as CSV.
package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/ledgerlens/statement-ledger/internal/models"
)

// Row is one CSV output line. Column order matches the struct field order.
type Row struct {
	Date            string `csv:"date"`
	Amount          string `csv:"amount"`
	Merchant        string `csv:"merchant"`
	ForeignAmount   string `csv:"foreign_amount"`
	ForeignCurrency string `csv:"foreign_currency"`
	Excluded        bool   `csv:"excluded_from_expense"`
}

// Rows converts ledger entries to CSV rows. Amounts are fixed to two decimal
// places; foreign-currency columns are empty when the transaction settled in
// the home currency.
func Rows(entries []models.ReconciledTransaction) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		row := Row{
			Date:     e.Date.Format("2006-01-02"),
			Amount:   e.Amount.StringFixed(2),
			Merchant: e.Merchant,
			Excluded: e.Excluded,
		}
		if e.ForeignAmount != nil {
			row.ForeignAmount = e.ForeignAmount.StringFixed(2)
			row.ForeignCurrency = e.ForeignCurrency
		}
		rows = append(rows, row)
	}
	return rows
}

// Write emits the ledger as CSV, header first, one row per entry.
func Write(w io.Writer, entries []models.ReconciledTransaction) error {
	return gocsv.Marshal(Rows(entries), w)
}

// WriteFile writes the CSV atomically: the output path never holds a partial
// file, even if the process dies mid-write.
func WriteFile(path string, entries []models.ReconciledTransaction) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, entries); err != nil {
		tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
