// Package ledger merges per-document transaction lists into one output
// ledger.
package ledger

import (
	"sort"

	"github.com/ledgerlens/statement-ledger/internal/models"
)

type dedupKey struct {
	date     string
	amount   string
	merchant string
	document string
}

// Build concatenates reconciled documents, drops payment rows, removes exact
// duplicates within each document, and sorts by date. Duplicate keys keep the
// first occurrence; rows on the same date keep their statement order.
func Build(docs [][]models.ReconciledTransaction) []models.ReconciledTransaction {
	var merged []models.ReconciledTransaction
	seen := make(map[dedupKey]bool)

	for _, doc := range docs {
		for _, tx := range doc {
			if tx.IsPayment {
				continue
			}
			key := dedupKey{
				date:     tx.Date.Format("2006-01-02"),
				amount:   tx.Amount.String(),
				merchant: tx.Merchant,
				document: tx.DocumentID,
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, tx)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].Date.Equal(merged[j].Date) {
			return merged[i].Date.Before(merged[j].Date)
		}
		return false
	})

	return merged
}
