// Package reconcile pairs reimbursement credits with the purchases they
// refund so both legs can be excluded from expense totals.
package reconcile

import "github.com/ledgerlens/statement-ledger/internal/models"

// Reconcile matches each non-payment credit against the nearest preceding
// unmatched debit of the exact opposite amount, in statement order. Matched
// pairs are flagged excluded and cross-reference each other's ordinals. The
// input slice is not modified and output order equals input order.
func Reconcile(txs []models.Transaction) []models.ReconciledTransaction {
	out := make([]models.ReconciledTransaction, len(txs))
	for i, tx := range txs {
		out[i] = models.ReconciledTransaction{Transaction: tx, MatchedWith: -1}
	}

	matched := make(map[int]bool, len(txs))
	for i := range out {
		credit := &out[i]
		if credit.IsPayment || credit.Amount.Sign() <= 0 || matched[i] {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			debit := &out[j]
			if matched[j] || debit.IsPayment || debit.Amount.Sign() >= 0 {
				continue
			}
			if debit.Amount.Neg().Equal(credit.Amount) {
				matched[i] = true
				matched[j] = true
				credit.Excluded = true
				debit.Excluded = true
				credit.MatchedWith = debit.Ordinal
				debit.MatchedWith = credit.Ordinal
				break
			}
		}
	}

	return out
}
