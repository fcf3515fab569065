package parser

import "github.com/ledgerlens/statement-ledger/internal/models"

// Assemble groups classified lines into candidate records.
//
// A Start line opens a new record, closing any record still open.
// Continuation and CurrencyDetail lines append to the open record; Metadata
// and Noise lines are dropped without affecting state. End of input closes
// the open record. Every emitted record has exactly one Start line, first,
// and emission order equals input order.
func Assemble(docID string, lines []models.ClassifiedLine) []models.CandidateRecord {
	var records []models.CandidateRecord
	var open *models.CandidateRecord

	flush := func() {
		if open != nil {
			records = append(records, *open)
			open = nil
		}
	}

	for _, line := range lines {
		switch line.Kind {
		case models.LineStart:
			flush()
			open = &models.CandidateRecord{
				DocumentID: docID,
				Lines:      []models.ClassifiedLine{line},
			}
		case models.LineContinuation, models.LineCurrencyDetail:
			if open != nil {
				open.Lines = append(open.Lines, line)
			}
		}
	}
	flush()

	return records
}
