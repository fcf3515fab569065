package parser

import (
	"testing"

	"github.com/ledgerlens/statement-ledger/internal/models"
)

func classified(kind models.LineKind, text string) models.ClassifiedLine {
	return models.ClassifiedLine{RawLine: models.RawLine{Text: text}, Kind: kind}
}

func TestAssemble(t *testing.T) {
	lines := []models.ClassifiedLine{
		classified(models.LineMetadata, "Page 1"),
		classified(models.LineContinuation, "orphan before any start"),
		classified(models.LineStart, "05/03 TIM HORTONS 4.50"),
		classified(models.LineContinuation, "MONTREAL QC"),
		classified(models.LineCurrencyDetail, "3.20 USD"),
		classified(models.LineMetadata, "CREDIT LIMIT 5,000.00"),
		classified(models.LineStart, "07/03 AIR CANADA 120.00"),
		classified(models.LineNoise, ""),
	}

	records := Assemble("mars.pdf", lines)

	if len(records) != 2 {
		t.Fatalf("records: got %d, want 2", len(records))
	}

	first := records[0]
	if first.DocumentID != "mars.pdf" {
		t.Errorf("DocumentID: got %q, want %q", first.DocumentID, "mars.pdf")
	}
	if first.Start().Text != "05/03 TIM HORTONS 4.50" {
		t.Errorf("Start: got %q", first.Start().Text)
	}
	if len(first.Lines) != 3 {
		t.Fatalf("first record lines: got %d, want 3", len(first.Lines))
	}
	if first.Lines[1].Kind != models.LineContinuation || first.Lines[2].Kind != models.LineCurrencyDetail {
		t.Errorf("first record kinds: got %v, %v", first.Lines[1].Kind, first.Lines[2].Kind)
	}

	second := records[1]
	if len(second.Lines) != 1 {
		t.Fatalf("second record lines: got %d, want 1", len(second.Lines))
	}
	if second.Start().Text != "07/03 AIR CANADA 120.00" {
		t.Errorf("second Start: got %q", second.Start().Text)
	}
}

func TestAssembleOpenRecordClosesAtEOF(t *testing.T) {
	lines := []models.ClassifiedLine{
		classified(models.LineStart, "05/03 TIM HORTONS 4.50"),
		classified(models.LineContinuation, "MONTREAL QC"),
	}

	records := Assemble("doc.pdf", lines)
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	if len(records[0].Lines) != 2 {
		t.Errorf("lines: got %d, want 2", len(records[0].Lines))
	}
}

func TestAssembleEmptyInput(t *testing.T) {
	if records := Assemble("doc.pdf", nil); len(records) != 0 {
		t.Errorf("records: got %d, want 0", len(records))
	}
}
