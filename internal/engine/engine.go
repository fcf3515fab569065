// Package engine runs the end-to-end conversion over a batch of statement
// documents.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ledgerlens/statement-ledger/internal/config"
	"github.com/ledgerlens/statement-ledger/internal/extractor"
	"github.com/ledgerlens/statement-ledger/internal/ledger"
	"github.com/ledgerlens/statement-ledger/internal/models"
	"github.com/ledgerlens/statement-ledger/internal/parser"
	"github.com/ledgerlens/statement-ledger/internal/reconcile"
)

// ErrNoDocuments means the input produced zero parseable documents.
var ErrNoDocuments = errors.New("no documents could be parsed")

const defaultWorkers = 4

// Options configures one batch run.
type Options struct {
	InputDir string
	// Globs restricts which file names are processed. Empty means every
	// PDF in the directory.
	Globs []string
	// Bank forces a specific parser instead of auto-detection.
	Bank    string
	Workers int
	Filter  *config.MerchantFilter
	Log     zerolog.Logger
}

// Summary reports what a run did.
type Summary struct {
	DocumentsParsed  int
	DocumentsSkipped int
	RecordsSkipped   int
	PaymentsDropped  int
	PairsMatched     int
	RowsIgnored      int
	// Unparsed lists the files that were skipped, for the run report.
	Unparsed []string
}

type docResult struct {
	txs             []models.ReconciledTransaction
	recordsSkipped  int
	paymentsDropped int
	pairsMatched    int
	err             error
}

// Run converts every matching document under opts.InputDir and returns the
// merged ledger. Documents are processed concurrently but merged in file
// name order, so output is deterministic. Individual unreadable or
// unrecognized documents are skipped and reported in the summary; Run fails
// only when nothing parses at all.
func Run(ctx context.Context, opts Options) ([]models.ReconciledTransaction, *Summary, error) {
	files, err := CollectFiles(opts.InputDir, opts.Globs)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w: no files match under %s", ErrNoDocuments, opts.InputDir)
	}

	var forced parser.Parser
	if opts.Bank != "" {
		forced = parser.New(opts.Bank)
		if forced == nil {
			return nil, nil, fmt.Errorf("unknown bank %q", opts.Bank)
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	log := opts.Log.With().Str("run_id", uuid.NewString()).Logger()
	log.Info().Int("documents", len(files)).Int("workers", workers).Msg("starting run")

	results := make([]docResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = processDocument(log, file, forced)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	summary := &Summary{}
	var docs [][]models.ReconciledTransaction
	for i, res := range results {
		if res.err != nil {
			summary.DocumentsSkipped++
			summary.Unparsed = append(summary.Unparsed, filepath.Base(files[i]))
			log.Warn().Str("file", filepath.Base(files[i])).Err(res.err).Msg("document skipped")
			continue
		}
		summary.DocumentsParsed++
		summary.RecordsSkipped += res.recordsSkipped
		summary.PaymentsDropped += res.paymentsDropped
		summary.PairsMatched += res.pairsMatched
		docs = append(docs, res.txs)
	}
	if summary.DocumentsParsed == 0 {
		return nil, summary, fmt.Errorf("%w: all %d documents failed", ErrNoDocuments, len(files))
	}

	entries := ledger.Build(docs)
	entries = applyFilter(entries, opts.Filter, summary)

	log.Info().
		Int("parsed", summary.DocumentsParsed).
		Int("skipped", summary.DocumentsSkipped).
		Int("rows", len(entries)).
		Msg("run complete")
	return entries, summary, nil
}

// CollectFiles lists the PDF files under dir matching the globs, sorted by
// name. Globs apply to the base file name, case-insensitively.
func CollectFiles(dir string, globs []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		if len(globs) > 0 && !matchAny(globs, name) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

func matchAny(globs []string, name string) bool {
	lower := strings.ToLower(name)
	for _, g := range globs {
		if ok, _ := path.Match(strings.ToLower(g), lower); ok {
			return true
		}
	}
	return false
}

func processDocument(log zerolog.Logger, file string, forced parser.Parser) docResult {
	docID := filepath.Base(file)
	dl := log.With().Str("document", docID).Logger()

	pages, err := extractor.ExtractText(file)
	if err != nil {
		return docResult{err: err}
	}

	p, err := parser.Resolve(pages[0], forced)
	if err != nil {
		return docResult{err: err}
	}
	dl.Debug().Str("bank", p.Name()).Int("pages", len(pages)).Msg("parsing")

	res, err := p.Parse(pages, docID)
	if err != nil {
		return docResult{err: err}
	}
	for _, sk := range res.Skipped {
		dl.Warn().Str("line", sk.Line).Err(sk.Err).Msg("record skipped")
	}

	reconciled := reconcile.Reconcile(res.Transactions)

	out := docResult{txs: reconciled, recordsSkipped: len(res.Skipped)}
	for _, tx := range reconciled {
		if tx.IsPayment {
			out.paymentsDropped++
		}
		if tx.Excluded {
			out.pairsMatched++
		}
	}
	out.pairsMatched /= 2
	return out
}

func applyFilter(entries []models.ReconciledTransaction, f *config.MerchantFilter, summary *Summary) []models.ReconciledTransaction {
	if f.Empty() {
		return entries
	}
	kept := entries[:0]
	for _, e := range entries {
		if f.Match(e.Merchant) {
			summary.RowsIgnored++
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
