package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ledgerlens/statement-ledger/internal/api"
	"github.com/ledgerlens/statement-ledger/internal/config"
	"github.com/ledgerlens/statement-ledger/internal/engine"
	"github.com/ledgerlens/statement-ledger/internal/logger"
	"github.com/ledgerlens/statement-ledger/internal/writer"
)

const version = "1.0.0"

// globList lets -glob be given more than once.
type globList []string

func (g *globList) String() string { return strings.Join(*g, ",") }

func (g *globList) Set(v string) error {
	*g = append(*g, v)
	return nil
}

func main() {
	var globs globList
	inputFlag := flag.String("input", ".", "Directory containing statement PDFs")
	outputFlag := flag.String("output", "ledger.csv", "Output CSV file path")
	flag.Var(&globs, "glob", "File name glob to include (repeatable; default all PDFs)")
	bankFlag := flag.String("bank", "", "Bank type: desjardins, td, visa (auto-detected if omitted)")
	configFlag := flag.String("config", ".statementledger.yaml", "Path to settings file")
	workersFlag := flag.Int("workers", 4, "Number of documents processed in parallel")
	verboseFlag := flag.Bool("verbose", false, "Enable debug logging")
	serveFlag := flag.String("serve", "", "Run the HTTP API on this address (e.g. :8080) instead of converting")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Statement Ledger

Converts credit-card statement PDFs from Desjardins, TD, and generic Visa
issuers into one normalized transaction ledger, pairing reimbursements with
the purchases they refund.

Usage:
  statement-ledger [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert every PDF in the current directory
  statement-ledger -output ledger.csv

  # Only 2024 Desjardins statements
  statement-ledger -input ~/statements -glob 'desjardins-2024-*.pdf' -bank desjardins

  # Run the HTTP API
  statement-ledger -serve :8080

Supported banks:
  desjardins  - Desjardins card statements (French, DD MM date pairs)
  td          - TD statements of account
  visa        - Generic Visa statements (ISO dates, signed amounts)
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-ledger v%s\n", version)
		return
	}

	log := logger.New(*verboseFlag)

	if *serveFlag != "" {
		app := api.NewApp()
		log.Info().Str("addr", *serveFlag).Msg("serving HTTP API")
		if err := app.Listen(*serveFlag); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	}

	settings, err := config.Load(*configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load settings")
	}
	filter, err := settings.Filter()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid merchant filter")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	entries, summary, err := engine.Run(ctx, engine.Options{
		InputDir: *inputFlag,
		Globs:    globs,
		Bank:     *bankFlag,
		Workers:  *workersFlag,
		Filter:   filter,
		Log:      log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}

	if err := writer.WriteFile(*outputFlag, entries); err != nil {
		log.Fatal().Err(err).Msg("could not write output")
	}

	log.Info().
		Str("output", *outputFlag).
		Int("rows", len(entries)).
		Int("documents", summary.DocumentsParsed).
		Int("documents_skipped", summary.DocumentsSkipped).
		Int("records_skipped", summary.RecordsSkipped).
		Int("payments_dropped", summary.PaymentsDropped).
		Int("pairs_matched", summary.PairsMatched).
		Int("rows_ignored", summary.RowsIgnored).
		Msg("ledger written")
	for _, name := range summary.Unparsed {
		log.Warn().Str("file", name).Msg("document was not converted")
	}
}
