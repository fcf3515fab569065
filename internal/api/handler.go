// Package api exposes the converter over HTTP.
package api

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ledgerlens/statement-ledger/internal/extractor"
	"github.com/ledgerlens/statement-ledger/internal/ledger"
	"github.com/ledgerlens/statement-ledger/internal/models"
	"github.com/ledgerlens/statement-ledger/internal/parser"
	"github.com/ledgerlens/statement-ledger/internal/reconcile"
	"github.com/ledgerlens/statement-ledger/internal/writer"
)

// ConvertResponse is the JSON body returned by the convert endpoint.
type ConvertResponse struct {
	Success        bool         `json:"success"`
	Error          string       `json:"error,omitempty"`
	Bank           string       `json:"bank,omitempty"`
	Rows           []writer.Row `json:"rows,omitempty"`
	CSV            string       `json:"csv,omitempty"`
	Count          int          `json:"count"`
	RecordsSkipped int          `json:"records_skipped"`
}

// NewApp builds the fiber application with all routes registered.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 32 << 20,
		AppName:   "statement-ledger",
	})
	app.Get("/api/health", HandleHealth)
	app.Post("/api/convert", HandleConvert)
	return app
}

func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "engine": "fiber"})
}

// HandleConvert accepts a single PDF as multipart field "file" and returns
// the reconciled ledger for that document. An optional "bank" form value
// forces a parser instead of auto-detection.
func HandleConvert(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "missing multipart field 'file'")
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		return writeError(c, fiber.StatusBadRequest, "only PDF files are accepted")
	}

	tmp, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "could not store upload")
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(fh, tmpPath); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "could not store upload")
	}

	pages, err := extractor.ExtractText(tmpPath)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	var forced parser.Parser
	if bank := c.FormValue("bank"); bank != "" {
		forced = parser.New(bank)
		if forced == nil {
			return writeError(c, fiber.StatusBadRequest, "unknown bank '"+bank+"'")
		}
	}
	p, err := parser.Resolve(pages[0], forced)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	res, err := p.Parse(pages, fh.Filename)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	entries := ledger.Build([][]models.ReconciledTransaction{reconcile.Reconcile(res.Transactions)})

	var buf bytes.Buffer
	if err := writer.Write(&buf, entries); err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(ConvertResponse{
		Success:        true,
		Bank:           p.Name(),
		Rows:           writer.Rows(entries),
		CSV:            buf.String(),
		Count:          len(entries),
		RecordsSkipped: len(res.Skipped),
	})
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{Success: false, Error: msg})
}
