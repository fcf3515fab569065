// Package extractor turns statement PDFs into per-page text.
package extractor

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadableDocument means no extraction method produced readable text.
// The document is counted as skipped; it never fails the whole run.
var ErrUnreadableDocument = errors.New("no readable text could be extracted")

// ExtractText reads a statement PDF and returns one text string per page.
// Several extraction paths are tried in order of layout fidelity; output is
// accepted only when it passes the readability checks, so callers never see
// font-table garbage. Scanned image-only documents are rejected.
func ExtractText(filePath string) ([]string, error) {
	pages, libErr := extractWithLibrary(filePath)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}

	// Last resort: poppler's pdftotext, when installed. It decodes some
	// embedded font encodings the library cannot.
	if popplerPages, err := extractWithPdftotext(filePath); err == nil && isReadableText(popplerPages) {
		return popplerPages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, libErr)
	}
	return nil, fmt.Errorf("%w: document may be scanned or use undecodable font encodings", ErrUnreadableDocument)
}

// extractWithLibrary drives ledongthuc/pdf through its extraction methods,
// highest layout fidelity first. The library panics on some malformed
// cross-reference tables, so panics are converted to errors.
func extractWithLibrary(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library panic: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, errors.New("document has no pages")
	}

	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByContent(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByPagePlainText(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	if text := extractByReaderPlainText(r); isReadableText([]string{text}) {
		return []string{text}, nil
	}

	return pages, nil
}

// extractByRow uses GetTextByRow, which keeps each statement row on one line.
// This is what the line classifier wants, so it is tried first.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent reconstructs rows from raw positioned text objects:
// fragments are bucketed by Y coordinate, then ordered by X within each row.
// Wide X gaps become double spaces so amount columns stay separated from
// merchant text.
func extractByContent(r *pdf.Reader, numPages int) []string {
	type fragment struct {
		x float64
		s string
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rows := make(map[int][]fragment)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], fragment{x: t.X, s: t.S})
		}

		// PDF Y grows bottom-to-top.
		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		var lines []string
		for _, y := range ys {
			frags := rows[y]
			sort.Slice(frags, func(a, b int) bool { return frags[a].x < frags[b].x })

			var parts []string
			var prevX float64
			for j, fr := range frags {
				if j > 0 && fr.x-prevX > 15 {
					parts = append(parts, "  ")
				}
				parts = append(parts, fr.s)
				prevX = fr.x
			}
			if line := strings.TrimSpace(strings.Join(parts, "")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByPagePlainText(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// extractWithPdftotext shells out to poppler-utils, one page per invocation
// so page boundaries survive.
func extractWithPdftotext(filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %v", err)
	}

	numPages := 1
	if out, err := exec.Command("pdfinfo", filePath).Output(); err == nil {
		for _, line := range strings.Split(string(out), "\n") {
			if strings.HasPrefix(line, "Pages:") {
				if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:"))); err == nil && n > 0 {
					numPages = n
				}
			}
		}
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		p := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", p, "-l", p, filePath, "-").Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		out, err := exec.Command("pdftotext", "-layout", filePath, "-").Output()
		if err != nil {
			return nil, fmt.Errorf("pdftotext failed: %v", err)
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			return []string{text}, nil
		}
		return nil, errors.New("pdftotext produced no output")
	}
	return pages, nil
}

// commonWords appear in virtually every card statement, in either language
// the supported banks print in. Extracted text containing none of them is
// treated as garbage.
var commonWords = []string{
	"account", "balance", "date", "payment", "statement", "total",
	"amount", "credit", "debit", "transaction", "period", "page",
	"releve", "relevé", "solde", "paiement", "compte", "montant",
	"date du", "limite", "achats",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// textQuality returns the fraction of characters that belong in statement
// text. Identity-encoded fonts decode to accented mojibake that
// unicode.IsLetter would accept, so the check sticks to ASCII letters and
// digits plus punctuation statements actually use.
func textQuality(pages []string) float64 {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
				readable++
			case unicode.IsSpace(r):
				readable++
			case strings.ContainsRune(`.,-/:;()'"$%&@#!?+=*éèêàâçÉÈÀ`, r):
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// isReadableText requires enough text, a high readable-character ratio, and
// at least one recognizable statement word.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
