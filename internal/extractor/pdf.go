// Package extractor decrypts statement PDFs and pulls out their page text.
package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/statement-ledger/internal/logger"
	"github.com/insightdelivered/statement-ledger/internal/parser"
)

// ExtractText decrypts a PDF held in memory and returns its text in the
// form parser.Extract consumes. It either returns the whole document or
// an error; a cancelled ctx aborts without partial output.
func ExtractText(ctx context.Context, data []byte, password string) (string, error) {
	pages, err := ExtractPages(ctx, data, password)
	if err != nil {
		return "", err
	}
	return parser.JoinPages(pages), nil
}

// ExtractFile reads a PDF from disk and calls ExtractText.
func ExtractFile(ctx context.Context, path, password string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return ExtractText(ctx, data, password)
}

// ExtractPages returns the whitespace-separated text items of every page.
func ExtractPages(ctx context.Context, data []byte, password string) (pages [][]string, err error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &DocumentError{Kind: CorruptDocument, Err: fmt.Errorf("PDF library crashed: %v", r)}
		}
	}()

	r, err := openEncrypted(data, password)
	if err != nil {
		return nil, err
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, &DocumentError{Kind: CorruptDocument, Err: errors.New("PDF has no pages")}
	}

	log := logger.FromContext(ctx)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extraction cancelled at page %d: %w", i, err)
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		lines, method := pageLines(page)
		log.Debug().Int("page", i).Str("method", method).Int("lines", len(lines)).Msg("extracted page text")
		pages = append(pages, strings.Fields(strings.Join(lines, " ")))
	}

	if totalItems(pages) == 0 {
		// Per-page strategies found nothing; try the whole-document dump.
		plain, perr := r.GetPlainText()
		if perr == nil {
			if items := strings.Fields(readAll(plain)); len(items) > 0 {
				log.Debug().Int("items", len(items)).Msg("using whole-document plain text")
				return [][]string{items}, nil
			}
		}
	}

	return pages, nil
}

func totalItems(pages [][]string) int {
	n := 0
	for _, p := range pages {
		n += len(p)
	}
	return n
}

// openEncrypted opens data with the given password. The password is
// offered once; a second prompt from the library means it was rejected.
func openEncrypted(data []byte, password string) (*pdf.Reader, error) {
	offered := false
	prompt := func() string {
		if offered {
			return ""
		}
		offered = true
		return password
	}

	r, err := pdf.NewReaderEncrypted(bytes.NewReader(data), int64(len(data)), prompt)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, &DocumentError{Kind: WrongPassword, Err: err}
		}
		return nil, &DocumentError{Kind: CorruptDocument, Err: err}
	}
	return r, nil
}

// pageLines tries each text strategy in turn and returns the first
// readable result, falling back to the best scoring one.
func pageLines(page pdf.Page) ([]string, string) {
	strategies := []struct {
		name string
		run  func(pdf.Page) []string
	}{
		{"rows", linesByRow},
		{"content", linesByContent},
		{"plain", linesByPlainText},
	}

	var best []string
	bestName := "none"
	bestScore := -1.0
	for _, s := range strategies {
		lines := s.run(page)
		if len(lines) == 0 {
			continue
		}
		score := textQuality(lines)
		if score > readableThreshold {
			return lines, s.name
		}
		if score > bestScore {
			best, bestName, bestScore = lines, s.name, score
		}
	}
	return best, bestName
}

// readableThreshold is the share of plain characters above which a
// strategy's output is accepted without trying the next one.
const readableThreshold = 0.6

// textQuality returns the ratio of plain ASCII letters, digits,
// whitespace and statement punctuation to all characters, 0.0-1.0.
// unicode.IsLetter is too broad: identity-encoded fonts decode to
// accented garbage.
func textQuality(lines []string) float64 {
	total := 0
	readable := 0
	for _, line := range lines {
		for _, r := range line {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"₹$%&@#!?+=*", r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// linesByRow uses GetTextByRow, which keeps word order best on
// well-structured statements.
func linesByRow(page pdf.Page) []string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil
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
	return lines
}

// linesByContent groups raw text pieces by Y coordinate to rebuild rows,
// then orders each row by X.
func linesByContent(page pdf.Page) []string {
	content := page.Content()
	if len(content.Text) == 0 {
		return nil
	}

	type textItem struct {
		x float64
		s string
	}
	rowMap := make(map[int][]textItem)
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		yKey := int(math.Round(t.Y))
		rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
	}

	// PDF Y grows upwards, so the top row has the largest key.
	yKeys := make([]int, 0, len(rowMap))
	for y := range rowMap {
		yKeys = append(yKeys, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

	var lines []string
	for _, y := range yKeys {
		items := rowMap[y]
		sort.Slice(items, func(a, b int) bool {
			return items[a].x < items[b].x
		})

		var b strings.Builder
		var prevX float64
		for j, item := range items {
			if j > 0 && item.x-prevX > columnGap {
				b.WriteByte(' ')
			}
			b.WriteString(item.s)
			prevX = item.x
		}
		line := strings.TrimSpace(b.String())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// columnGap is the horizontal distance, in points, treated as a word break
// between glyphs on the same row.
const columnGap = 15

// linesByPlainText is the last resort: the library's own text dump with
// the page fonts.
func linesByPlainText(page pdf.Page) []string {
	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		f := page.Font(name)
		fonts[name] = &f
	}

	text, err := page.GetPlainText(fonts)
	if err != nil {
		return nil
	}
	return nonEmptyLines(text)
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// readAll drains r, tolerating a nil reader.
func readAll(r io.Reader) string {
	if r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	return string(data)
}
