package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-ledger/internal/buildinfo"
	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/ledger"
	"github.com/insightdelivered/statement-ledger/internal/logger"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/money"
	"github.com/insightdelivered/statement-ledger/internal/parser"
	"github.com/insightdelivered/statement-ledger/internal/session"
	"github.com/insightdelivered/statement-ledger/internal/writer"
)

// pageBreak separates pages in client-extracted text.
const pageBreak = "\n---PAGE_BREAK---\n"

// TextExtractor turns an uploaded PDF and its password into statement text.
type TextExtractor func(ctx context.Context, data []byte, password string) (string, error)

// LedgerResponse is the JSON body returned by every ledger endpoint.
type LedgerResponse struct {
	Success      bool                       `json:"success"`
	Error        string                     `json:"error,omitempty"`
	Notice       string                     `json:"notice,omitempty"`
	SessionID    string                     `json:"sessionId,omitempty"`
	Source       string                     `json:"source,omitempty"`
	Transactions []models.TransactionRecord `json:"transactions"`
	Editing      *ledger.EditBuffer         `json:"editing,omitempty"`
	TotalDebit   string                     `json:"totalDebit"`
	TotalCredit  string                     `json:"totalCredit"`
	Count        int                        `json:"count"`
	CSV          string                     `json:"csv,omitempty"`
	Version      string                     `json:"version,omitempty"`
}

type beginEditRequest struct {
	Index *int `json:"index"`
}

type updateFieldRequest struct {
	Field models.Field `json:"field" form:"field"`
	Value string       `json:"value" form:"value"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Store     *session.Store
	Formatter *money.Formatter
	Extract   TextExtractor
	Log       zerolog.Logger
	StaticDir string
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	if h.Extract == nil {
		h.Extract = extractor.ExtractText
	}
	if h.Formatter == nil {
		h.Formatter = money.MustFormatter(money.DefaultLocale)
	}
	if h.Store == nil {
		h.Store = session.NewStore(ledger.WithFormatter(h.Formatter))
	}

	api := app.Group("/api")
	api.Get("/health", h.handleHealth)
	api.Post("/convert", h.handleConvert)

	api.Post("/sessions", h.handleCreateSession)
	api.Get("/sessions/:id", h.handleGetSession)
	api.Put("/sessions/:id/document", h.handleReplaceDocument)
	api.Delete("/sessions/:id", h.handleDeleteSession)
	api.Post("/sessions/:id/edit", h.handleBeginEdit)
	api.Patch("/sessions/:id/edit", h.handleUpdateField)
	api.Post("/sessions/:id/edit/commit", h.handleCommitEdit)
	api.Delete("/sessions/:id/edit", h.handleCancelEdit)
	api.Delete("/sessions/:id/transactions/:index", h.handleDeleteTransaction)
	api.Post("/sessions/:id/recalculate", h.handleRecalculate)
	api.Get("/sessions/:id/export.csv", h.handleExportCSV)

	if h.StaticDir != "" {
		app.Static("/", h.StaticDir)
		// SPA: unknown non-API paths fall back to index.html
		app.Get("/*", func(c *fiber.Ctx) error {
			if strings.HasPrefix(c.Path(), "/api/") {
				return fiber.ErrNotFound
			}
			return c.SendFile(filepath.Join(h.StaticDir, "index.html"))
		})
	}
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"version":  buildinfo.Version,
		"engine":   "fiber",
		"sessions": h.Store.Len(),
	})
}

// handleConvert extracts a statement without keeping a session.
func (h *Handler) handleConvert(c *fiber.Ctx) error {
	source, records, err := h.readStatement(c)
	if err != nil {
		return h.fail(c, err)
	}

	l := ledger.New(ledger.WithFormatter(h.Formatter))
	l.Replace(records)
	if c.FormValue("recalculate") == "true" {
		if err := l.RecalculateAll(); err != nil && !errors.Is(err, ledger.ErrEmptyLedger) {
			return h.fail(c, err)
		}
	}

	snapshot := l.Records()
	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: c.FormValue("header") != "false"}
	if err := csvWriter.Write(&csvBuf, writer.Export{Source: source, Transactions: snapshot}); err != nil {
		return h.fail(c, fmt.Errorf("CSV generation failed: %w", err))
	}

	resp := h.response(snapshot, nil)
	resp.Source = source
	resp.CSV = csvBuf.String()
	resp.Version = buildinfo.Version
	if len(snapshot) == 0 {
		resp.Notice = noTransactionsNotice
	}
	return c.JSON(resp)
}

func (h *Handler) handleCreateSession(c *fiber.Ctx) error {
	source, records, err := h.readStatement(c)
	if err != nil {
		return h.fail(c, err)
	}

	s := h.Store.Create(source, records)
	h.Log.Info().Str("session", s.ID).Str("source", source).Int("transactions", len(records)).Msg("session created")

	resp, err := h.snapshot(s)
	if err != nil {
		return h.fail(c, err)
	}
	if resp.Count == 0 {
		resp.Notice = noTransactionsNotice
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *Handler) handleReplaceDocument(c *fiber.Ctx) error {
	s, err := h.Store.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	// Extraction completes before the ledger is touched, so a failed or
	// aborted upload leaves the previous ledger in place.
	source, records, err := h.readStatement(c)
	if err != nil {
		return h.fail(c, err)
	}
	s.Load(source, records)

	resp, err := h.snapshot(s)
	if err != nil {
		return h.fail(c, err)
	}
	if resp.Count == 0 {
		resp.Notice = noTransactionsNotice
	}
	return c.JSON(resp)
}

func (h *Handler) handleGetSession(c *fiber.Ctx) error {
	s, err := h.Store.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	resp, err := h.snapshot(s)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

func (h *Handler) handleDeleteSession(c *fiber.Ctx) error {
	if err := h.Store.Delete(c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) handleBeginEdit(c *fiber.Ctx) error {
	var req beginEditRequest
	if err := c.BodyParser(&req); err != nil || req.Index == nil {
		return h.fail(c, fiber.NewError(fiber.StatusBadRequest, "body must be JSON with an integer \"index\""))
	}
	return h.mutate(c, func(l *ledger.Ledger) error {
		return l.BeginEdit(*req.Index)
	})
}

func (h *Handler) handleUpdateField(c *fiber.Ctx) error {
	var req updateFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, fiber.NewError(fiber.StatusBadRequest, "body must be JSON with \"field\" and \"value\""))
	}
	// Form-encoded bodies decode into strings backed by the request buffer.
	field, value := models.Field(utils.CopyString(string(req.Field))), utils.CopyString(req.Value)
	return h.mutate(c, func(l *ledger.Ledger) error {
		return l.UpdateField(field, value)
	})
}

func (h *Handler) handleCommitEdit(c *fiber.Ctx) error {
	return h.mutate(c, func(l *ledger.Ledger) error {
		return l.CommitEdit()
	})
}

func (h *Handler) handleCancelEdit(c *fiber.Ctx) error {
	return h.mutate(c, func(l *ledger.Ledger) error {
		l.CancelEdit()
		return nil
	})
}

func (h *Handler) handleDeleteTransaction(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return h.fail(c, fiber.NewError(fiber.StatusBadRequest, "index must be an integer"))
	}
	return h.mutate(c, func(l *ledger.Ledger) error {
		return l.DeleteAt(index)
	})
}

// handleRecalculate recalculates every balance, or only rows 0..through
// when the "through" query parameter is given.
func (h *Handler) handleRecalculate(c *fiber.Ctx) error {
	recalc := func(l *ledger.Ledger) error { return l.RecalculateAll() }
	if raw := c.Query("through"); raw != "" {
		row, err := strconv.Atoi(raw)
		if err != nil {
			return h.fail(c, fiber.NewError(fiber.StatusBadRequest, "through must be an integer"))
		}
		recalc = func(l *ledger.Ledger) error { return l.RecalculateThrough(row) }
	}

	s, err := h.Store.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	err = s.Do(recalc)
	if err != nil && !errors.Is(err, ledger.ErrEmptyLedger) {
		return h.fail(c, err)
	}

	resp, serr := h.snapshot(s)
	if serr != nil {
		return h.fail(c, serr)
	}
	if errors.Is(err, ledger.ErrEmptyLedger) {
		resp.Notice = "ledger is empty; nothing to recalculate"
	}
	return c.JSON(resp)
}

func (h *Handler) handleExportCSV(c *fiber.Ctx) error {
	s, err := h.Store.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	var records []models.TransactionRecord
	_ = s.Do(func(l *ledger.Ledger) error {
		records = l.Records()
		return nil
	})

	source := s.Source()
	var buf bytes.Buffer
	w := &writer.CSVWriter{IncludeHeader: c.Query("header") != "false"}
	if err := w.Write(&buf, writer.Export{Source: source, Transactions: records}); err != nil {
		return h.fail(c, fmt.Errorf("CSV generation failed: %w", err))
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", exportName(source)))
	return c.Send(buf.Bytes())
}

// mutate applies fn to the session's ledger and replies with the result.
// A failed operation leaves the ledger as it was.
func (h *Handler) mutate(c *fiber.Ctx, fn func(l *ledger.Ledger) error) error {
	s, err := h.Store.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if err := s.Do(fn); err != nil {
		return h.fail(c, err)
	}
	resp, err := h.snapshot(s)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// readStatement pulls the statement out of a multipart upload and runs
// the extractor over it. Client-extracted text, when sent, skips PDF
// decryption entirely. Form values alias fasthttp's request buffer, so
// anything that may outlive the request is copied first.
func (h *Handler) readStatement(c *fiber.Ctx) (string, []models.TransactionRecord, error) {
	if text := c.FormValue("extractedText"); text != "" {
		source := utils.CopyString(c.FormValue("filename", "extracted-text"))
		text = utils.CopyString(text)
		return source, parser.Extract(strings.ReplaceAll(text, pageBreak, "\n")), nil
	}

	header, err := c.FormFile("file")
	if err != nil {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	file, err := header.Open()
	if err != nil {
		return "", nil, fmt.Errorf("opening upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("reading upload: %w", err)
	}

	ctx := logger.WithContext(c.UserContext(), h.Log)
	text, err := h.Extract(ctx, data, c.FormValue("password"))
	if err != nil {
		var docErr *extractor.DocumentError
		if errors.As(err, &docErr) {
			h.Log.Warn().Str("file", header.Filename).Str("kind", docErr.Kind.String()).Err(docErr.Err).Msg("could not open statement")
		}
		return "", nil, err
	}
	return utils.CopyString(header.Filename), parser.Extract(text), nil
}

func (h *Handler) snapshot(s *session.Session) (LedgerResponse, error) {
	var resp LedgerResponse
	err := s.Do(func(l *ledger.Ledger) error {
		var edit *ledger.EditBuffer
		if buf, ok := l.Editing(); ok {
			edit = &buf
		}
		resp = h.response(l.Records(), edit)
		return nil
	})
	resp.SessionID = s.ID
	resp.Source = s.Source()
	return resp, err
}

func (h *Handler) response(records []models.TransactionRecord, edit *ledger.EditBuffer) LedgerResponse {
	debit, credit := totals(records)
	return LedgerResponse{
		Success:      true,
		Transactions: records,
		Editing:      edit,
		TotalDebit:   h.Formatter.Format(debit),
		TotalCredit:  h.Formatter.Format(credit),
		Count:        len(records),
	}
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status, msg := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		h.Log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(LedgerResponse{
		Success: false,
		Error:   msg,
	})
}

func exportName(source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" || base == "." || base == "/" {
		base = "ledger"
	}
	return base + ".csv"
}
