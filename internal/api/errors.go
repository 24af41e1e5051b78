package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/ledger"
	"github.com/insightdelivered/statement-ledger/internal/session"
)

const noTransactionsNotice = "No transactions found. The statement layout may not match the expected row format."

// statusFor maps an error to an HTTP status and the message shown to the user.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, extractor.ErrEmptyInput):
		return fiber.StatusBadRequest, "The uploaded file is empty."
	case errors.Is(err, extractor.ErrWrongPasswordOrCorrupt):
		return fiber.StatusUnprocessableEntity, "Wrong password or corrupted PDF."
	case errors.Is(err, session.ErrNotFound):
		return fiber.StatusNotFound, "Session not found."
	case errors.Is(err, ledger.ErrOutOfRange):
		return fiber.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, ledger.ErrUnknownField):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, ledger.ErrNoActiveEdit):
		return fiber.StatusConflict, "No row is being edited."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusRequestTimeout, "Request cancelled before the statement was read."
	default:
		return fiber.StatusInternalServerError, "Internal server error."
	}
}
