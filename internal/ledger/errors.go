package ledger

import "errors"

var (
	// ErrOutOfRange is returned when an index does not address a record.
	ErrOutOfRange = errors.New("ledger: index out of range")
	// ErrNoActiveEdit is returned by edit operations when no edit is open.
	ErrNoActiveEdit = errors.New("ledger: no active edit")
	// ErrEmptyLedger is returned by recalculation on a ledger with no records.
	// The ledger is left untouched; callers usually treat it as a no-op.
	ErrEmptyLedger = errors.New("ledger: empty ledger")
	// ErrUnknownField is returned when updating a field that is not editable.
	ErrUnknownField = errors.New("ledger: field is not editable")
)
