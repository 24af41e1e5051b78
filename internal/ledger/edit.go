package ledger

import (
	"fmt"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// EditBuffer is the single in-flight edit: the index being edited and a
// scratch copy of its record. Changes reach the ledger only on commit.
type EditBuffer struct {
	Index  int                      `json:"index"`
	Record models.TransactionRecord `json:"record"`
}

// BeginEdit opens an edit on the record at index, replacing any edit
// that was already open.
func (l *Ledger) BeginEdit(index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	l.edit = &EditBuffer{Index: index, Record: l.records[index]}
	return nil
}

// UpdateField sets one editable field on the open edit. Only remarks,
// debit and credit may be edited.
func (l *Ledger) UpdateField(field models.Field, value string) error {
	if l.edit == nil {
		return ErrNoActiveEdit
	}
	if !field.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	field.Set(&l.edit.Record, value)
	return nil
}

// CommitEdit writes the open edit back to its record verbatim and closes
// it. Balances are not recalculated.
func (l *Ledger) CommitEdit() error {
	if l.edit == nil {
		return ErrNoActiveEdit
	}
	l.records[l.edit.Index] = l.edit.Record
	l.edit = nil
	return nil
}

// CancelEdit discards the open edit, if any.
func (l *Ledger) CancelEdit() {
	l.edit = nil
}

// Editing returns a copy of the open edit and whether one exists.
func (l *Ledger) Editing() (EditBuffer, bool) {
	if l.edit == nil {
		return EditBuffer{}, false
	}
	return *l.edit, true
}
