// Package ledger holds the editable sequence of statement transactions
// and keeps their running balances consistent.
//
// A Ledger is not safe for concurrent use; callers that share one across
// goroutines must serialise access.
package ledger

import (
	"fmt"

	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/money"
)

// Ledger is an ordered, mutable list of transaction records. Position is
// statement order and drives running-balance propagation.
type Ledger struct {
	records []models.TransactionRecord
	edit    *EditBuffer
	format  *money.Formatter
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithFormatter sets the formatter used for recalculated balances.
func WithFormatter(f *money.Formatter) Option {
	return func(l *Ledger) {
		if f != nil {
			l.format = f
		}
	}
}

// New returns an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{}
	for _, opt := range opts {
		opt(l)
	}
	if l.format == nil {
		l.format = money.MustFormatter(money.DefaultLocale)
	}
	return l
}

// Replace swaps in a freshly extracted set of records and drops any open
// edit. The input slice is copied.
func (l *Ledger) Replace(records []models.TransactionRecord) {
	l.records = append([]models.TransactionRecord(nil), records...)
	l.edit = nil
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// At returns a copy of the record at index.
func (l *Ledger) At(index int) (models.TransactionRecord, error) {
	if err := l.checkIndex(index); err != nil {
		return models.TransactionRecord{}, err
	}
	return l.records[index], nil
}

// Records returns a snapshot of the ledger. The slice is never nil and
// may be modified freely by the caller.
func (l *Ledger) Records() []models.TransactionRecord {
	out := make([]models.TransactionRecord, len(l.records))
	copy(out, l.records)
	return out
}

// DeleteAt removes the record at index. An edit open on that record is
// discarded; an edit open on a later record follows it to its new position.
func (l *Ledger) DeleteAt(index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	l.records = append(l.records[:index:index], l.records[index+1:]...)
	if l.edit != nil {
		switch {
		case l.edit.Index == index:
			l.edit = nil
		case l.edit.Index > index:
			l.edit.Index--
		}
	}
	return nil
}

func (l *Ledger) checkIndex(index int) error {
	if index < 0 || index >= len(l.records) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(l.records))
	}
	return nil
}
