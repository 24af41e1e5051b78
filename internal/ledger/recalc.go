package ledger

import (
	"github.com/insightdelivered/statement-ledger/internal/money"
)

// RecalculateAll re-derives every balance from the debit and credit
// columns. The balance stored on record 0 is taken as the opening balance
// and only re-formatted; record 0's own debit and credit never change it.
func (l *Ledger) RecalculateAll() error {
	if len(l.records) == 0 {
		return ErrEmptyLedger
	}
	l.recalculate(len(l.records) - 1)
	return nil
}

// RecalculateThrough applies the same rule as RecalculateAll to records
// 0..row only. Later records keep their stored, possibly stale, balances.
func (l *Ledger) RecalculateThrough(row int) error {
	if len(l.records) == 0 {
		return ErrEmptyLedger
	}
	if err := l.checkIndex(row); err != nil {
		return err
	}
	l.recalculate(row)
	return nil
}

// recalculate rewrites balances for records 0..last. The new values are
// built on a copy and swapped in once complete.
func (l *Ledger) recalculate(last int) {
	out := l.Records()

	balance := money.Parse(out[0].Balance)
	out[0].Balance = l.format.Format(balance)
	for i := 1; i <= last; i++ {
		balance = balance.Add(money.Parse(out[i].Credit)).Sub(money.Parse(out[i].Debit))
		out[i].Balance = l.format.Format(balance)
	}

	l.records = out
}
