package api

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/money"
)

// totals sums the debit and credit columns, reading edited cells the same
// permissive way recalculation does.
func totals(records []models.TransactionRecord) (debit, credit decimal.Decimal) {
	for _, r := range records {
		debit = debit.Add(money.Parse(r.Debit))
		credit = credit.Add(money.Parse(r.Credit))
	}
	return debit, credit
}
