// Package parser turns the flattened text of a bank statement into
// transaction records.
package parser

import (
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Match group positions in transactionPattern.
const (
	groupSerial = iota + 1
	groupDate
	groupRemarks
	groupAmount
	groupBalance
)

// Extract scans text for transaction rows and returns them in the order
// they appear. Each row has the shape
//
//	<serial> <DD-MM-YYYY> <remarks> <amount> ₹ <balance>
//
// Remarks are matched lazily, so the first amount-shaped token after the
// date ends them. Remarks that themselves contain such a token are split
// at that point; callers see a shortened remark and a misread amount.
//
// A row is a debit when the matched span contains the word "DR" in any
// case, otherwise a credit. No matches yields an empty, non-nil slice.
func Extract(text string) []models.TransactionRecord {
	matches := transactionPattern.FindAllStringSubmatch(text, -1)
	records := make([]models.TransactionRecord, 0, len(matches))
	for _, m := range matches {
		rec := models.TransactionRecord{
			SerialNumber: m[groupSerial],
			Date:         m[groupDate],
			Remarks:      normalizeSpace(m[groupRemarks]),
			Balance:      m[groupBalance],
		}
		if isDebit(m[0]) {
			rec.Debit = m[groupAmount]
		} else {
			rec.Credit = m[groupAmount]
		}
		records = append(records, rec)
	}
	return records
}

// JoinPages flattens extracted page items into the text stream Extract
// expects: items on a page are joined by single spaces, pages by newlines.
func JoinPages(pages [][]string) string {
	var b strings.Builder
	for _, items := range pages {
		b.WriteString(strings.Join(items, " "))
		b.WriteByte('\n')
	}
	return b.String()
}
