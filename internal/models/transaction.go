package models

// TransactionRecord represents a single row of a statement ledger.
// Amounts are kept as the formatted strings the user sees and edits.
type TransactionRecord struct {
	SerialNumber string `json:"serialNumber"`
	Date         string `json:"date"` // DD-MM-YYYY, never parsed
	Remarks      string `json:"remarks"`
	Debit        string `json:"debit"`  // empty unless the balance went down
	Credit       string `json:"credit"` // empty unless the balance went up
	Balance      string `json:"balance"`
}

// Field names a user-editable column of a TransactionRecord.
type Field string

const (
	FieldRemarks Field = "remarks"
	FieldDebit   Field = "debit"
	FieldCredit  Field = "credit"
)

// Valid reports whether f is one of the editable fields.
func (f Field) Valid() bool {
	switch f {
	case FieldRemarks, FieldDebit, FieldCredit:
		return true
	}
	return false
}

// Set writes value into the field of r named by f. Unknown fields are ignored.
func (f Field) Set(r *TransactionRecord, value string) {
	switch f {
	case FieldRemarks:
		r.Remarks = value
	case FieldDebit:
		r.Debit = value
	case FieldCredit:
		r.Credit = value
	}
}

// IsDebit reports whether the record carries a debit amount.
func (r TransactionRecord) IsDebit() bool {
	return r.Debit != ""
}
