package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldValid(t *testing.T) {
	tests := []struct {
		field Field
		want  bool
	}{
		{FieldRemarks, true},
		{FieldDebit, true},
		{FieldCredit, true},
		{"balance", false},
		{"serialNumber", false},
		{"date", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.field.Valid(), "Field(%q).Valid()", tt.field)
	}
}

func TestFieldSet(t *testing.T) {
	r := TransactionRecord{SerialNumber: "1", Balance: "10.00"}

	FieldRemarks.Set(&r, "Rent")
	FieldDebit.Set(&r, "5.00")
	FieldCredit.Set(&r, "")
	Field("balance").Set(&r, "999.00")

	assert.Equal(t, "Rent", r.Remarks)
	assert.Equal(t, "5.00", r.Debit)
	assert.Equal(t, "", r.Credit)
	assert.Equal(t, "10.00", r.Balance, "balance is not editable")
	assert.True(t, r.IsDebit())
}
