package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement column names.
const (
	ColDate        = "Date"
	ColDescription = "Description"
	ColWithdrawal  = "Withdrawal"
	ColDeposit     = "Deposit"
)

// Row is one statement transaction after date normalization.
type Row struct {
	Date        time.Time
	Description string
	Withdrawal  decimal.NullDecimal // money spent; Valid=false when blank
	Deposit     decimal.NullDecimal // income; Valid=false when blank
	Extra       map[string]string   // every other column, keyed by header
}

// Table is an ordered, in-memory statement.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the source file carried the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}
