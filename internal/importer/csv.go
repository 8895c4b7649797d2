package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealthwise-dev/wealthwise/internal/model"
)

// DateLayout is the DD-MM-YYYY layout statements use for the Date column.
const DateLayout = "02-01-2006"

// ErrNoDateColumn is returned when a statement has no Date column.
var ErrNoDateColumn = errors.New("statement has no " + model.ColDate + " column")

// CSVParser parses comma-separated bank statements.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a CSV statement. The first record is the header.
func (p *CSVParser) Parse(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("reading statement CSV: missing header row")
	}
	return buildTable(records[0], records[1:])
}

// ParseDate parses a DD-MM-YYYY string into a UTC calendar date. Surrounding
// whitespace is an error.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate formats a calendar date as DD-MM-YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// buildTable converts raw string records into a normalized Table. Row numbers
// in errors are 1-based and count the header, matching what a spreadsheet shows.
func buildTable(header []string, records [][]string) (*model.Table, error) {
	cols := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		cols[i] = h
		index[h] = i
	}

	dateCol, ok := index[model.ColDate]
	if !ok {
		return nil, ErrNoDateColumn
	}
	descCol, hasDesc := index[model.ColDescription]
	wdCol, hasWd := index[model.ColWithdrawal]
	depCol, hasDep := index[model.ColDeposit]

	table := &model.Table{Columns: cols, Rows: make([]model.Row, 0, len(records))}
	for i, rec := range records {
		rowNum := i + 2
		if len(rec) < len(cols) {
			padded := make([]string, len(cols))
			copy(padded, rec)
			rec = padded
		}

		date, err := ParseDate(rec[dateCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", rowNum, rec[dateCol], err)
		}

		row := model.Row{Date: date}
		if hasDesc {
			row.Description = rec[descCol]
		}
		if hasWd {
			if row.Withdrawal, err = parseAmount(rec[wdCol]); err != nil {
				return nil, fmt.Errorf("row %d: parsing withdrawal %q: %w", rowNum, rec[wdCol], err)
			}
		}
		if hasDep {
			if row.Deposit, err = parseAmount(rec[depCol]); err != nil {
				return nil, fmt.Errorf("row %d: parsing deposit %q: %w", rowNum, rec[depCol], err)
			}
		}

		for j, name := range cols {
			switch name {
			case model.ColDate, model.ColDescription, model.ColWithdrawal, model.ColDeposit:
				continue
			}
			if row.Extra == nil {
				row.Extra = make(map[string]string)
			}
			row.Extra[name] = rec[j]
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// parseAmount parses an optional amount. Blank cells are absent, not zero.
func parseAmount(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
