package importer

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/wealthwise-dev/wealthwise/internal/model"
)

// XLSXParser parses Excel workbook statements. Date cells must hold
// DD-MM-YYYY text (or use a matching display format).
type XLSXParser struct {
	// Sheet selects the worksheet; empty means the first one.
	Sheet string
}

// Format returns the parser name.
func (p *XLSXParser) Format() string { return "xlsx" }

// Parse reads the selected worksheet. The first row is the header.
func (p *XLSXParser) Parse(r io.Reader) (*model.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := p.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("reading sheet %q: missing header row", sheet)
	}

	// GetRows drops trailing empty rows but keeps interior blank ones.
	body := rows[1:]
	records := make([][]string, 0, len(body))
	for _, rec := range body {
		if isBlank(rec) {
			continue
		}
		records = append(records, rec)
	}
	return buildTable(rows[0], records)
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}
