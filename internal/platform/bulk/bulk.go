// Package bulk converts between record lists and tabular files for the
// admin bulk import/export flows. Export writes CSV or XLSX with a
// fixed header-to-field mapping; import reads a spreadsheet back into
// flat field mappings using row 1 as headers. Import performs no
// schema validation: malformed rows are forwarded as-is and rejected,
// if at all, by the receiving service.
package bulk

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyFile           = errors.New("file contains no rows")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// Row is one flat record as it appears in a spreadsheet.
type Row map[string]string

// Column maps one spreadsheet header to one record field.
type Column struct {
	Header string
	Field  string
}

// Mapping is the ordered header-to-field mapping of one resource's
// tabular representation. Column order in the file follows the
// mapping order.
type Mapping []Column

// Headers returns the header row in mapping order.
func (m Mapping) Headers() []string {
	out := make([]string, len(m))
	for i, c := range m {
		out[i] = c.Header
	}
	return out
}

// ExportCSV writes rows as CSV with the mapping's header row first.
func ExportCSV(w io.Writer, m Mapping, rows []Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(m.Headers()); err != nil {
		return fmt.Errorf("bulk export csv: write header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(m))
		for i, col := range m {
			record[i] = row[col.Field]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("bulk export csv: write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportXLSX writes rows as a single-sheet XLSX workbook.
func ExportXLSX(w io.Writer, m Mapping, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(m))
	for i, c := range m {
		header[i] = c.Header
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("bulk export xlsx: write header: %w", err)
	}
	for i, row := range rows {
		cells := make([]interface{}, len(m))
		for j, col := range m {
			cells[j] = row[col.Field]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("bulk export xlsx: cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("bulk export xlsx: write row %d: %w", i+2, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("bulk export xlsx: %w", err)
	}
	return nil
}

// ImportCSV parses CSV content where row 1 holds the headers. Short
// rows leave their trailing fields absent; extra cells are dropped.
func ImportCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("bulk import csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	return rowsFromTable(records), nil
}

// ImportXLSX parses the first sheet of an XLSX workbook, row 1 as
// headers.
func ImportXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("bulk import xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("bulk import xlsx: read sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	return rowsFromTable(records), nil
}

// Import dispatches to the right parser based on the uploaded file
// name. Accepted: .csv, .xlsx, .xls.
func Import(filename string, r io.Reader) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ImportCSV(r)
	case ".xlsx", ".xls":
		return ImportXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filename)
	}
}

func rowsFromTable(records [][]string) []Row {
	headers := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatYesNo renders a boolean the way the admin exports expect.
func FormatYesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// ParseYesNo reads the export rendering back into a boolean.
func ParseYesNo(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true
	}
	return false
}

// FormatRupees renders an amount with the currency prefix used across
// the catalog exports.
func FormatRupees(amount float64) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("₹%d", int64(amount))
	}
	return fmt.Sprintf("₹%.2f", amount)
}

// ParseRupees strips the currency prefix and separators from an
// imported amount cell.
func ParseRupees(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	var amount float64
	if _, err := fmt.Sscanf(s, "%f", &amount); err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return amount, nil
}
