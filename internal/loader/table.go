package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/lamalux/pricing/internal/mimes"
)

// Table is a header row plus data rows read from a spreadsheet.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadTable decodes data according to the extension of name, or its content
// when name has no extension. Workbooks (.xlsx, .xlsm) are read from their
// first sheet, .csv as comma separated.
func ReadTable(name string, data []byte) (*Table, error) {
	switch mimes.FromFile(name, data) {
	case mimes.SheetXLSX, mimes.SheetXLSM:
		return readExcel(data)
	case mimes.TextCSV:
		return readCSV(data)
	default:
		return nil, fmt.Errorf("unsupported file type %q. must be .xlsx, .xlsm or .csv", name)
	}
}

func readExcel(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("excelize.OpenReader: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// Raw values so that number formats (currency, thousands) don't leak in.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return newTable(rows)
}

func readCSV(data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return newTable(rows)
}

func newTable(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	return &Table{
		Header: rows[0],
		Rows:   rows[1:],
	}, nil
}

// WriteExcel renders a table as a single sheet workbook.
func WriteExcel(t *Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	write := func(rowIdx int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		row := make([]any, len(values))
		for i, v := range values {
			row[i] = v
		}
		return f.SetSheetRow(sheet, cell, &row)
	}

	if err := write(1, t.Header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range t.Rows {
		if err := write(i+2, r); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excelize.WriteToBuffer: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteCSV renders a table as comma separated values.
func WriteCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// EncodeTable renders t in the format implied by the extension of name.
func EncodeTable(name string, t *Table) ([]byte, error) {
	switch mimes.FromFilename(name) {
	case mimes.SheetXLSX:
		return WriteExcel(t)
	case mimes.TextCSV:
		return WriteCSV(t)
	default:
		return nil, fmt.Errorf("unsupported file type %q. must be .xlsx or .csv", name)
	}
}
