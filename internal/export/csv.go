// Package export renders assembled tables into their artifact forms: a
// spreadsheet-friendly CSV file and an interactive scatter chart.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/user/hotscan/internal/dataset"
)

// utf8BOM prefixes CSV output so spreadsheet tools detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileBase returns the timestamped artifact base name shared by the CSV and
// chart exports.
func FileBase(now time.Time) string {
	return "hotmart_search_" + now.Format("2006-01-02_15-04-05")
}

// WriteCSV writes the table to path as UTF-8 CSV with a byte order mark.
func WriteCSV(path string, table *dataset.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	if err := WriteCSVTo(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSVTo streams the table to w: the byte order mark, a header row in
// the table's column order, then one row per record. Decimal numbers use "."
// as the separator regardless of the locale the page used; cells for columns
// a record did not populate stay empty.
func WriteCSVTo(w io.Writer, table *dataset.Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write byte order mark: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(table.Columns))
	for i := 0; i < table.Len(); i++ {
		for j, cell := range table.Row(i) {
			row[j] = formatCell(cell)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV loads a file written by WriteCSV back into column names and string
// rows, dropping the leading byte order mark.
func ReadCSV(path string) ([]string, [][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read csv file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	return rows[0], rows[1:], nil
}

func formatCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}
