// Package dataset assembles extracted records into an export-ready table
// with a fixed column order.
package dataset

import (
	"fmt"
	"strings"

	"github.com/user/hotscan/internal/domain"
)

// SchemaError reports export columns that no record in the batch populated.
// The fixed column reorder cannot run without them, so export fails instead
// of silently dropping columns.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("assemble table: no record populated column(s): %s", strings.Join(e.Missing, ", "))
}

// Options controls table assembly.
type Options struct {
	// Dedup keeps only the first record per distinct product URL. Records
	// without a product URL are never deduplicated against each other.
	Dedup bool
}

// Table is an ordered collection of records under a fixed column order.
type Table struct {
	Columns []string
	Records []domain.Record
}

// Assemble builds a Table from records, optionally deduplicating by product
// URL, and pins the export column order. A column that no record populated
// makes the reorder impossible and returns a SchemaError; an empty batch
// misses every column.
func Assemble(records []domain.Record, opts Options) (*Table, error) {
	var kept []domain.Record
	if opts.Dedup {
		kept = dedupByURL(records)
	} else {
		kept = append(make([]domain.Record, 0, len(records)), records...)
	}

	present := make(map[string]bool, len(domain.ExportColumns))
	for _, rec := range kept {
		for _, field := range rec.Fields {
			present[field] = true
		}
	}

	var missing []string
	for _, col := range domain.ExportColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	columns := make([]string, len(domain.ExportColumns))
	copy(columns, domain.ExportColumns)
	return &Table{Columns: columns, Records: kept}, nil
}

func dedupByURL(records []domain.Record) []domain.Record {
	seen := make(map[string]bool, len(records))
	kept := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if rec.Has(domain.FieldProductURL) {
			if seen[rec.ProductURL] {
				continue
			}
			seen[rec.ProductURL] = true
		}
		kept = append(kept, rec)
	}
	return kept
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Records)
}

// Row renders record i in column order. Cells for columns the record did not
// populate are nil.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.Columns))
	for j, col := range t.Columns {
		row[j] = t.Records[i].Value(col)
	}
	return row
}

// Filter returns a new Table holding the records keep reports true for, in
// the same order and with the same columns.
func (t *Table) Filter(keep func(domain.Record) bool) *Table {
	kept := make([]domain.Record, 0, len(t.Records))
	for _, rec := range t.Records {
		if keep(rec) {
			kept = append(kept, rec)
		}
	}
	return &Table{Columns: t.Columns, Records: kept}
}
