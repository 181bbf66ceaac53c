// Package report renders assembled tables for people. The console preview
// bounds the row count so large scans stay readable.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/user/hotscan/internal/dataset"
	"github.com/user/hotscan/internal/domain"
)

// Preview writes the first limit rows of tbl to w as a bordered text table
// with a row-count footer. A limit below 1 shows every row.
func Preview(w io.Writer, tbl *dataset.Table, limit int) {
	if limit < 1 || limit > tbl.Len() {
		limit = tbl.Len()
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: domain.FieldProductName, WidthMax: 32},
		{Name: domain.FieldProductURL, WidthMax: 40},
		{Name: domain.FieldImgSrc, WidthMax: 40},
	})

	header := make(table.Row, len(tbl.Columns))
	for i, col := range tbl.Columns {
		header[i] = col
	}
	tw.AppendHeader(header)

	for i := 0; i < limit; i++ {
		row := make(table.Row, 0, len(tbl.Columns))
		for _, cell := range tbl.Row(i) {
			if cell == nil {
				cell = ""
			}
			row = append(row, cell)
		}
		tw.AppendRow(row)
	}

	tw.AppendFooter(table.Row{fmt.Sprintf("%d of %d rows", limit, tbl.Len())})
	tw.Render()
}
