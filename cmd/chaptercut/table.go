package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// reportTable renders the CLI's summaries (run results, probed chapters,
// config listing) with one shared look. Rows shorter than the header are
// padded with blanks.
type reportTable struct {
	writer table.Writer
	width  int
}

func newReportTable(headers ...string) *reportTable {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	row := make(table.Row, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	tw.AppendHeader(row)
	return &reportTable{writer: tw, width: len(headers)}
}

// numeric right-aligns the given 1-based columns so counts and timestamps
// line up. Headers stay left-aligned.
func (t *reportTable) numeric(columns ...int) *reportTable {
	configs := make([]table.ColumnConfig, 0, len(columns))
	for _, col := range columns {
		configs = append(configs, table.ColumnConfig{
			Number:      col,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	t.writer.SetColumnConfigs(configs)
	return t
}

func (t *reportTable) addRow(cells ...string) {
	row := make(table.Row, t.width)
	for i := 0; i < t.width; i++ {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	t.writer.AppendRow(row)
}

func (t *reportTable) render() string {
	return t.writer.Render()
}
