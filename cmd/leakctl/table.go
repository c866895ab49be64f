package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableWriter renders either a boxed terminal table or a Markdown table.
type tableWriter struct {
	writer   table.Writer
	markdown bool
}

func newTable(markdown bool) *tableWriter {
	w := table.NewWriter()
	if !markdown {
		w.SetStyle(table.StyleLight)
	}
	return &tableWriter{writer: w, markdown: markdown}
}

func (t *tableWriter) header(cols ...string) {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	t.writer.AppendHeader(row)
}

func (t *tableWriter) row(vals ...any) {
	t.writer.AppendRow(table.Row(vals))
}

func (t *tableWriter) footer(vals ...any) {
	t.writer.AppendFooter(table.Row(vals))
}

// alignRight right-aligns the given 1-based columns.
func (t *tableWriter) alignRight(cols ...int) {
	cfgs := make([]table.ColumnConfig, len(cols))
	for i, n := range cols {
		cfgs[i] = table.ColumnConfig{Number: n, Align: text.AlignRight, AlignFooter: text.AlignRight}
	}
	t.writer.SetColumnConfigs(cfgs)
}

func (t *tableWriter) String() string {
	if t.markdown {
		return t.writer.RenderMarkdown()
	}
	return t.writer.Render()
}
