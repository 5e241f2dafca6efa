package output

import (
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/tapps/frame"
)

// DefaultCellWidth is the display width cells are truncated to
const DefaultCellWidth = 32

// TableFormatter renders a dataframe as a console table
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a table formatter writing to w
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// Format writes df as a table with a leading label column
func (t *TableFormatter) Format(df *frame.Dataframe) error {
	header := append([]string{LabelHeader}, df.SeriesNames()...)
	rows := make([][]string, 0, df.NumLabels())
	for _, label := range df.Labels() {
		values, _ := df.Row(label)
		row := make([]string, 0, len(values)+1)
		row = append(row, label)
		for _, v := range values {
			row = append(row, FormatValue(v))
		}
		rows = append(rows, row)
	}
	t.Render(header, rows)
	return nil
}

// Render writes an arbitrary table, truncating wide cells
func (t *TableFormatter) Render(header []string, rows [][]string) {
	table := tablewriter.NewWriter(t.writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(t.truncateAll(header))
	for _, row := range rows {
		table.Append(t.truncateAll(row))
	}
	table.Render()
}

func (t *TableFormatter) truncateAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = runewidth.Truncate(cell, DefaultCellWidth, "...")
	}
	return out
}

// RenderTable writes rows under header with the default settings
func RenderTable(w io.Writer, header []string, rows [][]string) {
	NewTableFormatter(w).Render(header, rows)
}
