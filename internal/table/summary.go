package table

import (
	"fmt"
	"io"

	prettytable "github.com/jedib0t/go-pretty/v6/table"

	"github.com/tknemuru/kindergarten-collecting/internal/detail"
)

// FieldStat counts how many records have a non-empty value for a field.
type FieldStat struct {
	Field  detail.FieldSpec
	Filled int
}

// Stats returns per-field fill counts in schema order.
func Stats(schema *detail.Schema, records []detail.Record) []FieldStat {
	fields := schema.Fields()
	stats := make([]FieldStat, len(fields))
	for i, f := range fields {
		stats[i].Field = f
		for _, r := range records {
			if r[f.ID] != "" {
				stats[i].Filled++
			}
		}
	}
	return stats
}

// RenderSummary prints the schema with fill counts as a table.
func RenderSummary(w io.Writer, schema *detail.Schema, records []detail.Record) {
	t := prettytable.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(prettytable.StyleLight)
	t.AppendHeader(prettytable.Row{"#", "Field", "Title", "Filled", "Fill %"})

	for i, s := range Stats(schema, records) {
		t.AppendRow(prettytable.Row{i + 1, s.Field.ID, s.Field.Title, s.Filled, percent(s.Filled, len(records))})
	}
	t.AppendFooter(prettytable.Row{"", "", "Records", len(records), ""})
	t.Render()
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}
