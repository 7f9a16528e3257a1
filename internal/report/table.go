package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/go-scripts/slotwatch/internal/types"
)

// RenderTable writes the findings as a console table
func RenderTable(w io.Writer, findings []types.Finding) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "District", "Location", "Attendance place", "Scan time (PT)"})
	for i, fd := range findings {
		t.AppendRow(table.Row{i + 1, fd.District, fd.Location, fd.AttendancePlace, fd.ScanTimestamp})
	}
	t.Render()
}
