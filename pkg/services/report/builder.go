package report

import (
	"sort"

	"github.com/de-tools/status-atlas/pkg/models/domain"
)

// Columns is the header row of every period sheet.
var Columns = []string{"Display Name", "Task Key", "Task Name", "In Progress Hours", "Days", "Tasks Count"}

const (
	hoursPerDay     = 8
	maxSheetNameLen = 31
)

// Build turns aggregated groups into the renderable report. Per assignee:
// rows with no hours are dropped, the rest are sorted by task key, sub-hour
// rows are floored up to one display hour, and the displayed hours feed the
// day and task-count totals. Assignees left with no rows disappear from the
// sheet.
func Build(groups []domain.PeriodGroup) domain.Report {
	var rep domain.Report
	for _, g := range groups {
		sheet := domain.Sheet{Name: sheetName(g.Period), Columns: Columns}

		for _, a := range g.Assignees {
			rows := make([]domain.ReportRow, 0, len(a.Rows))
			for _, r := range a.Rows {
				if r.Hours > 0 {
					rows = append(rows, r)
				}
			}
			if len(rows) == 0 {
				continue
			}

			sort.Slice(rows, func(i, j int) bool {
				return rows[i].TaskKey < rows[j].TaskKey
			})

			var totalHours float64
			for i := range rows {
				if rows[i].Hours < 1 {
					rows[i].Hours = 1
				}
				totalHours += rows[i].Hours
			}

			sheet.Blocks = append(sheet.Blocks, domain.AssigneeBlock{
				DisplayName: a.DisplayName,
				Rows:        rows,
				TotalDays:   round1(totalHours / hoursPerDay),
				TasksCount:  len(rows),
			})
		}

		rep.Sheets = append(rep.Sheets, sheet)
	}
	return rep
}

// sheetName labels a sheet by the period's date range, truncated to the
// spreadsheet limit.
func sheetName(p domain.Period) string {
	name := p.Label()
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	return name
}
