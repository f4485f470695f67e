package domain

// ReportRow is one task's contribution to an assignee's period total.
type ReportRow struct {
	TaskKey  string
	TaskName string
	Hours    float64
}

// AssigneeRows collects the qualifying rows for one assignee, in the order
// the items were processed.
type AssigneeRows struct {
	DisplayName string
	Rows        []ReportRow
}

// PeriodGroup holds one period's rows grouped by assignee, assignees in
// first-seen order.
type PeriodGroup struct {
	Period    Period
	Assignees []AssigneeRows
}

// AssigneeBlock is the renderable form of one assignee's rows: sorted,
// display-adjusted, with the per-assignee totals attached. When it carries
// more than one row the name, days and task count render as merged spans.
type AssigneeBlock struct {
	DisplayName string
	Rows        []ReportRow
	TotalDays   float64
	TasksCount  int
}

// Sheet is one period's table.
type Sheet struct {
	Name    string
	Columns []string
	Blocks  []AssigneeBlock
}

// Report is the full multi-sheet report, one sheet per requested period.
type Report struct {
	Sheets []Sheet
}
