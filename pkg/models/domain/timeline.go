package domain

import "time"

// StatusEvent is a single status change on a work item, normalized to the
// calendar's reference timezone with the status lowercased.
type StatusEvent struct {
	At     time.Time
	Status string
}

// Timeline holds one item's status events sorted ascending by timestamp.
// Same-instant events keep their source order.
type Timeline []StatusEvent

// Period is an inclusive calendar-date range, both bounds formatted
// as "YYYY-MM-DD".
type Period struct {
	Start string
	End   string
}

// Label is the period's identity in report output, e.g. "2024-01-01_2024-01-31".
func (p Period) Label() string {
	return p.Start + "_" + p.End
}
