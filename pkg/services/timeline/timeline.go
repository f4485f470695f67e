// Package timeline turns raw tracker history into a clean status timeline
// and accumulates calendar-clipped time spent in a target status.
package timeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/de-tools/status-atlas/pkg/models/domain"
	"github.com/de-tools/status-atlas/pkg/models/store"
)

// ParseInstant parses an ISO-8601 timestamp (the tracker emits a trailing Z)
// and converts it to loc.
func ParseInstant(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse instant %q: %w", s, err)
	}
	return t.In(loc), nil
}

// NormalizeStatus lowercases and trims a status name for comparison.
func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Build converts raw history entries into a sorted Timeline. Entries missing
// a timestamp or a status, or with an unparseable timestamp, are dropped.
// The sort is stable, so same-instant events keep their source order and the
// last of them decides the state going forward from that instant.
func Build(entries []store.HistoryEntry, loc *time.Location) domain.Timeline {
	events := make(domain.Timeline, 0, len(entries))
	for _, e := range entries {
		status := NormalizeStatus(e.Status())
		if e.Date == "" || status == "" {
			continue
		}
		at, err := ParseInstant(e.Date, loc)
		if err != nil {
			continue
		}
		events = append(events, domain.StatusEvent{At: at, Status: status})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.Before(events[j].At)
	})
	return events
}

// Clipper measures working-time overlap of a raw span.
type Clipper interface {
	Clip(start, end time.Time) float64
}

// Accumulate walks a sorted timeline and returns the working-time minutes
// the item spent in targetStatus inside [periodStart, periodEnd].
//
// The state at periodStart is the status of the most recent event at or
// before it; with no such event the item counts as not in the target status.
// The first event past periodEnd only closes the window. An empty timeline
// always yields zero: a status is never inferred from anything but events.
func Accumulate(events domain.Timeline, periodStart, periodEnd time.Time, targetStatus string, cal Clipper) float64 {
	if len(events) == 0 {
		return 0
	}
	target := NormalizeStatus(targetStatus)

	inTarget := false
	for _, e := range events {
		if e.At.After(periodStart) {
			break
		}
		inTarget = e.Status == target
	}

	last := periodStart
	var total float64
	closed := false

	for _, e := range events {
		if !e.At.After(periodStart) {
			continue
		}
		if e.At.After(periodEnd) {
			if inTarget {
				total += cal.Clip(last, periodEnd)
			}
			closed = true
			break
		}
		if inTarget {
			total += cal.Clip(last, e.At)
		}
		inTarget = e.Status == target
		last = e.At
	}

	if !closed && inTarget && last.Before(periodEnd) {
		total += cal.Clip(last, periodEnd)
	}

	return total
}
