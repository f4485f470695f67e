// Package report drives the duration engine across items and periods and
// shapes the result into the renderable report.
package report

import (
	"context"
	"math"
	"time"

	"github.com/de-tools/status-atlas/pkg/models/domain"
	"github.com/de-tools/status-atlas/pkg/models/store"
	"github.com/de-tools/status-atlas/pkg/services/calendar"
	"github.com/de-tools/status-atlas/pkg/services/timeline"
	"github.com/rs/zerolog"
)

const (
	// DefaultTargetStatus is counted when a request names no status.
	DefaultTargetStatus = "in progress"

	// UnknownPlaceholder fills in missing assignee and task names.
	UnknownPlaceholder = "Не указано"
)

// HistoryProvider is the slice of the tracker client the aggregator needs.
type HistoryProvider interface {
	GetHistory(ctx context.Context, workspaceID, workItemID string) ([]store.HistoryEntry, error)
}

// Request describes one report computation.
type Request struct {
	Items        []store.WorkItem
	Periods      []domain.Period
	TargetStatus string
}

type Aggregator struct {
	cal     *calendar.Calendar
	history HistoryProvider
}

func NewAggregator(cal *calendar.Calendar, history HistoryProvider) *Aggregator {
	return &Aggregator{cal: cal, history: history}
}

type periodBounds struct {
	start time.Time
	end   time.Time
	ok    bool
}

// Aggregate computes in-status hours for every (item, period) pair and
// groups the qualifying rows by period and assignee. Items with missing
// identifiers and items whose history fetch fails are skipped; the run
// continues with the rest. Zero-hour pairs produce no row at all.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) []domain.PeriodGroup {
	logger := zerolog.Ctx(ctx)

	target := req.TargetStatus
	if target == "" {
		target = DefaultTargetStatus
	}

	groups := make([]domain.PeriodGroup, len(req.Periods))
	index := make([]map[string]int, len(req.Periods))
	bounds := make([]periodBounds, len(req.Periods))
	for i, p := range req.Periods {
		groups[i] = domain.PeriodGroup{Period: p}
		index[i] = make(map[string]int)

		start, end, err := a.cal.ExpandPeriod(p)
		if err != nil {
			logger.Error().Err(err).Str("period", p.Label()).Msg("skipping unparseable period")
			continue
		}
		bounds[i] = periodBounds{start: start, end: end, ok: true}
	}

	for _, item := range req.Items {
		if item.Key == "" || item.WorkspaceID == "" || item.WorkItemID == "" {
			logger.Warn().Str("key", item.Key).Msg("skipping item with missing identifiers")
			continue
		}

		entries, err := a.history.GetHistory(ctx, item.WorkspaceID, item.WorkItemID)
		if err != nil {
			logger.Error().Err(err).Str("key", item.Key).Msg("history fetch failed, skipping item")
			continue
		}

		events := timeline.Build(entries, a.cal.Location())
		logger.Debug().Str("key", item.Key).Int("events", len(events)).Str("status", target).Msg("processing item history")

		displayName := item.Assignee.DisplayName
		if displayName == "" {
			displayName = UnknownPlaceholder
		}
		taskName := item.Name
		if taskName == "" {
			taskName = UnknownPlaceholder
		}

		for i := range req.Periods {
			if !bounds[i].ok {
				continue
			}
			minutes := timeline.Accumulate(events, bounds[i].start, bounds[i].end, target, a.cal)
			hours := round1(minutes / 60)
			logger.Debug().
				Str("key", item.Key).
				Str("period", req.Periods[i].Label()).
				Float64("hours", hours).
				Msg("computed in-status hours")
			if hours <= 0 {
				continue
			}

			pos, seen := index[i][displayName]
			if !seen {
				groups[i].Assignees = append(groups[i].Assignees, domain.AssigneeRows{DisplayName: displayName})
				pos = len(groups[i].Assignees) - 1
				index[i][displayName] = pos
			}
			groups[i].Assignees[pos].Rows = append(groups[i].Assignees[pos].Rows, domain.ReportRow{
				TaskKey:  item.Key,
				TaskName: taskName,
				Hours:    hours,
			})
		}
	}

	return groups
}

// round1 rounds half away from zero to one decimal place. Used for both
// hours (minutes/60) and days (hours/8).
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
