package timeline

import (
	"testing"
	"time"

	"github.com/de-tools/status-atlas/pkg/models/domain"
	"github.com/de-tools/status-atlas/pkg/models/store"
	"github.com/de-tools/status-atlas/pkg/services/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(date, status string) store.HistoryEntry {
	e := store.HistoryEntry{Date: date, Type: store.StatusUpdated}
	e.Data.NewValue.StatusName = status
	return e
}

func TestParseInstant(t *testing.T) {
	cal := calendar.Default()

	at, err := ParseInstant("2024-01-15T06:00:00Z", cal.Location())
	require.NoError(t, err)
	// UTC+3 in Moscow.
	assert.Equal(t, time.Date(2024, time.January, 15, 9, 0, 0, 0, cal.Location()), at)

	_, err = ParseInstant("yesterday", cal.Location())
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	cal := calendar.Default()

	t.Run("drops malformed entries", func(t *testing.T) {
		events := Build([]store.HistoryEntry{
			entry("", "to do"),
			entry("2024-01-15T06:00:00Z", ""),
			entry("not-a-date", "in progress"),
			entry("2024-01-15T09:00:00Z", "Done"),
		}, cal.Location())

		require.Len(t, events, 1)
		assert.Equal(t, "done", events[0].Status)
	})

	t.Run("sorts ascending and keeps source order on ties", func(t *testing.T) {
		events := Build([]store.HistoryEntry{
			entry("2024-01-15T09:00:00Z", "done"),
			entry("2024-01-15T06:00:00Z", "in progress"),
			entry("2024-01-15T06:00:00Z", "blocked"),
		}, cal.Location())

		require.Len(t, events, 3)
		assert.Equal(t, "in progress", events[0].Status)
		assert.Equal(t, "blocked", events[1].Status)
		assert.Equal(t, "done", events[2].Status)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Build(nil, cal.Location()))
	})
}

func TestAccumulate(t *testing.T) {
	cal := calendar.Default()
	loc := cal.Location()

	// 2024-01-15 is a Monday.
	at := func(day, hour, min int) time.Time {
		return time.Date(2024, time.January, day, hour, min, 0, 0, loc)
	}
	period := func(startDay, endDay int) (time.Time, time.Time) {
		return at(startDay, 0, 0), at(endDay, 23, 59).Add(59 * time.Second)
	}
	events := func(evs ...domain.StatusEvent) domain.Timeline { return evs }

	t.Run("empty timeline yields zero", func(t *testing.T) {
		start, end := period(15, 19)
		assert.Zero(t, Accumulate(nil, start, end, "in progress", cal))
	})

	t.Run("single day in and out of status", func(t *testing.T) {
		start, end := period(15, 15)
		tl := events(
			domain.StatusEvent{At: at(15, 7, 0), Status: "todo"},
			domain.StatusEvent{At: at(15, 9, 0), Status: "in progress"},
			domain.StatusEvent{At: at(15, 12, 0), Status: "done"},
		)
		assert.InDelta(t, 180, Accumulate(tl, start, end, "In Progress", cal), 1e-9)
	})

	t.Run("same events over a weekend period", func(t *testing.T) {
		start, end := period(13, 14)
		tl := events(
			domain.StatusEvent{At: at(8, 7, 0), Status: "todo"},
			domain.StatusEvent{At: at(8, 9, 0), Status: "in progress"},
		)
		assert.Zero(t, Accumulate(tl, start, end, "in progress", cal))
	})

	t.Run("state carried in from before the period", func(t *testing.T) {
		// Entered the status the week before; no events inside the period.
		start, end := period(15, 16)
		tl := events(domain.StatusEvent{At: at(10, 11, 0), Status: "in progress"})
		assert.InDelta(t, 2*9*60, Accumulate(tl, start, end, "in progress", cal), 1e-9)
	})

	t.Run("no event at or before period start means not in status", func(t *testing.T) {
		start, end := period(15, 15)
		tl := events(domain.StatusEvent{At: at(16, 9, 0), Status: "in progress"})
		assert.Zero(t, Accumulate(tl, start, end, "in progress", cal))
	})

	t.Run("friday start left open through monday", func(t *testing.T) {
		// 2024-01-12 is a Friday.
		start, end := period(8, 15)
		tl := events(domain.StatusEvent{At: at(12, 16, 0), Status: "in progress"})
		assert.InDelta(t, 600, Accumulate(tl, start, end, "in progress", cal), 1e-9)
	})

	t.Run("event past period end closes the window", func(t *testing.T) {
		start, end := period(15, 15)
		tl := events(
			domain.StatusEvent{At: at(15, 9, 0), Status: "in progress"},
			domain.StatusEvent{At: at(18, 10, 0), Status: "done"},
		)
		// Counted up to the period end, not up to the closing event.
		assert.InDelta(t, 8*60, Accumulate(tl, start, end, "in progress", cal), 1e-9)
	})

	t.Run("status left before period start", func(t *testing.T) {
		start, end := period(15, 19)
		tl := events(
			domain.StatusEvent{At: at(10, 9, 0), Status: "in progress"},
			domain.StatusEvent{At: at(11, 9, 0), Status: "done"},
		)
		assert.Zero(t, Accumulate(tl, start, end, "in progress", cal))
	})

	t.Run("last same-instant event wins the state", func(t *testing.T) {
		start, end := period(15, 15)
		tl := events(
			domain.StatusEvent{At: at(15, 9, 0), Status: "in progress"},
			domain.StatusEvent{At: at(15, 9, 0), Status: "blocked"},
		)
		assert.Zero(t, Accumulate(tl, start, end, "in progress", cal))

		tl = events(
			domain.StatusEvent{At: at(15, 9, 0), Status: "blocked"},
			domain.StatusEvent{At: at(15, 9, 0), Status: "in progress"},
			domain.StatusEvent{At: at(15, 12, 0), Status: "done"},
		)
		assert.InDelta(t, 180, Accumulate(tl, start, end, "in progress", cal), 1e-9)
	})

	t.Run("multiple stints in the status", func(t *testing.T) {
		start, end := period(15, 15)
		tl := events(
			domain.StatusEvent{At: at(15, 8, 0), Status: "in progress"},
			domain.StatusEvent{At: at(15, 10, 0), Status: "blocked"},
			domain.StatusEvent{At: at(15, 14, 0), Status: "in progress"},
			domain.StatusEvent{At: at(15, 16, 0), Status: "done"},
		)
		assert.InDelta(t, 240, Accumulate(tl, start, end, "in progress", cal), 1e-9)
	})
}
