// Package calendar measures how much of a raw time span falls inside
// working days and the daily working window.
package calendar

import (
	"fmt"
	"time"

	"github.com/de-tools/status-atlas/pkg/models/domain"
)

const (
	DefaultTimezone  = "Europe/Moscow"
	DefaultStartHour = 8
	DefaultEndHour   = 17
)

// Calendar is the fixed working-time configuration: Monday-Friday, one daily
// [start, end) hour window, one reference timezone. Immutable after
// construction and safe to share across computations.
type Calendar struct {
	loc       *time.Location
	startHour int
	endHour   int
}

func New(timezone string, startHour, endHour int) (*Calendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar timezone %q: %w", timezone, err)
	}
	if startHour < 0 || endHour > 24 || startHour >= endHour {
		return nil, fmt.Errorf("invalid working window [%d, %d)", startHour, endHour)
	}
	return &Calendar{loc: loc, startHour: startHour, endHour: endHour}, nil
}

// Default returns the Mon-Fri 08:00-17:00 Europe/Moscow calendar.
func Default() *Calendar {
	cal, err := New(DefaultTimezone, DefaultStartHour, DefaultEndHour)
	if err != nil {
		panic(err)
	}
	return cal
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// IsWorkingDay reports whether t falls on a working day in the calendar
// timezone.
func (c *Calendar) IsWorkingDay(t time.Time) bool {
	wd := t.In(c.loc).Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// Clip returns the minutes of [start, end] that overlap the working windows
// of the days the span covers. End at or before start yields zero. The
// result may be fractional.
func (c *Calendar) Clip(start, end time.Time) float64 {
	if !end.After(start) {
		return 0
	}

	end = end.In(c.loc)
	cur := start.In(c.loc)
	var total time.Duration

	for !dateOf(cur).After(dateOf(end)) {
		if !c.IsWorkingDay(cur) {
			cur = c.nextWindowStart(cur)
			continue
		}

		segStart := laterOf(cur, c.windowStart(cur))
		segEnd := earlierOf(end, c.windowEnd(cur))
		if segStart.Before(segEnd) {
			total += segEnd.Sub(segStart)
		}

		cur = c.nextWindowStart(cur)
	}

	return total.Minutes()
}

// ExpandPeriod turns an inclusive date range into absolute instants:
// 00:00:00 on the start date, 23:59:59 on the end date, both in the
// calendar timezone.
func (c *Calendar) ExpandPeriod(p domain.Period) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", p.Start, c.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period start %q: %w", p.Start, err)
	}
	endDate, err := time.ParseInLocation("2006-01-02", p.End, c.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period end %q: %w", p.End, err)
	}
	end := endDate.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return start, end, nil
}

func (c *Calendar) windowStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.startHour, 0, 0, 0, c.loc)
}

func (c *Calendar) windowEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.endHour, 0, 0, 0, c.loc)
}

func (c *Calendar) nextWindowStart(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	return c.windowStart(next)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
