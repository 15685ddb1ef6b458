// Package timeutil renders instants in the system's single display timezone.
// Day bucketing for the summary aggregation depends on these helpers, so they
// are kept pure and free of engine state.
package timeutil

import (
	"fmt"
	"time"
)

const (
	clockLayout = "15:04"
	dayLayout   = "02/01/2006"
)

// Clock formats instants in one fixed location.
type Clock struct {
	loc *time.Location
}

// LoadClock resolves an IANA zone name (e.g. "Asia/Jerusalem") into a Clock.
func LoadClock(zone string) (*Clock, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("timeutil: load zone %q: %w", zone, err)
	}
	return &Clock{loc: loc}, nil
}

// NewClock builds a Clock around an already-loaded location. Nil falls back
// to UTC.
func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc}
}

// FormatClock renders an instant as a 24-hour hour:minute display time.
func (c *Clock) FormatClock(t time.Time) string {
	return t.In(c.loc).Format(clockLayout)
}

// DayKey returns the local calendar date of an instant. A shift is attributed
// to the day of its check-in even when the check-out crosses midnight.
func (c *Clock) DayKey(t time.Time) string {
	return t.In(c.loc).Format(dayLayout)
}

// WindowStart returns the inclusive lower bound of a rolling window of whole
// days ending at now.
func WindowStart(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}
