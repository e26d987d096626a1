// Package clock answers "what calendar day is it for this user". All streak
// math and recurring-goal checks depend on the user's IANA timezone, never on
// server local time, so every date the rest of the code touches comes from
// here.
package clock

import (
	"time"
)

// DateFormat is the calendar-date form stored in last_active_date and
// last_completed_date columns.
const DateFormat = "2006-01-02"

type Clock struct {
	nowFn func() time.Time
}

// New returns a Clock backed by the real wall clock.
func New() *Clock {
	return &Clock{nowFn: time.Now}
}

// NewFixed returns a Clock frozen at the given instant, for tests.
func NewFixed(now time.Time) *Clock {
	return &Clock{nowFn: func() time.Time { return now }}
}

func (c *Clock) Now() time.Time {
	return c.nowFn()
}

// Today returns the current calendar date (YYYY-MM-DD) in the given zone.
func (c *Clock) Today(tz string) string {
	return c.nowFn().In(location(tz)).Format(DateFormat)
}

// Yesterday returns the calendar date one day before Today in the given
// zone. Computed from today's midnight rather than now-24h so DST
// transitions cannot skip a day.
func (c *Clock) Yesterday(tz string) string {
	loc := location(tz)
	now := c.nowFn().In(loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return midnight.AddDate(0, 0, -1).Format(DateFormat)
}

// Hour returns the current hour of day (0-23) in the given zone.
func (c *Clock) Hour(tz string) int {
	return c.nowFn().In(location(tz)).Hour()
}

// Weekday returns the current day of week in the given zone, 0 = Sunday,
// matching the recurring-day indices stored on goals.
func (c *Clock) Weekday(tz string) int {
	return int(c.nowFn().In(location(tz)).Weekday())
}

// ValidZone reports whether tz names a loadable IANA zone.
func ValidZone(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// location resolves tz, falling back to UTC for unknown or empty names.
// Profiles written before timezone validation existed may carry junk; a
// wrong day boundary beats a failed completion.
func location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
