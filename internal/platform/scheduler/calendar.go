package scheduler

import (
	"log/slog"
	"time"

	"github.com/scmhub/calendar"
)

// Fallback session used when no calendar exists for the requested MIC.
const (
	fallbackZone  = "Asia/Kolkata"
	fallbackOpen  = 9
	fallbackClose = 16
)

// Calendar reports whether a market is open, backed by scmhub/calendar.
// Without a calendar for the MIC it falls back to Mon-Fri 09:00-16:00 Asia/Kolkata.
type Calendar struct {
	mic      string
	cal      *calendar.Calendar
	loc      *time.Location
	fallback bool
}

// NewCalendar loads the exchange calendar for mic (ISO 10383, e.g. "xnse").
func NewCalendar(mic string) *Calendar {
	if cal := calendar.GetCalendar(mic); cal != nil {
		return &Calendar{mic: mic, cal: cal, loc: cal.Loc}
	}

	slog.Warn("no exchange calendar, using weekday session fallback",
		"mic", mic, "zone", fallbackZone, "open", fallbackOpen, "close", fallbackClose)
	return newFallbackCalendar(mic)
}

func newFallbackCalendar(mic string) *Calendar {
	loc, err := time.LoadLocation(fallbackZone)
	if err != nil {
		loc = time.FixedZone("IST", 5*60*60+30*60)
	}
	return &Calendar{mic: mic, loc: loc, fallback: true}
}

// IsOpen reports whether the market is open at t.
func (c *Calendar) IsOpen(t time.Time) bool {
	if !c.fallback {
		return c.cal.IsOpen(t)
	}

	t = t.In(c.loc)
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return t.Hour() >= fallbackOpen && t.Hour() < fallbackClose
}

// Fallback reports whether the weekday session fallback is in use.
func (c *Calendar) Fallback() bool { return c.fallback }

// MIC returns the market identifier the calendar was built for.
func (c *Calendar) MIC() string { return c.mic }
