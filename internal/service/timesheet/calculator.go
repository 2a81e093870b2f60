// Package timesheet holds the pure calculations over time-log events:
// session reconstruction, work-day arithmetic and anomaly rules. Nothing
// here touches a store; every function is deterministic in its input.
package timesheet

import (
	"math"
	"sort"
	"time"

	"github.com/timewise-hq/timeclock-backend-go/internal/domain/timelog"
)

// Session is a matched check-in/check-out interval with the break and
// site-visit time accumulated between them. Durations are in hours.
type Session struct {
	CheckIn        time.Time
	CheckOut       time.Time
	Hours          float64
	BreakHours     float64
	SiteVisitHours float64
}

// Totals are the sums over the emitted sessions of one reconstruction.
// An unmatched trailing check-in contributes nothing.
type Totals struct {
	Hours          float64
	BreakHours     float64
	SiteVisitHours float64
}

// Calculator carries the process-wide work-day constants.
type Calculator struct {
	cutoffHour    int
	cutoffMinute  int
	standardHours float64
}

func NewCalculator(cutoffHour, cutoffMinute int, standardHours float64) *Calculator {
	return &Calculator{
		cutoffHour:    cutoffHour,
		cutoffMinute:  cutoffMinute,
		standardHours: standardHours,
	}
}

// Reconstruct pairs check-ins with the next check-out in a single pass
// over the events, sorted by timestamp (stable, so equal timestamps keep
// their log order). A later check-in silently replaces an unmatched
// earlier one; end events without a matching start are silently dropped.
func (c *Calculator) Reconstruct(events []timelog.Event) ([]Session, Totals) {
	sorted := SortEvents(events)

	var (
		sessions       []Session
		checkIn        *time.Time
		breakStart     *time.Time
		siteVisitStart *time.Time
		breakTime      time.Duration
		siteVisitTime  time.Duration
	)

	for _, event := range sorted {
		ts := event.Timestamp
		switch event.Action {
		case timelog.ActionCheckIn:
			checkIn = &ts
		case timelog.ActionCheckOut:
			if checkIn == nil {
				continue
			}
			duration := ts.Sub(*checkIn) - breakTime
			sessions = append(sessions, Session{
				CheckIn:        *checkIn,
				CheckOut:       ts,
				Hours:          duration.Hours(),
				BreakHours:     breakTime.Hours(),
				SiteVisitHours: siteVisitTime.Hours(),
			})
			checkIn = nil
			breakTime = 0
			siteVisitTime = 0
		case timelog.ActionBreakStart:
			breakStart = &ts
		case timelog.ActionBreakEnd:
			if breakStart == nil {
				continue
			}
			breakTime += ts.Sub(*breakStart)
			breakStart = nil
		case timelog.ActionSiteVisitStart:
			siteVisitStart = &ts
		case timelog.ActionSiteVisitEnd:
			if siteVisitStart == nil {
				continue
			}
			siteVisitTime += ts.Sub(*siteVisitStart)
			siteVisitStart = nil
		}
	}

	var totals Totals
	for _, s := range sessions {
		totals.Hours += s.Hours
		totals.BreakHours += s.BreakHours
		totals.SiteVisitHours += s.SiteVisitHours
	}

	return sessions, totals
}

// SortEvents returns a copy of events in timestamp order; equal
// timestamps keep their original relative order.
func SortEvents(events []timelog.Event) []timelog.Event {
	sorted := make([]timelog.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// Overtime is the portion of hours beyond the standard work day,
// floored at zero.
func (c *Calculator) Overtime(hours float64) float64 {
	if hours > c.standardHours {
		return hours - c.standardHours
	}
	return 0
}

// StandardHours returns the configured full-day threshold.
func (c *Calculator) StandardHours() float64 {
	return c.standardHours
}

// IsLateArrival reports whether a check-in's time-of-day is past the
// configured cutoff.
func (c *Calculator) IsLateArrival(checkIn time.Time) bool {
	cutoff := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(),
		c.cutoffHour, c.cutoffMinute, 0, 0, checkIn.Location())
	return checkIn.After(cutoff)
}

// CutoffClock renders the cutoff as "HH:MM" for messages.
func (c *Calculator) CutoffClock() string {
	return time.Date(0, 1, 1, c.cutoffHour, c.cutoffMinute, 0, 0, time.UTC).Format("15:04")
}

// WeekBounds returns the Monday and Sunday dates of the week containing
// now, truncated to midnight in now's location.
func WeekBounds(now time.Time) (time.Time, time.Time) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daysSinceMonday := (int(midnight.Weekday()) + 6) % 7
	weekStart := midnight.AddDate(0, 0, -daysSinceMonday)
	weekEnd := weekStart.AddDate(0, 0, 6)
	return weekStart, weekEnd
}

// SameDate reports whether two timestamps fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Round2 rounds to two decimal places for report rows.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
