package timesheet

import (
	"fmt"
	"time"

	"github.com/timewise-hq/timeclock-backend-go/internal/domain/timelog"
)

// IssueKind labels one anomaly rule.
type IssueKind string

const (
	IssueMissingCheckOut       IssueKind = "Missing check-out"
	IssueMissingCheckIn        IssueKind = "Missing check-in"
	IssueUnfinishedBreak       IssueKind = "Unfinished break"
	IssueBreakEndWithoutStart  IssueKind = "Break end without start"
	IssueUnfinishedSiteVisit   IssueKind = "Unfinished site visit"
	IssueSiteEndWithoutStart   IssueKind = "Site visit end without start"
	IssueLateArrival           IssueKind = "Late arrival"
	IssueShortWorkDay          IssueKind = "Short work day"
	IssueExcessivelyLongDay    IssueKind = "Excessively long day"
	IssueCheckOutBeforeCheckIn IssueKind = "Check-out before check-in"
	IssueLongBreak             IssueKind = "Long break"
	IssueWeekendWork           IssueKind = "Weekend work"
)

const (
	shortDayHours  = 4.0
	longDayHours   = 12.0
	longBreakHours = 2.0
)

// Issue is one detected anomaly on one calendar date. Recomputed on
// every scan, never stored.
type Issue struct {
	Date    time.Time
	Kind    IssueKind
	Details string
}

// DetectIssues partitions one employee's events by calendar date and
// applies the rule set to each date independently. Rules do not suppress
// each other: a day can report both a missing check-out and a late
// arrival. Output is date-ascending with rule order preserved within a
// date.
func (c *Calculator) DetectIssues(events []timelog.Event) []Issue {
	sorted := SortEvents(events)

	var dates []time.Time
	byDate := make(map[time.Time][]timelog.Event)
	for _, event := range sorted {
		date := DateOf(event.Timestamp)
		if _, ok := byDate[date]; !ok {
			dates = append(dates, date)
		}
		byDate[date] = append(byDate[date], event)
	}

	var issues []Issue
	for _, date := range dates {
		issues = append(issues, c.scanDay(date, byDate[date])...)
	}
	return issues
}

func (c *Calculator) scanDay(date time.Time, dayEvents []timelog.Event) []Issue {
	var (
		checkIns, checkOuts    []time.Time
		breakStarts, breakEnds []time.Time
		siteStarts, siteEnds   []time.Time
	)
	for _, event := range dayEvents {
		switch event.Action {
		case timelog.ActionCheckIn:
			checkIns = append(checkIns, event.Timestamp)
		case timelog.ActionCheckOut:
			checkOuts = append(checkOuts, event.Timestamp)
		case timelog.ActionBreakStart:
			breakStarts = append(breakStarts, event.Timestamp)
		case timelog.ActionBreakEnd:
			breakEnds = append(breakEnds, event.Timestamp)
		case timelog.ActionSiteVisitStart:
			siteStarts = append(siteStarts, event.Timestamp)
		case timelog.ActionSiteVisitEnd:
			siteEnds = append(siteEnds, event.Timestamp)
		}
	}

	var issues []Issue
	add := func(kind IssueKind, details string) {
		issues = append(issues, Issue{Date: date, Kind: kind, Details: details})
	}

	if len(checkIns) > len(checkOuts) {
		add(IssueMissingCheckOut, fmt.Sprintf("%d check-ins, %d check-outs", len(checkIns), len(checkOuts)))
	}
	if len(checkOuts) > len(checkIns) {
		add(IssueMissingCheckIn, fmt.Sprintf("%d check-ins, %d check-outs", len(checkIns), len(checkOuts)))
	}
	if len(breakStarts) > len(breakEnds) {
		add(IssueUnfinishedBreak, fmt.Sprintf("%d break starts, %d break ends", len(breakStarts), len(breakEnds)))
	}
	if len(breakEnds) > len(breakStarts) {
		add(IssueBreakEndWithoutStart, fmt.Sprintf("%d break starts, %d break ends", len(breakStarts), len(breakEnds)))
	}
	if len(siteStarts) > len(siteEnds) {
		add(IssueUnfinishedSiteVisit, fmt.Sprintf("%d site starts, %d site ends", len(siteStarts), len(siteEnds)))
	}
	if len(siteEnds) > len(siteStarts) {
		add(IssueSiteEndWithoutStart, fmt.Sprintf("%d site starts, %d site ends", len(siteStarts), len(siteEnds)))
	}

	if len(checkIns) > 0 && c.IsLateArrival(checkIns[0]) {
		add(IssueLateArrival, fmt.Sprintf("Checked in at %s (after %s)",
			checkIns[0].Format("15:04:05"), c.CutoffClock()))
	}

	// Day-total rules only apply to balanced days; open sessions are
	// covered by the missing check-out rule instead.
	if len(checkIns) == len(checkOuts) && len(checkIns) > 0 {
		_, dayTotals := c.Reconstruct(dayEvents)
		if dayTotals.Hours > 0 && dayTotals.Hours < shortDayHours {
			add(IssueShortWorkDay, fmt.Sprintf("Only %.1f hours worked", dayTotals.Hours))
		}
		if dayTotals.Hours > longDayHours {
			add(IssueExcessivelyLongDay, fmt.Sprintf("%.1f hours (more than %.0fh)", dayTotals.Hours, longDayHours))
		}
	}

	if len(checkIns) > 0 && len(checkOuts) > 0 && checkOuts[0].Before(checkIns[0]) {
		add(IssueCheckOutBeforeCheckIn, fmt.Sprintf("Out at %s, In at %s",
			checkOuts[0].Format("15:04"), checkIns[0].Format("15:04")))
	}

	// Breaks pair by position index: the i-th start against the i-th
	// end. Only the first long break of a day is reported.
	for i := 0; i < len(breakStarts) && i < len(breakEnds); i++ {
		breakDuration := breakEnds[i].Sub(breakStarts[i]).Hours()
		if breakDuration > longBreakHours {
			add(IssueLongBreak, fmt.Sprintf("Break lasted %.1f hours", breakDuration))
			break
		}
	}

	if weekday := date.Weekday(); weekday == time.Saturday || weekday == time.Sunday {
		add(IssueWeekendWork, fmt.Sprintf("Worked on %s", weekday))
	}

	return issues
}
