package timelog

import (
	"time"
)

// TimestampLayout is the wire format of the log's Timestamp column:
// local wall-clock time, second precision, no zone offset.
const TimestampLayout = "2006-01-02 15:04:05"

// ActionKind is the discrete punch type recorded in the log. The string
// values are the persisted Action column values.
type ActionKind string

const (
	ActionCheckIn        ActionKind = "Check In"
	ActionCheckOut       ActionKind = "Check Out"
	ActionBreakStart     ActionKind = "Break Start"
	ActionBreakEnd       ActionKind = "Break End"
	ActionSiteVisitStart ActionKind = "Site Visit Start"
	ActionSiteVisitEnd   ActionKind = "Site Visit End"
)

// ParseAction converts a persisted Action column value back to an
// ActionKind, failing on anything outside the known set.
func ParseAction(s string) (ActionKind, error) {
	switch ActionKind(s) {
	case ActionCheckIn, ActionCheckOut, ActionBreakStart, ActionBreakEnd,
		ActionSiteVisitStart, ActionSiteVisitEnd:
		return ActionKind(s), nil
	}
	return "", ErrUnknownAction
}

// Event is one immutable row of the time log.
type Event struct {
	Employee  string
	Action    ActionKind
	Timestamp time.Time
}

// Status is an employee's current state, derived from the last event of
// the current calendar day.
type Status string

const (
	StatusIdle        Status = "idle"
	StatusCheckedIn   Status = "checked_in"
	StatusOnBreak     Status = "on_break"
	StatusOnSiteVisit Status = "on_site_visit"
	StatusCheckedOut  Status = "checked_out"
)

// StatusFromLastAction derives the current status. A nil lastAction means
// no events were recorded today.
func StatusFromLastAction(lastAction *ActionKind) Status {
	if lastAction == nil {
		return StatusIdle
	}
	switch *lastAction {
	case ActionCheckIn, ActionBreakEnd, ActionSiteVisitEnd:
		return StatusCheckedIn
	case ActionBreakStart:
		return StatusOnBreak
	case ActionSiteVisitStart:
		return StatusOnSiteVisit
	case ActionCheckOut:
		return StatusCheckedOut
	}
	return StatusIdle
}

// AllowedNextActions returns the legal punches for the current status.
func AllowedNextActions(lastAction *ActionKind) []ActionKind {
	switch StatusFromLastAction(lastAction) {
	case StatusIdle, StatusCheckedOut:
		return []ActionKind{ActionCheckIn}
	case StatusCheckedIn:
		return []ActionKind{ActionCheckOut, ActionBreakStart, ActionSiteVisitStart}
	case StatusOnBreak:
		return []ActionKind{ActionBreakEnd}
	case StatusOnSiteVisit:
		return []ActionKind{ActionSiteVisitEnd}
	}
	return nil
}

// ValidateAction checks whether action is legal for the current status
// and returns the punch-specific rejection if not.
func ValidateAction(lastAction *ActionKind, action ActionKind) error {
	for _, allowed := range AllowedNextActions(lastAction) {
		if action == allowed {
			return nil
		}
	}

	status := StatusFromLastAction(lastAction)
	switch action {
	case ActionCheckIn:
		return ErrAlreadyCheckedIn
	case ActionCheckOut:
		switch status {
		case StatusOnBreak:
			return ErrOnBreak
		case StatusOnSiteVisit:
			return ErrOnSiteVisit
		case StatusCheckedOut:
			return ErrAlreadyCheckedOut
		}
		return ErrNotCheckedIn
	case ActionBreakStart:
		switch status {
		case StatusOnBreak:
			return ErrOnBreak
		case StatusOnSiteVisit:
			return ErrOnSiteVisit
		}
		return ErrNotCheckedIn
	case ActionBreakEnd:
		return ErrNotOnBreak
	case ActionSiteVisitStart:
		switch status {
		case StatusOnBreak:
			return ErrOnBreak
		case StatusOnSiteVisit:
			return ErrOnSiteVisit
		}
		return ErrNotCheckedIn
	case ActionSiteVisitEnd:
		return ErrNotOnSiteVisit
	}
	return ErrUnknownAction
}
