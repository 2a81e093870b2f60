package timelog

import "errors"

// Timelog domain errors
var (
	// Punch validation errors
	ErrAlreadyCheckedIn  = errors.New("you are already checked in, check out first")
	ErrNotCheckedIn      = errors.New("you have not checked in today")
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")
	ErrOnBreak           = errors.New("please end your break first")
	ErrNotOnBreak        = errors.New("you are not currently on break")
	ErrOnSiteVisit       = errors.New("please end your site visit first")
	ErrNotOnSiteVisit    = errors.New("you are not currently on a site visit")
	ErrUnknownAction     = errors.New("unknown action")

	// Store boundary errors
	ErrMalformedLogRow = errors.New("malformed time log row")
)
