package timelog

import (
	"context"
)

// TimelogService defines business logic for punching the clock and
// inspecting the current day. The acting employee is taken from the
// authenticated session in ctx.
type TimelogService interface {
	// Punch validates the action against the employee's current status
	// and appends it to the log. Illegal actions are rejected without a
	// log write.
	Punch(ctx context.Context, req PunchRequest) (PunchResponse, error)

	// Status reports the employee's current state and legal next actions.
	Status(ctx context.Context) (StatusResponse, error)

	// TodaySummary reports today's sessions, totals and overtime.
	TodaySummary(ctx context.Context) (TodaySummaryResponse, error)

	// RawLog returns the full event log (admin).
	RawLog(ctx context.Context) ([]EventResponse, error)

	// ClearAll wipes the event log (admin).
	ClearAll(ctx context.Context) error
}
