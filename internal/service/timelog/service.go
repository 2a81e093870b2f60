package timelog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/report"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/timelog"
	"github.com/timewise-hq/timeclock-backend-go/internal/service/timesheet"
)

type TimelogServiceImpl struct {
	timelog.LogRepository
	calculator    *timesheet.Calculator
	reportService report.ReportService
	now           func() time.Time
}

// NewTimelogService wires the punch flow. reportService may be nil in
// tests; it is only used for the best-effort summary mirror.
func NewTimelogService(
	logRepo timelog.LogRepository,
	calculator *timesheet.Calculator,
	reportService report.ReportService,
) *TimelogServiceImpl {
	return &TimelogServiceImpl{
		LogRepository: logRepo,
		calculator:    calculator,
		reportService: reportService,
		now:           time.Now,
	}
}

// employeeFromContext returns the display name recorded in the log for
// the authenticated session.
func employeeFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	displayName, ok := claims["display_name"].(string)
	if !ok || displayName == "" {
		return "", fmt.Errorf("display_name claim is missing or invalid")
	}
	return displayName, nil
}

// todayEvents filters the full log down to one employee's events on the
// current local calendar day, in chronological order.
func (s *TimelogServiceImpl) todayEvents(ctx context.Context, employee string) ([]timelog.Event, error) {
	events, err := s.LogRepository.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read time log: %w", err)
	}

	today := s.now()
	var todays []timelog.Event
	for _, event := range events {
		if event.Employee == employee && timesheet.SameDate(event.Timestamp, today) {
			todays = append(todays, event)
		}
	}
	return timesheet.SortEvents(todays), nil
}

func lastAction(events []timelog.Event) *timelog.ActionKind {
	if len(events) == 0 {
		return nil
	}
	action := events[len(events)-1].Action
	return &action
}

// Punch implements timelog.TimelogService.
func (s *TimelogServiceImpl) Punch(ctx context.Context, req timelog.PunchRequest) (timelog.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return timelog.PunchResponse{}, err
	}
	action, err := timelog.ParseAction(req.Action)
	if err != nil {
		return timelog.PunchResponse{}, err
	}

	employee, err := employeeFromContext(ctx)
	if err != nil {
		return timelog.PunchResponse{}, err
	}

	todays, err := s.todayEvents(ctx, employee)
	if err != nil {
		return timelog.PunchResponse{}, err
	}

	// Illegal punches are rejected before anything reaches the log.
	if err := timelog.ValidateAction(lastAction(todays), action); err != nil {
		return timelog.PunchResponse{}, err
	}

	loggedAt, err := s.LogRepository.Append(ctx, employee, action)
	if err != nil {
		return timelog.PunchResponse{}, fmt.Errorf("failed to append to time log: %w", err)
	}

	late := action == timelog.ActionCheckIn &&
		countAction(todays, timelog.ActionCheckIn) == 0 &&
		s.calculator.IsLateArrival(loggedAt)

	// The summary mirror is a secondary write: failures must not fail
	// the punch that already landed.
	if s.reportService != nil {
		if err := s.reportService.MirrorMonthlySummary(ctx); err != nil {
			slog.Warn("Failed to mirror monthly summary", "error", err)
		}
	}

	return timelog.PunchResponse{
		Employee:    employee,
		Action:      string(action),
		Timestamp:   loggedAt.Format(timelog.TimestampLayout),
		LateArrival: late,
	}, nil
}

func countAction(events []timelog.Event, action timelog.ActionKind) int {
	n := 0
	for _, event := range events {
		if event.Action == action {
			n++
		}
	}
	return n
}

// statusMessage phrases the current state the way the clock screen
// shows it.
func statusMessage(last *timelog.ActionKind, lastTime *time.Time) string {
	if last == nil {
		return "You have not checked in today"
	}
	clock := lastTime.Format("15:04:05")
	switch *last {
	case timelog.ActionCheckIn:
		return fmt.Sprintf("Currently checked in (since %s)", clock)
	case timelog.ActionCheckOut:
		return fmt.Sprintf("Checked out (at %s)", clock)
	case timelog.ActionBreakStart:
		return fmt.Sprintf("On break (since %s)", clock)
	case timelog.ActionBreakEnd:
		return fmt.Sprintf("Back from break (at %s)", clock)
	case timelog.ActionSiteVisitStart:
		return fmt.Sprintf("On site visit (since %s)", clock)
	case timelog.ActionSiteVisitEnd:
		return fmt.Sprintf("Back from site visit (at %s)", clock)
	}
	return "Unknown status"
}

func (s *TimelogServiceImpl) buildStatus(todays []timelog.Event) timelog.StatusResponse {
	last := lastAction(todays)
	var lastTime *time.Time
	if len(todays) > 0 {
		t := todays[len(todays)-1].Timestamp
		lastTime = &t
	}

	allowed := timelog.AllowedNextActions(last)
	allowedStrs := make([]string, 0, len(allowed))
	for _, a := range allowed {
		allowedStrs = append(allowedStrs, string(a))
	}

	resp := timelog.StatusResponse{
		Status:         string(timelog.StatusFromLastAction(last)),
		Message:        statusMessage(last, lastTime),
		AllowedActions: allowedStrs,
	}
	if last != nil {
		action := string(*last)
		formatted := lastTime.Format(timelog.TimestampLayout)
		resp.LastAction = &action
		resp.LastTime = &formatted
	}

	for _, event := range todays {
		if event.Action == timelog.ActionCheckIn {
			first := event.Timestamp.Format("15:04:05")
			resp.FirstCheckIn = &first
			resp.LateArrival = s.calculator.IsLateArrival(event.Timestamp)
			break
		}
	}

	return resp
}

// Status implements timelog.TimelogService.
func (s *TimelogServiceImpl) Status(ctx context.Context) (timelog.StatusResponse, error) {
	employee, err := employeeFromContext(ctx)
	if err != nil {
		return timelog.StatusResponse{}, err
	}

	todays, err := s.todayEvents(ctx, employee)
	if err != nil {
		return timelog.StatusResponse{}, err
	}

	return s.buildStatus(todays), nil
}

// TodaySummary implements timelog.TimelogService.
func (s *TimelogServiceImpl) TodaySummary(ctx context.Context) (timelog.TodaySummaryResponse, error) {
	employee, err := employeeFromContext(ctx)
	if err != nil {
		return timelog.TodaySummaryResponse{}, err
	}

	todays, err := s.todayEvents(ctx, employee)
	if err != nil {
		return timelog.TodaySummaryResponse{}, err
	}

	sessions, totals := s.calculator.Reconstruct(todays)

	resp := timelog.TodaySummaryResponse{
		Status:         s.buildStatus(todays),
		Sessions:       mapSessions(sessions),
		CheckIns:       countAction(todays, timelog.ActionCheckIn),
		Breaks:         countAction(todays, timelog.ActionBreakStart),
		SiteVisits:     countAction(todays, timelog.ActionSiteVisitStart),
		TotalHours:     timesheet.Round2(totals.Hours),
		BreakHours:     timesheet.Round2(totals.BreakHours),
		SiteVisitHours: timesheet.Round2(totals.SiteVisitHours),
		Overtime:       timesheet.Round2(s.calculator.Overtime(totals.Hours)),
	}

	// A trailing open check-in is not part of the totals, but the clock
	// screen still shows how long it has been running.
	if resp.CheckIns > countAction(todays, timelog.ActionCheckOut) {
		for i := len(todays) - 1; i >= 0; i-- {
			if todays[i].Action == timelog.ActionCheckIn {
				openHours := timesheet.Round2(s.now().Sub(todays[i].Timestamp).Hours())
				resp.OpenSessionHours = &openHours
				break
			}
		}
	}

	return resp, nil
}

// mapSessions converts reconstructed sessions to their response form.
func mapSessions(sessions []timesheet.Session) []timelog.SessionResponse {
	out := make([]timelog.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, timelog.SessionResponse{
			CheckIn:        s.CheckIn.Format(timelog.TimestampLayout),
			CheckOut:       s.CheckOut.Format(timelog.TimestampLayout),
			Hours:          timesheet.Round2(s.Hours),
			BreakHours:     timesheet.Round2(s.BreakHours),
			SiteVisitHours: timesheet.Round2(s.SiteVisitHours),
		})
	}
	return out
}

// RawLog implements timelog.TimelogService.
func (s *TimelogServiceImpl) RawLog(ctx context.Context) ([]timelog.EventResponse, error) {
	events, err := s.LogRepository.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read time log: %w", err)
	}

	out := make([]timelog.EventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, timelog.EventResponse{
			Employee:  event.Employee,
			Action:    string(event.Action),
			Timestamp: event.Timestamp.Format(timelog.TimestampLayout),
		})
	}
	return out, nil
}

// ClearAll implements timelog.TimelogService.
func (s *TimelogServiceImpl) ClearAll(ctx context.Context) error {
	if err := s.LogRepository.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear time log: %w", err)
	}
	return nil
}
