package timelog

import (
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/validator"
)

type PunchRequest struct {
	Action string `json:"action"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Action) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action is required",
		})
	} else if _, err := ParseAction(r.Action); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of: Check In, Check Out, Break Start, Break End, Site Visit Start, Site Visit End",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PunchResponse struct {
	Employee    string `json:"employee"`
	Action      string `json:"action"`
	Timestamp   string `json:"timestamp"`
	LateArrival bool   `json:"late_arrival"`
}

type EventResponse struct {
	Employee  string `json:"employee"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

type StatusResponse struct {
	Status         string   `json:"status"`
	Message        string   `json:"message"`
	LastAction     *string  `json:"last_action,omitempty"`
	LastTime       *string  `json:"last_time,omitempty"`
	AllowedActions []string `json:"allowed_actions"`
	LateArrival    bool     `json:"late_arrival"`
	FirstCheckIn   *string  `json:"first_check_in,omitempty"`
}

type SessionResponse struct {
	CheckIn        string  `json:"check_in"`
	CheckOut       string  `json:"check_out"`
	Hours          float64 `json:"hours"`
	BreakHours     float64 `json:"break_hours"`
	SiteVisitHours float64 `json:"site_visit_hours"`
}

type TodaySummaryResponse struct {
	Status           StatusResponse    `json:"status"`
	Sessions         []SessionResponse `json:"sessions"`
	CheckIns         int               `json:"check_ins"`
	Breaks           int               `json:"breaks"`
	SiteVisits       int               `json:"site_visits"`
	TotalHours       float64           `json:"total_hours"`
	BreakHours       float64           `json:"break_hours"`
	SiteVisitHours   float64           `json:"site_visit_hours"`
	Overtime         float64           `json:"overtime"`
	OpenSessionHours *float64          `json:"open_session_hours,omitempty"`
}
