package report

import (
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/timelog"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/validator"
)

// lookback windows offered for history and anomaly scans, in days
var allowedLookbackDays = []int{7, 14, 30, 60, 90}

const DefaultLookbackDays = 30

type WeeklySummaryRow struct {
	Employee      string  `json:"employee"`
	HoursWorked   float64 `json:"hours_worked"`
	BreakTime     float64 `json:"break_time"`
	SiteVisitTime float64 `json:"site_visit_time"`
	Overtime      float64 `json:"overtime"`
}

type WeeklySummaryResponse struct {
	WeekStart string             `json:"week_start"`
	WeekEnd   string             `json:"week_end"`
	Rows      []WeeklySummaryRow `json:"rows"`
}

type MonthlySummaryRow struct {
	Employee   string  `json:"employee"`
	Year       int     `json:"year"`
	Month      string  `json:"month"`
	TotalHours float64 `json:"total_hours"`
}

type MonthlySummaryResponse struct {
	Rows []MonthlySummaryRow `json:"rows"`
}

type PayrollExportRequest struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

func (r *PayrollExportRequest) Validate() error {
	var errs validator.ValidationErrors

	// The range filter is all-or-nothing: either both bounds or neither.
	if (r.StartDate == nil) != (r.EndDate == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date and end_date must be provided together",
		})
	}

	var start, end string
	if r.StartDate != nil {
		start = *r.StartDate
		if _, ok := validator.IsValidDate(start); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be formatted YYYY-MM-DD",
			})
		}
	}
	if r.EndDate != nil {
		end = *r.EndDate
		if _, ok := validator.IsValidDate(end); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be formatted YYYY-MM-DD",
			})
		}
	}
	if start != "" && end != "" && end < start {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollRow struct {
	Employee   string  `json:"employee"`
	TotalHours float64 `json:"total_hours"`
	TotalDays  float64 `json:"total_days"`
}

// PayrollExport carries the generated workbook plus the rows it was
// built from.
type PayrollExport struct {
	Filename string       `json:"filename"`
	Rows     []PayrollRow `json:"rows"`
	File     []byte       `json:"-"`
}

type HistoryRequest struct {
	Days int `json:"days"`
}

func (r *HistoryRequest) Validate() error {
	if r.Days == 0 {
		r.Days = DefaultLookbackDays
	}
	if !validator.IsInSlice(r.Days, allowedLookbackDays) {
		return validator.ValidationErrors{{
			Field:   "days",
			Message: "days must be one of 7, 14, 30, 60, 90",
		}}
	}
	return nil
}

type IssueResponse struct {
	Date    string `json:"date"`
	Issue   string `json:"issue"`
	Details string `json:"details"`
}

type HistoryResponse struct {
	Days        int                       `json:"days"`
	Events      []timelog.EventResponse   `json:"events"`
	Sessions    []timelog.SessionResponse `json:"sessions"`
	TotalHours  float64                   `json:"total_hours"`
	BreakHours  float64                   `json:"break_hours"`
	SiteHours   float64                   `json:"site_visit_hours"`
	EstOvertime float64                   `json:"estimated_overtime"`
	Issues      []IssueResponse           `json:"issues"`
}
