package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/employee"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/report"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/timelog"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/storage"
	"github.com/timewise-hq/timeclock-backend-go/internal/service/timesheet"
	"github.com/xuri/excelize/v2"
)

const (
	payrollSheetName        = "Payment Summary"
	monthlySummarySheetName = "Monthly Summary"
	monthlySummaryPath      = "monthly_summary.xlsx"

	// payrollDayHours is the fixed day length the payroll sheet converts
	// hours with. It stays 8 even when STANDARD_WORK_HOURS differs; the
	// "Total Days (8h)" column header promises as much.
	payrollDayHours = 8.0
)

type ReportServiceImpl struct {
	timelog.LogRepository
	credentialRepository employee.CredentialRepository
	calculator           *timesheet.Calculator
	fileStorage          storage.FileStorage
	now                  func() time.Time
}

// NewReportService wires the reporting layer. fileStorage may be nil in
// tests; mirroring and export uploads are skipped without it.
func NewReportService(
	logRepo timelog.LogRepository,
	credentialRepo employee.CredentialRepository,
	calculator *timesheet.Calculator,
	fileStorage storage.FileStorage,
) *ReportServiceImpl {
	return &ReportServiceImpl{
		LogRepository:        logRepo,
		credentialRepository: credentialRepo,
		calculator:           calculator,
		fileStorage:          fileStorage,
		now:                  time.Now,
	}
}

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

func filterEvents(events []timelog.Event, employee string, from, to time.Time) []timelog.Event {
	var out []timelog.Event
	for _, event := range events {
		if employee != "" && event.Employee != employee {
			continue
		}
		if !from.IsZero() && event.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && event.Timestamp.After(to) {
			continue
		}
		out = append(out, event)
	}
	return out
}

// WeeklySummary implements report.ReportService.
func (s *ReportServiceImpl) WeeklySummary(ctx context.Context) (report.WeeklySummaryResponse, error) {
	events, err := s.LogRepository.ReadAll(ctx)
	if err != nil {
		return report.WeeklySummaryResponse{}, fmt.Errorf("failed to read time log: %w", err)
	}
	credentials, err := s.credentialRepository.GetAll(ctx)
	if err != nil {
		return report.WeeklySummaryResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	weekStart, weekEnd := timesheet.WeekBounds(s.now())
	// weekEnd is Sunday midnight; the window covers the whole Sunday.
	weekCutoff := weekEnd.AddDate(0, 0, 1).Add(-time.Second)
	rows := make([]report.WeeklySummaryRow, 0, len(credentials))
	for _, cred := range credentials {
		week := filterEvents(events, cred.DisplayName, weekStart, weekCutoff)
		_, totals := s.calculator.Reconstruct(week)
		rows = append(rows, report.WeeklySummaryRow{
			Employee:      cred.DisplayName,
			HoursWorked:   timesheet.Round2(totals.Hours),
			BreakTime:     timesheet.Round2(totals.BreakHours),
			SiteVisitTime: timesheet.Round2(totals.SiteVisitHours),
			Overtime:      timesheet.Round2(s.calculator.Overtime(totals.Hours)),
		})
	}

	return report.WeeklySummaryResponse{
		WeekStart: weekStart.Format("2006-01-02"),
		WeekEnd:   weekEnd.Format("2006-01-02"),
		Rows:      rows,
	}, nil
}

// monthlyRows recomputes the per-employee month totals from the full
// log. Employees appear in order of first appearance, months in
// chronological order within each employee.
func (s *ReportServiceImpl) monthlyRows(events []timelog.Event) []report.MonthlySummaryRow {
	var order []string
	seen := map[string]bool{}
	for _, event := range events {
		if !seen[event.Employee] {
			seen[event.Employee] = true
			order = append(order, event.Employee)
		}
	}

	var rows []report.MonthlySummaryRow
	for _, name := range order {
		sessions, _ := s.calculator.Reconstruct(filterEvents(events, name, time.Time{}, time.Time{}))

		type monthKey struct {
			year  int
			month time.Month
		}
		totals := map[monthKey]float64{}
		var monthOrder []monthKey
		for _, session := range sessions {
			key := monthKey{session.CheckIn.Year(), session.CheckIn.Month()}
			if _, ok := totals[key]; !ok {
				monthOrder = append(monthOrder, key)
			}
			totals[key] += session.Hours
		}
		sort.Slice(monthOrder, func(i, j int) bool {
			if monthOrder[i].year != monthOrder[j].year {
				return monthOrder[i].year < monthOrder[j].year
			}
			return monthOrder[i].month < monthOrder[j].month
		})

		for _, key := range monthOrder {
			rows = append(rows, report.MonthlySummaryRow{
				Employee:   name,
				Year:       key.year,
				Month:      key.month.String(),
				TotalHours: timesheet.Round2(totals[key]),
			})
		}
	}
	return rows
}

// MonthlySummary implements report.ReportService.
func (s *ReportServiceImpl) MonthlySummary(ctx context.Context) (report.MonthlySummaryResponse, error) {
	events, err := s.LogRepository.ReadAll(ctx)
	if err != nil {
		return report.MonthlySummaryResponse{}, fmt.Errorf("failed to read time log: %w", err)
	}
	return report.MonthlySummaryResponse{Rows: s.monthlyRows(events)}, nil
}

// PayrollExport implements report.ReportService.
func (s *ReportServiceImpl) PayrollExport(ctx context.Context, req report.PayrollExportRequest) (report.PayrollExport, error) {
	if err := req.Validate(); err != nil {
		return report.PayrollExport{}, err
	}

	var from, to time.Time
	if req.StartDate != nil && req.EndDate != nil {
		var err error
		from, err = time.ParseInLocation("2006-01-02", *req.StartDate, time.Local)
		if err != nil {
			return report.PayrollExport{}, fmt.Errorf("failed to parse start_date: %w", err)
		}
		to, err = time.ParseInLocation("2006-01-02", *req.EndDate, time.Local)
		if err != nil {
			return report.PayrollExport{}, fmt.Errorf("failed to parse end_date: %w", err)
		}
		// End bound is inclusive of the whole day.
		to = to.AddDate(0, 0, 1).Add(-time.Second)
	}

	events, err := s.LogRepository.ReadAll(ctx)
	if err != nil {
		return report.PayrollExport{}, fmt.Errorf("failed to read time log: %w", err)
	}
	credentials, err := s.credentialRepository.GetAll(ctx)
	if err != nil {
		return report.PayrollExport{}, fmt.Errorf("failed to list employees: %w", err)
	}

	rows := make([]report.PayrollRow, 0, len(credentials))
	for _, cred := range credentials {
		_, totals := s.calculator.Reconstruct(filterEvents(events, cred.DisplayName, from, to))
		if totals.Hours == 0 {
			continue
		}
		rows = append(rows, report.PayrollRow{
			Employee:   cred.DisplayName,
			TotalHours: timesheet.Round2(totals.Hours),
			TotalDays:  timesheet.Round2(totals.Hours / payrollDayHours),
		})
	}

	file, err := buildPayrollWorkbook(rows)
	if err != nil {
		return report.PayrollExport{}, fmt.Errorf("failed to build payroll workbook: %w", err)
	}

	rangeTag := ""
	if req.StartDate != nil && req.EndDate != nil {
		rangeTag = fmt.Sprintf("_%s_to_%s",
			from.Format("20060102"), to.Format("20060102"))
	}
	filename := fmt.Sprintf("time_report%s_%s.xlsx", rangeTag, s.now().Format("20060102_150405"))

	// The copy in file storage is a convenience mirror; the caller still
	// gets the workbook when the upload fails.
	if s.fileStorage != nil {
		if _, err := s.fileStorage.Upload(ctx, bytes.NewReader(file), filename); err != nil {
			slog.Warn("Failed to upload payroll export", "filename", filename, "error", err)
		}
	}

	return report.PayrollExport{
		Filename: filename,
		Rows:     rows,
		File:     file,
	}, nil
}

func buildPayrollWorkbook(rows []report.PayrollRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", payrollSheetName); err != nil {
		return nil, err
	}

	headers := []string{"Employee", "Total Hours", "Total Days (8h)"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(payrollSheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []interface{}{row.Employee, row.TotalHours, row.TotalDays}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(payrollSheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(payrollSheetName, "A", "A", 25); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(payrollSheetName, "B", "B", 15); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(payrollSheetName, "C", "C", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// History implements report.ReportService.
func (s *ReportServiceImpl) History(ctx context.Context, req report.HistoryRequest) (report.HistoryResponse, error) {
	if err := req.Validate(); err != nil {
		return report.HistoryResponse{}, err
	}

	employeeName, err := employeeFromContext(ctx)
	if err != nil {
		return report.HistoryResponse{}, err
	}

	events, err := s.LogRepository.ReadAll(ctx)
	if err != nil {
		return report.HistoryResponse{}, fmt.Errorf("failed to read time log: %w", err)
	}

	since := s.now().AddDate(0, 0, -req.Days)
	window := timesheet.SortEvents(filterEvents(events, employeeName, since, time.Time{}))

	sessions, totals := s.calculator.Reconstruct(window)
	issues := s.calculator.DetectIssues(window)

	eventResponses := make([]timelog.EventResponse, 0, len(window))
	for i := len(window) - 1; i >= 0; i-- {
		eventResponses = append(eventResponses, timelog.EventResponse{
			Employee:  window[i].Employee,
			Action:    string(window[i].Action),
			Timestamp: window[i].Timestamp.Format(timelog.TimestampLayout),
		})
	}

	issueResponses := make([]report.IssueResponse, 0, len(issues))
	for _, issue := range issues {
		issueResponses = append(issueResponses, report.IssueResponse{
			Date:    issue.Date.Format("2006-01-02"),
			Issue:   string(issue.Kind),
			Details: issue.Details,
		})
	}

	// Rough guide only: assumes a five-day week over the whole window.
	expected := float64(req.Days) / 7 * 5 * s.calculator.StandardHours()
	estOvertime := totals.Hours - expected
	if estOvertime < 0 {
		estOvertime = 0
	}

	return report.HistoryResponse{
		Days:        req.Days,
		Events:      eventResponses,
		Sessions:    mapSessions(sessions),
		TotalHours:  timesheet.Round2(totals.Hours),
		BreakHours:  timesheet.Round2(totals.BreakHours),
		SiteHours:   timesheet.Round2(totals.SiteVisitHours),
		EstOvertime: timesheet.Round2(estOvertime),
		Issues:      issueResponses,
	}, nil
}

func mapSessions(sessions []timesheet.Session) []timelog.SessionResponse {
	out := make([]timelog.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, timelog.SessionResponse{
			CheckIn:        session.CheckIn.Format(timelog.TimestampLayout),
			CheckOut:       session.CheckOut.Format(timelog.TimestampLayout),
			Hours:          timesheet.Round2(session.Hours),
			BreakHours:     timesheet.Round2(session.BreakHours),
			SiteVisitHours: timesheet.Round2(session.SiteVisitHours),
		})
	}
	return out
}

// MirrorMonthlySummary implements report.ReportService.
func (s *ReportServiceImpl) MirrorMonthlySummary(ctx context.Context) error {
	if s.fileStorage == nil {
		return nil
	}

	events, err := s.LogRepository.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read time log: %w", err)
	}

	file, err := buildMonthlySummaryWorkbook(s.monthlyRows(events))
	if err != nil {
		return fmt.Errorf("failed to build monthly summary workbook: %w", err)
	}

	if _, err := s.fileStorage.Upload(ctx, bytes.NewReader(file), monthlySummaryPath); err != nil {
		return fmt.Errorf("failed to upload monthly summary: %w", err)
	}
	return nil
}

func buildMonthlySummaryWorkbook(rows []report.MonthlySummaryRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", monthlySummarySheetName); err != nil {
		return nil, err
	}

	headers := []string{"Employee", "Year", "Month", "Total Hours"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(monthlySummarySheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []interface{}{row.Employee, row.Year, row.Month, row.TotalHours}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(monthlySummarySheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(monthlySummarySheetName, "A", "A", 25); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
