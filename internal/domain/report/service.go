package report

import (
	"context"
)

// ReportService derives summaries, payroll exports and anomaly reports
// from the event log. Everything here is recomputed from the log on each
// call; nothing derived is persisted.
type ReportService interface {
	// WeeklySummary covers the Monday-to-Sunday week containing now,
	// one row per known employee.
	WeeklySummary(ctx context.Context) (WeeklySummaryResponse, error)

	// MonthlySummary groups all sessions by employee and the check-in's
	// calendar year and month.
	MonthlySummary(ctx context.Context) (MonthlySummaryResponse, error)

	// PayrollExport builds the payment workbook over an optional
	// inclusive date range, omitting employees with zero hours.
	PayrollExport(ctx context.Context, req PayrollExportRequest) (PayrollExport, error)

	// History reports the authenticated employee's events, sessions and
	// issues over the lookback window.
	History(ctx context.Context, req HistoryRequest) (HistoryResponse, error)

	// MirrorMonthlySummary regenerates the monthly summary workbook in
	// file storage. Best-effort; wired to punches and the cron job.
	MirrorMonthlySummary(ctx context.Context) error
}
