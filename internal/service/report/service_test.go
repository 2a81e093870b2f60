package report

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/employee"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/report"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/timelog"
	"github.com/timewise-hq/timeclock-backend-go/internal/service/timesheet"
	"github.com/xuri/excelize/v2"
)

type fakeLogRepo struct {
	events []timelog.Event
}

func (f *fakeLogRepo) ReadAll(ctx context.Context) ([]timelog.Event, error) {
	out := make([]timelog.Event, len(f.events))
	copy(out, f.events)
	return out, nil
}

func (f *fakeLogRepo) Append(ctx context.Context, employee string, action timelog.ActionKind) (time.Time, error) {
	loggedAt := time.Now()
	f.events = append(f.events, timelog.Event{Employee: employee, Action: action, Timestamp: loggedAt})
	return loggedAt, nil
}

func (f *fakeLogRepo) ClearAll(ctx context.Context) error {
	f.events = nil
	return nil
}

type fakeCredentialRepo struct {
	credentials []employee.Credential
}

func (f *fakeCredentialRepo) GetAll(ctx context.Context) ([]employee.Credential, error) {
	return f.credentials, nil
}

func (f *fakeCredentialRepo) GetByUsername(ctx context.Context, username string) (employee.Credential, error) {
	for _, cred := range f.credentials {
		if cred.Username == username {
			return cred, nil
		}
	}
	return employee.Credential{}, employee.ErrEmployeeNotFound
}

func (f *fakeCredentialRepo) Create(ctx context.Context, cred employee.Credential) error {
	f.credentials = append(f.credentials, cred)
	return nil
}

func (f *fakeCredentialRepo) Delete(ctx context.Context, username string) error { return nil }

func (f *fakeCredentialRepo) UpdatePasswordHash(ctx context.Context, username string, newHash string) error {
	return nil
}

type fakeStorage struct {
	uploads map[string][]byte
}

func (f *fakeStorage) Upload(ctx context.Context, file io.Reader, path string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[path] = data
	return path, nil
}

func (f *fakeStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.uploads[path])), nil
}

func (f *fakeStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := f.uploads[path]
	return ok, nil
}

// Wednesday
var testNow = time.Date(2024, time.March, 6, 18, 0, 0, 0, time.Local)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.March, day, hour, minute, 0, 0, time.Local)
}

func workedDay(name string, day, inHour, outHour int) []timelog.Event {
	return []timelog.Event{
		{Employee: name, Action: timelog.ActionCheckIn, Timestamp: at(day, inHour, 0)},
		{Employee: name, Action: timelog.ActionCheckOut, Timestamp: at(day, outHour, 0)},
	}
}

func newTestService(logRepo *fakeLogRepo, credRepo *fakeCredentialRepo, store *fakeStorage) *ReportServiceImpl {
	svc := NewReportService(logRepo, credRepo, timesheet.NewCalculator(9, 0, 8), nil)
	if store != nil {
		svc.fileStorage = store
	}
	svc.now = func() time.Time { return testNow }
	return svc
}

func authedContext(t *testing.T, displayName string) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"username":     "tester",
		"display_name": displayName,
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestWeeklySummary_BoundsAndRows(t *testing.T) {
	var events []timelog.Event
	events = append(events, workedDay("Alice Johnson", 4, 9, 17)...)  // Monday, in week
	events = append(events, workedDay("Alice Johnson", 10, 9, 13)...) // Sunday, in week
	events = append(events, workedDay("Alice Johnson", 1, 9, 17)...)  // Friday before, out
	logRepo := &fakeLogRepo{events: events}
	credRepo := &fakeCredentialRepo{credentials: []employee.Credential{
		{Username: "alice", DisplayName: "Alice Johnson"},
		{Username: "bob", DisplayName: "Bob Smith"},
	}}
	svc := newTestService(logRepo, credRepo, nil)

	resp, err := svc.WeeklySummary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", resp.WeekStart)
	assert.Equal(t, "2024-03-10", resp.WeekEnd)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "Alice Johnson", resp.Rows[0].Employee)
	assert.InDelta(t, 12.0, resp.Rows[0].HoursWorked, 1e-9)
	// Known employees with no hours still get a row.
	assert.Equal(t, "Bob Smith", resp.Rows[1].Employee)
	assert.Zero(t, resp.Rows[1].HoursWorked)
}

func TestMonthlySummary_GroupsByCheckInMonth(t *testing.T) {
	events := []timelog.Event{
		{Employee: "Alice Johnson", Action: timelog.ActionCheckIn, Timestamp: time.Date(2024, time.February, 28, 9, 0, 0, 0, time.Local)},
		{Employee: "Alice Johnson", Action: timelog.ActionCheckOut, Timestamp: time.Date(2024, time.February, 28, 17, 0, 0, 0, time.Local)},
	}
	events = append(events, workedDay("Alice Johnson", 4, 9, 17)...)
	events = append(events, workedDay("Alice Johnson", 5, 9, 13)...)
	logRepo := &fakeLogRepo{events: events}
	svc := newTestService(logRepo, &fakeCredentialRepo{}, nil)

	resp, err := svc.MonthlySummary(context.Background())

	require.NoError(t, err)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, report.MonthlySummaryRow{
		Employee: "Alice Johnson", Year: 2024, Month: "February", TotalHours: 8,
	}, resp.Rows[0])
	assert.Equal(t, report.MonthlySummaryRow{
		Employee: "Alice Johnson", Year: 2024, Month: "March", TotalHours: 12,
	}, resp.Rows[1])
}

func TestPayrollExport_OmitsZeroHours(t *testing.T) {
	logRepo := &fakeLogRepo{events: workedDay("Alice Johnson", 4, 9, 17)}
	credRepo := &fakeCredentialRepo{credentials: []employee.Credential{
		{Username: "alice", DisplayName: "Alice Johnson"},
		{Username: "bob", DisplayName: "Bob Smith"},
	}}
	svc := newTestService(logRepo, credRepo, nil)

	export, err := svc.PayrollExport(context.Background(), report.PayrollExportRequest{})

	require.NoError(t, err)
	require.Len(t, export.Rows, 1)
	assert.Equal(t, "Alice Johnson", export.Rows[0].Employee)
	assert.InDelta(t, 8.0, export.Rows[0].TotalHours, 1e-9)
	assert.InDelta(t, 1.0, export.Rows[0].TotalDays, 1e-9)
	assert.Contains(t, export.Filename, "time_report_")
	assert.NotEmpty(t, export.File)
}

func TestPayrollExport_DaysUseEightHourDayRegardlessOfStandard(t *testing.T) {
	logRepo := &fakeLogRepo{events: workedDay("Alice Johnson", 4, 8, 18)} // 10h session
	credRepo := &fakeCredentialRepo{credentials: []employee.Credential{
		{Username: "alice", DisplayName: "Alice Johnson"},
	}}
	svc := newTestService(logRepo, credRepo, nil)
	svc.calculator = timesheet.NewCalculator(9, 0, 10)

	export, err := svc.PayrollExport(context.Background(), report.PayrollExportRequest{})

	require.NoError(t, err)
	require.Len(t, export.Rows, 1)
	assert.InDelta(t, 10.0, export.Rows[0].TotalHours, 1e-9)
	// 10 hours over fixed 8-hour days, not over the configured standard.
	assert.InDelta(t, 1.25, export.Rows[0].TotalDays, 1e-9)
}

func TestPayrollExport_DateRangeFilters(t *testing.T) {
	var events []timelog.Event
	events = append(events, workedDay("Alice Johnson", 4, 9, 17)...)
	events = append(events, workedDay("Alice Johnson", 5, 9, 17)...)
	logRepo := &fakeLogRepo{events: events}
	credRepo := &fakeCredentialRepo{credentials: []employee.Credential{
		{Username: "alice", DisplayName: "Alice Johnson"},
	}}
	svc := newTestService(logRepo, credRepo, nil)

	start, end := "2024-03-04", "2024-03-04"
	export, err := svc.PayrollExport(context.Background(), report.PayrollExportRequest{
		StartDate: &start,
		EndDate:   &end,
	})

	require.NoError(t, err)
	require.Len(t, export.Rows, 1)
	assert.InDelta(t, 8.0, export.Rows[0].TotalHours, 1e-9)
	assert.Contains(t, export.Filename, "20240304_to_20240304")
}

func TestPayrollExport_RejectsHalfOpenRange(t *testing.T) {
	svc := newTestService(&fakeLogRepo{}, &fakeCredentialRepo{}, nil)

	start := "2024-03-04"
	_, err := svc.PayrollExport(context.Background(), report.PayrollExportRequest{StartDate: &start})

	require.Error(t, err)
}

func TestPayrollExport_WorkbookContents(t *testing.T) {
	logRepo := &fakeLogRepo{events: workedDay("Alice Johnson", 4, 9, 17)}
	credRepo := &fakeCredentialRepo{credentials: []employee.Credential{
		{Username: "alice", DisplayName: "Alice Johnson"},
	}}
	store := &fakeStorage{}
	svc := newTestService(logRepo, credRepo, store)

	export, err := svc.PayrollExport(context.Background(), report.PayrollExportRequest{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(export.File))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Payment Summary"}, f.GetSheetList())
	header, err := f.GetCellValue("Payment Summary", "C1")
	require.NoError(t, err)
	assert.Equal(t, "Total Days (8h)", header)
	name, err := f.GetCellValue("Payment Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", name)

	// Export also lands in file storage under the same filename.
	assert.Contains(t, store.uploads, export.Filename)
}

func TestHistory_WindowEventsAndIssues(t *testing.T) {
	febDay := time.Date(2024, time.February, 20, 9, 0, 0, 0, time.Local)
	events := []timelog.Event{
		// Outside the 7-day window.
		{Employee: "Alice Johnson", Action: timelog.ActionCheckIn, Timestamp: febDay},
		{Employee: "Alice Johnson", Action: timelog.ActionCheckOut, Timestamp: febDay.Add(8 * time.Hour)},
	}
	events = append(events, workedDay("Alice Johnson", 4, 9, 17)...)
	// Missing check-out on the 5th.
	events = append(events, timelog.Event{
		Employee: "Alice Johnson", Action: timelog.ActionCheckIn, Timestamp: at(5, 9, 0),
	})
	logRepo := &fakeLogRepo{events: events}
	svc := newTestService(logRepo, &fakeCredentialRepo{}, nil)
	ctx := authedContext(t, "Alice Johnson")

	resp, err := svc.History(ctx, report.HistoryRequest{Days: 7})

	require.NoError(t, err)
	assert.Equal(t, 7, resp.Days)
	require.Len(t, resp.Events, 3)
	// Newest first.
	assert.Equal(t, "Check In", resp.Events[0].Action)
	assert.Equal(t, at(5, 9, 0).Format(timelog.TimestampLayout), resp.Events[0].Timestamp)
	require.Len(t, resp.Sessions, 1)
	assert.InDelta(t, 8.0, resp.TotalHours, 1e-9)

	require.Len(t, resp.Issues, 1)
	assert.Equal(t, "Missing check-out", resp.Issues[0].Issue)
	assert.Equal(t, "2024-03-05", resp.Issues[0].Date)
}

func fullDays(name string, month time.Month, fromDay, throughDay int) []timelog.Event {
	var events []timelog.Event
	for day := fromDay; day <= throughDay; day++ {
		events = append(events,
			timelog.Event{Employee: name, Action: timelog.ActionCheckIn, Timestamp: time.Date(2024, month, day, 0, 0, 0, 0, time.Local)},
			timelog.Event{Employee: name, Action: timelog.ActionCheckOut, Timestamp: time.Date(2024, month, day, 23, 0, 0, 0, time.Local)},
		)
	}
	return events
}

func TestHistory_OvertimeEstimatePerWindow(t *testing.T) {
	var events []timelog.Event
	events = append(events, fullDays("Alice Johnson", time.March, 1, 5)...)     // 115h, last 7 days
	events = append(events, fullDays("Alice Johnson", time.February, 22, 27)...) // +138h within 14 days
	events = append(events, fullDays("Alice Johnson", time.February, 6, 20)...)  // +345h within 30 days
	svc := newTestService(&fakeLogRepo{events: events}, &fakeCredentialRepo{}, nil)
	ctx := authedContext(t, "Alice Johnson")

	// Expected baseline is five 8-hour days per seven-day slice of the window.
	cases := []struct {
		days        int
		totalHours  float64
		estOvertime float64
	}{
		{days: 7, totalHours: 115, estOvertime: 75},      // 115 - 40
		{days: 14, totalHours: 253, estOvertime: 173},    // 253 - 80
		{days: 30, totalHours: 598, estOvertime: 426.57}, // 598 - 30/7*5*8, rounded
	}
	for _, tc := range cases {
		resp, err := svc.History(ctx, report.HistoryRequest{Days: tc.days})
		require.NoError(t, err, "days=%d", tc.days)
		assert.InDelta(t, tc.totalHours, resp.TotalHours, 1e-9, "days=%d", tc.days)
		assert.InDelta(t, tc.estOvertime, resp.EstOvertime, 1e-9, "days=%d", tc.days)
	}
}

func TestHistory_DefaultsLookback(t *testing.T) {
	svc := newTestService(&fakeLogRepo{}, &fakeCredentialRepo{}, nil)
	ctx := authedContext(t, "Alice Johnson")

	resp, err := svc.History(ctx, report.HistoryRequest{})

	require.NoError(t, err)
	assert.Equal(t, report.DefaultLookbackDays, resp.Days)
	assert.Zero(t, resp.EstOvertime)
}

func TestHistory_RejectsUnknownLookback(t *testing.T) {
	svc := newTestService(&fakeLogRepo{}, &fakeCredentialRepo{}, nil)
	ctx := authedContext(t, "Alice Johnson")

	_, err := svc.History(ctx, report.HistoryRequest{Days: 13})

	require.Error(t, err)
}

func TestMirrorMonthlySummary_UploadsWorkbook(t *testing.T) {
	logRepo := &fakeLogRepo{events: workedDay("Alice Johnson", 4, 9, 17)}
	store := &fakeStorage{}
	svc := newTestService(logRepo, &fakeCredentialRepo{}, store)

	require.NoError(t, svc.MirrorMonthlySummary(context.Background()))

	data, ok := store.uploads["monthly_summary.xlsx"]
	require.True(t, ok)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	month, err := f.GetCellValue("Monthly Summary", "C2")
	require.NoError(t, err)
	assert.Equal(t, "March", month)
}

func TestMirrorMonthlySummary_NoStorageIsNoop(t *testing.T) {
	svc := newTestService(&fakeLogRepo{}, &fakeCredentialRepo{}, nil)
	require.NoError(t, svc.MirrorMonthlySummary(context.Background()))
}
