package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/timewise-hq/timeclock-backend-go/internal/domain/report"
	"github.com/timewise-hq/timeclock-backend-go/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler interface {
	WeeklySummary(w http.ResponseWriter, r *http.Request)
	MonthlySummary(w http.ResponseWriter, r *http.Request)
	PayrollExport(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &ReportHandlerImpl{reportService: reportService}
}

// WeeklySummary implements ReportHandler.
func (h *ReportHandlerImpl) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.WeeklySummary(r.Context())
	if err != nil {
		slog.Error("WeeklySummary service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// MonthlySummary implements ReportHandler.
func (h *ReportHandlerImpl) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.MonthlySummary(r.Context())
	if err != nil {
		slog.Error("MonthlySummary service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// PayrollExport implements ReportHandler. The workbook is streamed back
// as a download rather than wrapped in the JSON envelope.
func (h *ReportHandlerImpl) PayrollExport(w http.ResponseWriter, r *http.Request) {
	var exportReq report.PayrollExportRequest
	if start := r.URL.Query().Get("start_date"); start != "" {
		exportReq.StartDate = &start
	}
	if end := r.URL.Query().Get("end_date"); end != "" {
		exportReq.EndDate = &end
	}

	export, err := h.reportService.PayrollExport(r.Context(), exportReq)
	if err != nil {
		slog.Error("PayrollExport service error", "error", err)
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.File)))
	if _, err := w.Write(export.File); err != nil {
		slog.Error("PayrollExport write error", "error", err)
	}
}

// History implements ReportHandler.
func (h *ReportHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	var historyReq report.HistoryRequest
	if days := r.URL.Query().Get("days"); days != "" {
		parsed, err := strconv.Atoi(days)
		if err != nil {
			response.BadRequest(w, "days must be an integer", nil)
			return
		}
		historyReq.Days = parsed
	}

	history, err := h.reportService.History(r.Context(), historyReq)
	if err != nil {
		slog.Error("History service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}
