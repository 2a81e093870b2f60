package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/timewise-hq/timeclock-backend-go/internal/domain/timelog"
	"github.com/timewise-hq/timeclock-backend-go/internal/handler/http/response"
)

type TimelogHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	TodaySummary(w http.ResponseWriter, r *http.Request)
	RawLog(w http.ResponseWriter, r *http.Request)
	ClearAll(w http.ResponseWriter, r *http.Request)
}

type TimelogHandlerImpl struct {
	timelogService timelog.TimelogService
}

func NewTimelogHandler(timelogService timelog.TimelogService) TimelogHandler {
	return &TimelogHandlerImpl{timelogService: timelogService}
}

// Punch implements TimelogHandler.
func (h *TimelogHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	var punchReq timelog.PunchRequest

	if err := json.NewDecoder(r.Body).Decode(&punchReq); err != nil {
		slog.Error("Punch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	punchResp, err := h.timelogService.Punch(r.Context(), punchReq)
	if err != nil {
		slog.Error("Punch service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Action recorded", punchResp)
}

// Status implements TimelogHandler.
func (h *TimelogHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	statusResp, err := h.timelogService.Status(r.Context())
	if err != nil {
		slog.Error("Status service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, statusResp)
}

// TodaySummary implements TimelogHandler.
func (h *TimelogHandlerImpl) TodaySummary(w http.ResponseWriter, r *http.Request) {
	summaryResp, err := h.timelogService.TodaySummary(r.Context())
	if err != nil {
		slog.Error("TodaySummary service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summaryResp)
}

// RawLog implements TimelogHandler.
func (h *TimelogHandlerImpl) RawLog(w http.ResponseWriter, r *http.Request) {
	events, err := h.timelogService.RawLog(r.Context())
	if err != nil {
		slog.Error("RawLog service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, events)
}

// ClearAll implements TimelogHandler.
func (h *TimelogHandlerImpl) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.timelogService.ClearAll(r.Context()); err != nil {
		slog.Error("ClearAll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time log cleared", nil)
}
