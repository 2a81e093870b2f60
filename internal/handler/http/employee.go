package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/employee"
	"github.com/timewise-hq/timeclock-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Add(w http.ResponseWriter, r *http.Request)
	Remove(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
}

type EmployeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &EmployeeHandlerImpl{employeeService: employeeService}
}

// List implements EmployeeHandler.
func (h *EmployeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employeeService.List(r.Context())
	if err != nil {
		slog.Error("List service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, employees)
}

// Add implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Add(w http.ResponseWriter, r *http.Request) {
	var addReq employee.AddEmployeeRequest

	if err := json.NewDecoder(r.Body).Decode(&addReq); err != nil {
		slog.Error("Add decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.employeeService.Add(r.Context(), addReq)
	if err != nil {
		slog.Error("Add service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee added", created)
}

// Remove implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Remove(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := h.employeeService.Remove(r.Context(), username); err != nil {
		slog.Error("Remove service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee removed", nil)
}

// ResetPassword implements EmployeeHandler.
func (h *EmployeeHandlerImpl) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var resetReq employee.ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&resetReq); err != nil {
		slog.Error("ResetPassword decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	resetReq.Username = chi.URLParam(r, "username")

	if err := h.employeeService.ResetPassword(r.Context(), resetReq); err != nil {
		slog.Error("ResetPassword service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Password reset", nil)
}

// ChangePassword implements EmployeeHandler.
func (h *EmployeeHandlerImpl) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var changeReq employee.ChangePasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&changeReq); err != nil {
		slog.Error("ChangePassword decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.employeeService.ChangePassword(r.Context(), changeReq); err != nil {
		slog.Error("ChangePassword service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Password changed", nil)
}
