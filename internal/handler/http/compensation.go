package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CompensationHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)
	Apply(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type CompensationHandlerImpl struct {
	compensationService compensation.CompensationService
}

func NewCompensationHandler(compensationService compensation.CompensationService) CompensationHandler {
	return &CompensationHandlerImpl{compensationService: compensationService}
}

// Calculate implements CompensationHandler.
func (h *CompensationHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req compensation.CalculateIncrementRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.compensationService.Calculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *CompensationHandlerImpl) decodeIncrement(w http.ResponseWriter, r *http.Request) (compensation.IncrementRequest, bool) {
	var req compensation.IncrementRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return req, false
	}
	req.EmployeeID = chi.URLParam(r, "id")
	return req, true
}

// Preview implements CompensationHandler.
func (h *CompensationHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeIncrement(w, r)
	if !ok {
		return
	}

	result, err := h.compensationService.PreviewIncrement(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Apply implements CompensationHandler.
func (h *CompensationHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeIncrement(w, r)
	if !ok {
		return
	}

	applied, err := h.compensationService.ApplyIncrement(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Salary increment applied", applied)
}

// List implements CompensationHandler.
func (h *CompensationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	history, err := h.compensationService.ListIncrements(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, history)
}
