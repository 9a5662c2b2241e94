package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/assignment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AssignmentHandler interface {
	ListForEmployee(w http.ResponseWriter, r *http.Request)
	CreateForEmployee(w http.ResponseWriter, r *http.Request)
	UpdateForEmployee(w http.ResponseWriter, r *http.Request)
	DeleteForEmployee(w http.ResponseWriter, r *http.Request)

	ListForEquipment(w http.ResponseWriter, r *http.Request)
	CreateForEquipment(w http.ResponseWriter, r *http.Request)
	DeleteForEquipment(w http.ResponseWriter, r *http.Request)
}

type AssignmentHandlerImpl struct {
	assignmentService assignment.AssignmentService
}

func NewAssignmentHandler(assignmentService assignment.AssignmentService) AssignmentHandler {
	return &AssignmentHandlerImpl{assignmentService: assignmentService}
}

// ListForEmployee returns the current assignment and history of the kind given by ?kind=, work by default.
func (h *AssignmentHandlerImpl) ListForEmployee(w http.ResponseWriter, r *http.Request) {
	kind := assignment.Kind(r.URL.Query().Get("kind"))

	resp, err := h.assignmentService.ListEmployeeAssignments(r.Context(), chi.URLParam(r, "id"), kind)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *AssignmentHandlerImpl) CreateForEmployee(w http.ResponseWriter, r *http.Request) {
	var req assignment.CreateAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	h.create(w, r, req)
}

func (h *AssignmentHandlerImpl) UpdateForEmployee(w http.ResponseWriter, r *http.Request) {
	var req assignment.UpdateAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "assignmentId")
	req.EmployeeID = chi.URLParam(r, "id")

	resp, err := h.assignmentService.UpdateAssignment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Assignment updated successfully", resp)
}

func (h *AssignmentHandlerImpl) DeleteForEmployee(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, assignment.DeleteAssignmentRequest{
		ID:         chi.URLParam(r, "assignmentId"),
		EmployeeID: chi.URLParam(r, "id"),
	})
}

func (h *AssignmentHandlerImpl) ListForEquipment(w http.ResponseWriter, r *http.Request) {
	resp, err := h.assignmentService.ListEquipmentAssignments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// CreateForEquipment hands the equipment item in the path to the employee in the body.
func (h *AssignmentHandlerImpl) CreateForEquipment(w http.ResponseWriter, r *http.Request) {
	var req assignment.CreateAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	equipmentID := chi.URLParam(r, "id")
	req.EquipmentID = &equipmentID
	req.Kind = string(assignment.KindEquipment)

	h.create(w, r, req)
}

func (h *AssignmentHandlerImpl) DeleteForEquipment(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, assignment.DeleteAssignmentRequest{
		ID:          chi.URLParam(r, "assignmentId"),
		EquipmentID: chi.URLParam(r, "id"),
	})
}

func (h *AssignmentHandlerImpl) create(w http.ResponseWriter, r *http.Request, req assignment.CreateAssignmentRequest) {
	resp, err := h.assignmentService.CreateAssignment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Assignment created successfully", resp)
}

func (h *AssignmentHandlerImpl) delete(w http.ResponseWriter, r *http.Request, req assignment.DeleteAssignmentRequest) {
	resp, err := h.assignmentService.DeleteAssignment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Assignment deleted successfully", resp)
}
