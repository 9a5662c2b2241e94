package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/equipment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EquipmentHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type EquipmentHandlerImpl struct {
	equipmentService equipment.EquipmentService
}

func NewEquipmentHandler(equipmentService equipment.EquipmentService) EquipmentHandler {
	return &EquipmentHandlerImpl{equipmentService: equipmentService}
}

// List implements EquipmentHandler.
func (h *EquipmentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := equipment.EquipmentFilter{
		Search:   queryString(r, "search"),
		Status:   queryString(r, "status"),
		Category: queryString(r, "category"),
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
	}

	resp, err := h.equipmentService.ListEquipment(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, resp.Equipment, &response.Meta{
		Page:       resp.Page,
		Limit:      resp.Limit,
		TotalItems: resp.TotalCount,
		TotalPages: resp.TotalPages,
	})
}

// Get implements EquipmentHandler.
func (h *EquipmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.equipmentService.GetEquipment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Create implements EquipmentHandler.
func (h *EquipmentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req equipment.CreateEquipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.equipmentService.CreateEquipment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Equipment created successfully", resp)
}

// Update implements EquipmentHandler.
func (h *EquipmentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req equipment.UpdateEquipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.equipmentService.UpdateEquipment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Equipment updated successfully", resp)
}
