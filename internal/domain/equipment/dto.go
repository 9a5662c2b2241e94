package equipment

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

var validStatuses = []string{
	string(StatusAvailable),
	string(StatusAssigned),
	string(StatusMaintenance),
	string(StatusRetired),
}

type CreateEquipmentRequest struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Category     *string `json:"category,omitempty"`
	SerialNumber *string `json:"serial_number,omitempty"`
}

func (r *CreateEquipmentRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Code = strings.TrimSpace(r.Code)
	if validator.IsEmpty(r.Code) {
		errs.Add("code", "code is required")
	} else if len(r.Code) > 50 {
		errs.Add("code", "code must not exceed 50 characters")
	}
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}
	if r.Category != nil && len(*r.Category) > 100 {
		errs.Add("category", "category must not exceed 100 characters")
	}
	if r.SerialNumber != nil && len(*r.SerialNumber) > 100 {
		errs.Add("serial_number", "serial_number must not exceed 100 characters")
	}

	return errs.Err()
}

// UpdateEquipmentRequest is a partial update; nil fields are left unchanged.
type UpdateEquipmentRequest struct {
	ID           string  `json:"-"`
	Code         *string `json:"code,omitempty"`
	Name         *string `json:"name,omitempty"`
	Category     *string `json:"category,omitempty"`
	SerialNumber *string `json:"serial_number,omitempty"`
	Status       *string `json:"status,omitempty"`
}

func (r *UpdateEquipmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "invalid equipment id")
	}
	if r.Code != nil {
		trimmed := strings.TrimSpace(*r.Code)
		r.Code = &trimmed
		if trimmed == "" || len(trimmed) > 50 {
			errs.Add("code", "code must be 1-50 characters")
		}
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, validStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(validStatuses, ", "))
	}

	return errs.Err()
}

type EquipmentFilter struct {
	Search   *string `json:"search,omitempty"`
	Status   *string `json:"status,omitempty"`
	Category *string `json:"category,omitempty"`
	Page     int     `json:"page"`
	Limit    int     `json:"limit"`
}

func (f *EquipmentFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, validStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(validStatuses, ", "))
	}

	return errs.Err()
}

type EquipmentResponse struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Category     *string `json:"category,omitempty"`
	SerialNumber *string `json:"serial_number,omitempty"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func NewEquipmentResponse(e Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:           e.ID,
		Code:         e.Code,
		Name:         e.Name,
		Category:     e.Category,
		SerialNumber: e.SerialNumber,
		Status:       string(e.Status),
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    e.UpdatedAt.Format(time.RFC3339),
	}
}

type ListEquipmentResponse struct {
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
	Equipment  []EquipmentResponse `json:"equipment"`
}
