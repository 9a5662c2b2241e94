package assignment

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type CreateAssignmentRequest struct {
	EmployeeID  string  `json:"employee_id"`
	EquipmentID *string `json:"equipment_id,omitempty"`
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Location    *string `json:"location,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func (r *CreateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "invalid employee id")
	}
	switch Kind(r.Kind) {
	case KindWork:
		if r.EquipmentID != nil {
			errs.Add("equipment_id", ErrEquipmentNotAllowed.Error())
		}
	case KindEquipment:
		if r.EquipmentID == nil {
			errs.Add("equipment_id", ErrEquipmentRequired.Error())
		} else if !validator.IsValidUUID(*r.EquipmentID) {
			errs.Add("equipment_id", "invalid equipment id")
		}
	default:
		errs.Add("kind", "kind must be work or equipment")
	}
	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	} else if len(r.Title) > 255 {
		errs.Add("title", "title must not exceed 255 characters")
	}
	validateDates(&errs, &r.StartDate, r.EndDate, true)

	return errs.Err()
}

func (r *CreateAssignmentRequest) Dates() (time.Time, *time.Time) {
	start, _ := validator.IsValidDate(r.StartDate)
	return start, parseOptionalDate(r.EndDate)
}

// UpdateAssignmentRequest is a partial update. EmployeeID or EquipmentID scope
// the lookup to the route the request came through.
type UpdateAssignmentRequest struct {
	ID          string  `json:"-"`
	EmployeeID  string  `json:"-"`
	EquipmentID string  `json:"-"`
	Title       *string `json:"title,omitempty"`
	Location    *string `json:"location,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	Status      *string `json:"status,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func (r *UpdateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "invalid assignment id")
	}
	if r.Title != nil && validator.IsEmpty(*r.Title) {
		errs.Add("title", "title must not be empty")
	}
	if r.Status != nil && *r.Status != string(StatusActive) && *r.Status != string(StatusCompleted) {
		errs.Add("status", "status must be active or completed")
	}
	validateDates(&errs, r.StartDate, r.EndDate, false)

	return errs.Err()
}

type DeleteAssignmentRequest struct {
	ID          string
	EmployeeID  string
	EquipmentID string
}

func validateDates(errs *validator.ValidationErrors, start, end *string, startRequired bool) {
	var (
		startDate time.Time
		startOK   bool
	)
	switch {
	case start == nil || validator.IsEmpty(*start):
		if startRequired {
			errs.Add("start_date", "start_date is required")
		}
	default:
		if startDate, startOK = validator.IsValidDate(*start); !startOK {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}

	if end == nil || *end == "" {
		return
	}
	endDate, ok := validator.IsValidDate(*end)
	if !ok {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		return
	}
	if startOK && endDate.Before(startDate) {
		errs.Add("end_date", ErrInvalidDateRange.Error())
	}
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	d, ok := validator.IsValidDate(strings.TrimSpace(*s))
	if !ok {
		return nil
	}
	return &d
}

type AssignmentResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	EquipmentID *string `json:"equipment_id,omitempty"`
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Location    *string `json:"location,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func NewAssignmentResponse(a Assignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:          a.ID,
		EmployeeID:  a.EmployeeID,
		EquipmentID: a.EquipmentID,
		Kind:        string(a.Kind),
		Title:       a.Title,
		Location:    a.Location,
		StartDate:   a.StartDate.Format(validator.DateLayout),
		Status:      string(a.Status),
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
	if a.EndDate != nil {
		end := a.EndDate.Format(validator.DateLayout)
		resp.EndDate = &end
	}
	return resp
}

type ListAssignmentResponse struct {
	Current *AssignmentResponse  `json:"current"`
	History []AssignmentResponse `json:"history"`
}

func NewListAssignmentResponse(split Split) ListAssignmentResponse {
	resp := ListAssignmentResponse{History: make([]AssignmentResponse, 0, len(split.History))}
	if split.Current != nil {
		current := NewAssignmentResponse(*split.Current)
		resp.Current = &current
	}
	for _, a := range split.History {
		resp.History = append(resp.History, NewAssignmentResponse(a))
	}
	return resp
}

type DeleteAssignmentResponse struct {
	Promoted *AssignmentResponse `json:"promoted,omitempty"`
}
