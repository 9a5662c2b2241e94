package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var validStatuses = []string{
	string(EmploymentStatusActive),
	string(EmploymentStatusInactive),
	string(EmploymentStatusResigned),
}

type CreateEmployeeRequest struct {
	EmployeeCode       string          `json:"employee_code"`
	FullName           string          `json:"full_name"`
	Email              *string         `json:"email,omitempty"`
	Position           *string         `json:"position,omitempty"`
	HireDate           string          `json:"hire_date"`
	BaseSalary         decimal.Decimal `json:"base_salary"`
	FoodAllowance      decimal.Decimal `json:"food_allowance"`
	HousingAllowance   decimal.Decimal `json:"housing_allowance"`
	TransportAllowance decimal.Decimal `json:"transport_allowance"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs.Add("employee_code", "employee_code is required")
	} else if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs.Add("employee_code", ErrInvalidEmployeeCode.Error())
	}
	if validator.IsEmpty(r.FullName) {
		errs.Add("full_name", "full_name is required")
	} else if len(r.FullName) > 255 {
		errs.Add("full_name", "full_name must not exceed 255 characters")
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "invalid email format")
	}
	if validator.IsEmpty(r.HireDate) {
		errs.Add("hire_date", "hire_date is required")
	} else if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs.Add("hire_date", "hire_date must be in YYYY-MM-DD format")
	}

	validateMoney(&errs, "base_salary", &r.BaseSalary)
	validateMoney(&errs, "food_allowance", &r.FoodAllowance)
	validateMoney(&errs, "housing_allowance", &r.HousingAllowance)
	validateMoney(&errs, "transport_allowance", &r.TransportAllowance)

	return errs.Err()
}

func (r *CreateEmployeeRequest) Compensation() compensation.Compensation {
	return compensation.Compensation{
		Base:      r.BaseSalary,
		Food:      r.FoodAllowance,
		Housing:   r.HousingAllowance,
		Transport: r.TransportAllowance,
	}
}

// UpdateEmployeeRequest is a partial update; nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	ID                 string           `json:"-"`
	EmployeeCode       *string          `json:"employee_code,omitempty"`
	FullName           *string          `json:"full_name,omitempty"`
	Email              *string          `json:"email,omitempty"`
	Position           *string          `json:"position,omitempty"`
	HireDate           *string          `json:"hire_date,omitempty"`
	Status             *string          `json:"status,omitempty"`
	BaseSalary         *decimal.Decimal `json:"base_salary,omitempty"`
	FoodAllowance      *decimal.Decimal `json:"food_allowance,omitempty"`
	HousingAllowance   *decimal.Decimal `json:"housing_allowance,omitempty"`
	TransportAllowance *decimal.Decimal `json:"transport_allowance,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "invalid employee id")
	}
	if r.EmployeeCode != nil && !validator.IsValidEmployeeCode(*r.EmployeeCode) {
		errs.Add("employee_code", ErrInvalidEmployeeCode.Error())
	}
	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs.Add("full_name", "full_name must not be empty")
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "invalid email format")
	}
	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs.Add("hire_date", "hire_date must be in YYYY-MM-DD format")
		}
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, validStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(validStatuses, ", "))
	}

	validateMoney(&errs, "base_salary", r.BaseSalary)
	validateMoney(&errs, "food_allowance", r.FoodAllowance)
	validateMoney(&errs, "housing_allowance", r.HousingAllowance)
	validateMoney(&errs, "transport_allowance", r.TransportAllowance)

	return errs.Err()
}

func validateMoney(errs *validator.ValidationErrors, field string, v *decimal.Decimal) {
	if v != nil && !validator.IsNonNegative(*v) {
		errs.Add(field, field+" must not be negative")
	}
}

type EmployeeFilter struct {
	Search    *string `json:"search,omitempty"`
	Status    *string `json:"status,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
	SortBy    string  `json:"sort_by"`
	SortOrder string  `json:"sort_order"`
}

func (f *EmployeeFilter) Validate() error {
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
	if f.SortBy == "" {
		f.SortBy = "full_name"
	}
	if !validator.IsInSlice(f.SortBy, []string{"full_name", "employee_code", "hire_date", "created_at"}) {
		errs.Add("sort_by", "invalid sort_by")
	}
	if f.SortOrder == "" {
		f.SortOrder = "asc"
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs.Add("sort_order", "sort_order must be asc or desc")
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID           string                    `json:"id"`
	CompanyID    string                    `json:"company_id"`
	EmployeeCode string                    `json:"employee_code"`
	FullName     string                    `json:"full_name"`
	Email        *string                   `json:"email,omitempty"`
	Position     *string                   `json:"position,omitempty"`
	HireDate     string                    `json:"hire_date"`
	Status       string                    `json:"status"`
	Compensation compensation.Compensation `json:"compensation"`
	TotalSalary  decimal.Decimal           `json:"total_salary"`
	CreatedAt    string                    `json:"created_at"`
	UpdatedAt    string                    `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		CompanyID:    e.CompanyID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		Email:        e.Email,
		Position:     e.Position,
		HireDate:     e.HireDate.Format(validator.DateLayout),
		Status:       string(e.Status),
		Compensation: e.Compensation,
		TotalSalary:  e.Compensation.Total(),
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    e.UpdatedAt.Format(time.RFC3339),
	}
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}
