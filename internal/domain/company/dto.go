package company

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"company_name"`
	Username  string    `json:"company_username"`
	Address   *string   `json:"company_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCompanyResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Username:  c.Username,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type UpdateCompanyRequest struct {
	Name    *string `json:"company_name,omitempty"`
	Address *string `json:"company_address,omitempty"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name == nil && r.Address == nil {
		errs.Add("body", ErrNoFieldsToUpdate.Error())
	}
	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("company_name", ErrInvalidCompanyName.Error())
		} else if len(*r.Name) > 255 {
			errs.Add("company_name", "company_name must not exceed 255 characters")
		}
	}
	if r.Address != nil && len(*r.Address) > 1000 {
		errs.Add("company_address", "company_address must not exceed 1000 characters")
	}

	return errs.Err()
}
