package employee

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compensation"
)

type Employee struct {
	ID           string
	CompanyID    string
	UserID       *string
	EmployeeCode string
	FullName     string
	Email        *string
	Position     *string
	HireDate     time.Time
	Status       EmploymentStatus
	Compensation compensation.Compensation
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusInactive EmploymentStatus = "inactive"
	EmploymentStatusResigned EmploymentStatus = "resigned"
)

func (e Employee) IsActive() bool {
	return e.Status == EmploymentStatusActive && e.DeletedAt == nil
}

// HasSalary reports whether payroll can be generated for the employee.
func (e Employee) HasSalary() bool {
	return e.Compensation.Base.IsPositive()
}
