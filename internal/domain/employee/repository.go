package employee

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compensation"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, companyID, id string) (Employee, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, companyID, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	ExistsByCode(ctx context.Context, companyID, employeeCode string, excludeID *string) (bool, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) error
	UpdateCompensation(ctx context.Context, companyID, id string, comp compensation.Compensation) error
	SoftDelete(ctx context.Context, companyID, id string) error
	List(ctx context.Context, companyID string, filter EmployeeFilter) ([]Employee, int64, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
}
