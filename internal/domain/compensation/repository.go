package compensation

import "context"

type IncrementRepository interface {
	Create(ctx context.Context, inc SalaryIncrement) (SalaryIncrement, error)
	ListByEmployee(ctx context.Context, companyID, employeeID string) ([]SalaryIncrement, error)
}
