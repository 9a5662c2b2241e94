package compensation

import "context"

type CompensationService interface {
	// Calculate is the stateless calculator endpoint.
	Calculate(ctx context.Context, req CalculateIncrementRequest) (IncrementResult, error)
	PreviewIncrement(ctx context.Context, req IncrementRequest) (IncrementResult, error)
	// ApplyIncrement updates the employee compensation and records history in one transaction.
	ApplyIncrement(ctx context.Context, req IncrementRequest) (SalaryIncrementResponse, error)
	ListIncrements(ctx context.Context, employeeID string) ([]SalaryIncrementResponse, error)
}
