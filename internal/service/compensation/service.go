package compensation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type CompensationServiceImpl struct {
	tx            database.Transactor
	employeeRepo  employee.EmployeeRepository
	incrementRepo compensation.IncrementRepository
}

func NewCompensationService(tx database.Transactor, employeeRepo employee.EmployeeRepository, incrementRepo compensation.IncrementRepository) compensation.CompensationService {
	return &CompensationServiceImpl{
		tx:            tx,
		employeeRepo:  employeeRepo,
		incrementRepo: incrementRepo,
	}
}

// Calculate implements compensation.CompensationService.
func (s *CompensationServiceImpl) Calculate(ctx context.Context, req compensation.CalculateIncrementRequest) (compensation.IncrementResult, error) {
	if err := req.Validate(); err != nil {
		return compensation.IncrementResult{}, err
	}
	return CalculateIncrement(req.Current, compensation.IncrementSpec{Mode: compensation.IncrementMode(req.Mode), Value: req.Value})
}

// PreviewIncrement implements compensation.CompensationService.
func (s *CompensationServiceImpl) PreviewIncrement(ctx context.Context, req compensation.IncrementRequest) (compensation.IncrementResult, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return compensation.IncrementResult{}, err
	}
	if err := req.Validate(); err != nil {
		return compensation.IncrementResult{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, claims.CompanyID, req.EmployeeID)
	if err != nil {
		return compensation.IncrementResult{}, err
	}

	return CalculateIncrement(emp.Compensation, req.Spec())
}

// ApplyIncrement implements compensation.CompensationService.
func (s *CompensationServiceImpl) ApplyIncrement(ctx context.Context, req compensation.IncrementRequest) (compensation.SalaryIncrementResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return compensation.SalaryIncrementResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return compensation.SalaryIncrementResponse{}, err
	}

	var recorded compensation.SalaryIncrement
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err := s.employeeRepo.GetByIDForUpdate(txCtx, claims.CompanyID, req.EmployeeID)
		if err != nil {
			return err
		}

		result, err := CalculateIncrement(emp.Compensation, req.Spec())
		if err != nil {
			return err
		}

		if err := s.employeeRepo.UpdateCompensation(txCtx, claims.CompanyID, emp.ID, result.New); err != nil {
			return err
		}

		recorded, err = s.incrementRepo.Create(txCtx, compensation.SalaryIncrement{
			EmployeeID:         emp.ID,
			CompanyID:          claims.CompanyID,
			Mode:               compensation.IncrementMode(req.Mode),
			Value:              req.Value,
			Previous:           result.Current,
			New:                result.New,
			IncreaseAmount:     result.IncreaseAmount,
			IncreasePercentage: result.IncreasePercentage,
			EffectiveDate:      req.EffectiveDateOr(today()),
			Reason:             req.Reason,
			CreatedBy:          &claims.UserID,
		})
		if err != nil {
			return fmt.Errorf("failed to record increment: %w", err)
		}
		return nil
	})
	if err != nil {
		return compensation.SalaryIncrementResponse{}, err
	}

	slog.InfoContext(ctx, "salary increment applied",
		"company_id", claims.CompanyID,
		"employee_id", recorded.EmployeeID,
		"mode", recorded.Mode,
		"increase_amount", recorded.IncreaseAmount.String(),
	)
	return compensation.NewSalaryIncrementResponse(recorded), nil
}

// ListIncrements implements compensation.CompensationService.
func (s *CompensationServiceImpl) ListIncrements(ctx context.Context, employeeID string) ([]compensation.SalaryIncrementResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !validator.IsValidUUID(employeeID) {
		return nil, validator.ValidationErrors{{Field: "employee_id", Message: "invalid employee id"}}
	}

	if _, err := s.employeeRepo.GetByID(ctx, claims.CompanyID, employeeID); err != nil {
		return nil, err
	}

	increments, err := s.incrementRepo.ListByEmployee(ctx, claims.CompanyID, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]compensation.SalaryIncrementResponse, 0, len(increments))
	for _, inc := range increments {
		resp = append(resp, compensation.NewSalaryIncrementResponse(inc))
	}
	return resp, nil
}

func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
