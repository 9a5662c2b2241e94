package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryIncrementRepository struct {
	db *database.DB
}

func NewSalaryIncrementRepository(db *database.DB) compensation.IncrementRepository {
	return &salaryIncrementRepository{db: db}
}

const salaryIncrementColumns = `
	id, employee_id, company_id, mode, value,
	previous_base_salary, previous_food_allowance, previous_housing_allowance, previous_transport_allowance,
	new_base_salary, new_food_allowance, new_housing_allowance, new_transport_allowance,
	increase_amount, increase_percentage, effective_date, reason, created_by, created_at
`

func scanSalaryIncrement(row pgx.Row) (compensation.SalaryIncrement, error) {
	var inc compensation.SalaryIncrement
	err := row.Scan(
		&inc.ID, &inc.EmployeeID, &inc.CompanyID, &inc.Mode, &inc.Value,
		&inc.Previous.Base, &inc.Previous.Food, &inc.Previous.Housing, &inc.Previous.Transport,
		&inc.New.Base, &inc.New.Food, &inc.New.Housing, &inc.New.Transport,
		&inc.IncreaseAmount, &inc.IncreasePercentage, &inc.EffectiveDate, &inc.Reason, &inc.CreatedBy, &inc.CreatedAt,
	)
	return inc, err
}

// Create implements compensation.IncrementRepository.
func (s *salaryIncrementRepository) Create(ctx context.Context, inc compensation.SalaryIncrement) (compensation.SalaryIncrement, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO salary_increments (
			employee_id, company_id, mode, value,
			previous_base_salary, previous_food_allowance, previous_housing_allowance, previous_transport_allowance,
			new_base_salary, new_food_allowance, new_housing_allowance, new_transport_allowance,
			increase_amount, increase_percentage, effective_date, reason, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + salaryIncrementColumns

	created, err := scanSalaryIncrement(q.QueryRow(ctx, query,
		inc.EmployeeID, inc.CompanyID, inc.Mode, inc.Value,
		inc.Previous.Base, inc.Previous.Food, inc.Previous.Housing, inc.Previous.Transport,
		inc.New.Base, inc.New.Food, inc.New.Housing, inc.New.Transport,
		inc.IncreaseAmount, inc.IncreasePercentage, inc.EffectiveDate, inc.Reason, inc.CreatedBy,
	))
	if err != nil {
		return compensation.SalaryIncrement{}, fmt.Errorf("failed to record salary increment: %w", err)
	}
	return created, nil
}

// ListByEmployee implements compensation.IncrementRepository.
func (s *salaryIncrementRepository) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]compensation.SalaryIncrement, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + salaryIncrementColumns + `
		FROM salary_increments
		WHERE company_id = $1 AND employee_id = $2
		ORDER BY created_at DESC, id
	`

	rows, err := q.Query(ctx, query, companyID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary increments: %w", err)
	}
	defer rows.Close()

	var result []compensation.SalaryIncrement
	for rows.Next() {
		inc, err := scanSalaryIncrement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary increment: %w", err)
		}
		result = append(result, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary increments: %w", err)
	}
	return result, nil
}
