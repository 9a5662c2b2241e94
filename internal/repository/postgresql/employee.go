package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id, e.company_id, e.user_id, e.employee_code, e.full_name, e.email, e.position,
	e.hire_date, e.status, e.base_salary, e.food_allowance, e.housing_allowance, e.transport_allowance,
	e.created_at, e.updated_at, e.deleted_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.UserID, &emp.EmployeeCode, &emp.FullName, &emp.Email, &emp.Position,
		&emp.HireDate, &emp.Status,
		&emp.Compensation.Base, &emp.Compensation.Food, &emp.Compensation.Housing, &emp.Compensation.Transport,
		&emp.CreatedAt, &emp.UpdatedAt, &emp.DeletedAt,
	)
	return emp, err
}

func (e *employeeRepositoryImpl) getByID(ctx context.Context, companyID, id string, forUpdate bool) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		WHERE e.id = $1 AND e.company_id = $2 AND e.deleted_at IS NULL
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	emp, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (employee.Employee, error) {
	return e.getByID(ctx, companyID, id, false)
}

// GetByIDForUpdate implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByIDForUpdate(ctx context.Context, companyID, id string) (employee.Employee, error) {
	return e.getByID(ctx, companyID, id, true)
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			company_id, user_id, employee_code, full_name, email, position, hire_date, status,
			base_salary, food_allowance, housing_allowance, transport_allowance
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, company_id, user_id, employee_code, full_name, email, position,
			hire_date, status, base_salary, food_allowance, housing_allowance, transport_allowance,
			created_at, updated_at, deleted_at
	`

	comp := newEmployee.Compensation
	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.CompanyID, newEmployee.UserID, newEmployee.EmployeeCode, newEmployee.FullName,
		newEmployee.Email, newEmployee.Position, newEmployee.HireDate, newEmployee.Status,
		comp.Base, comp.Food, comp.Housing, comp.Transport,
	))
	if err != nil {
		if isUniqueViolation(err, "uk_employee_code") {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// ExistsByCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByCode(ctx context.Context, companyID, employeeCode string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT EXISTS(SELECT 1 FROM employees WHERE company_id = $1 AND employee_code = $2`
	args := []interface{}{companyID, employeeCode}
	if excludeID != nil {
		query += ` AND id <> $3`
		args = append(args, *excludeID)
	}
	query += `)`

	var exists bool
	if err := q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check employee code: %w", err)
	}
	return exists, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, companyID, id string, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, e.db)

	updates := make(map[string]interface{})

	if req.EmployeeCode != nil {
		updates["employee_code"] = *req.EmployeeCode
	}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.HireDate != nil {
		hireDate, ok := validator.IsValidDate(*req.HireDate)
		if !ok {
			return fmt.Errorf("invalid hire_date %q", *req.HireDate)
		}
		updates["hire_date"] = hireDate
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.BaseSalary != nil {
		updates["base_salary"] = *req.BaseSalary
	}
	if req.FoodAllowance != nil {
		updates["food_allowance"] = *req.FoodAllowance
	}
	if req.HousingAllowance != nil {
		updates["housing_allowance"] = *req.HousingAllowance
	}
	if req.TransportAllowance != nil {
		updates["transport_allowance"] = *req.TransportAllowance
	}

	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+2)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := "UPDATE employees SET " + strings.Join(setClauses, ", ") +
		fmt.Sprintf(" WHERE id = $%d AND company_id = $%d AND deleted_at IS NULL RETURNING id", i, i+1)
	args = append(args, id, companyID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		if isUniqueViolation(err, "uk_employee_code") {
			return employee.ErrEmployeeCodeExists
		}
		return fmt.Errorf("failed to update employee with id %s: %w", id, err)
	}
	return nil
}

// UpdateCompensation implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdateCompensation(ctx context.Context, companyID, id string, comp compensation.Compensation) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET base_salary = $1, food_allowance = $2, housing_allowance = $3, transport_allowance = $4, updated_at = NOW()
		WHERE id = $5 AND company_id = $6 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, comp.Base, comp.Food, comp.Housing, comp.Transport, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to update compensation for employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// SoftDelete implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) SoftDelete(ctx context.Context, companyID, id string) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET deleted_at = NOW(), status = 'inactive', updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, companyID string, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	conditions := []string{"e.company_id = $1", "e.deleted_at IS NULL"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(e.full_name ILIKE $%d OR e.employee_code ILIKE $%d OR e.email ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees e"+whereClause, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	allowedColumns := map[string]string{
		"full_name":     "e.full_name",
		"employee_code": "e.employee_code",
		"hire_date":     "e.hire_date",
		"created_at":    "e.created_at",
	}
	sortColumn, ok := allowedColumns[filter.SortBy]
	if !ok {
		sortColumn = "e.full_name"
	}
	sortOrder := "ASC"
	if filter.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := fmt.Sprintf(`SELECT %s FROM employees e%s ORDER BY %s %s, e.id LIMIT $%d OFFSET $%d`,
		employeeColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, totalCount, nil
}

// GetActiveByCompanyID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		WHERE e.company_id = $1 AND e.status = 'active' AND e.deleted_at IS NULL
		ORDER BY e.full_name, e.id
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}
