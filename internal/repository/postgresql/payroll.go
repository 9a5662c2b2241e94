package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== SETTINGS ==========

func (r *payrollRepository) GetSettings(ctx context.Context, companyID string) (payroll.PayrollSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, overtime_enabled, overtime_rate_per_hour,
			   absence_deduction_enabled, created_at, updated_at
		FROM payroll_settings
		WHERE company_id = $1
	`

	var s payroll.PayrollSettings
	err := q.QueryRow(ctx, query, companyID).Scan(
		&s.ID, &s.CompanyID, &s.OvertimeEnabled, &s.OvertimeRatePerHour,
		&s.AbsenceDeductionEnabled, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollSettings{}, payroll.ErrPayrollSettingsNotFound
		}
		return payroll.PayrollSettings{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}

	return s, nil
}

func (r *payrollRepository) UpsertSettings(ctx context.Context, settings payroll.PayrollSettings) (payroll.PayrollSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_settings (
			company_id, overtime_enabled, overtime_rate_per_hour, absence_deduction_enabled
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id) DO UPDATE SET
			overtime_enabled = EXCLUDED.overtime_enabled,
			overtime_rate_per_hour = EXCLUDED.overtime_rate_per_hour,
			absence_deduction_enabled = EXCLUDED.absence_deduction_enabled,
			updated_at = NOW()
		RETURNING id, company_id, overtime_enabled, overtime_rate_per_hour,
			absence_deduction_enabled, created_at, updated_at
	`

	var s payroll.PayrollSettings
	err := q.QueryRow(ctx, query,
		settings.CompanyID, settings.OvertimeEnabled, settings.OvertimeRatePerHour, settings.AbsenceDeductionEnabled,
	).Scan(
		&s.ID, &s.CompanyID, &s.OvertimeEnabled, &s.OvertimeRatePerHour,
		&s.AbsenceDeductionEnabled, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollSettings{}, fmt.Errorf("failed to upsert payroll settings: %w", err)
	}

	return s, nil
}

// ========== PAYROLL RECORDS ==========

// payrollRecordSelect reads from a relation aliased pr joined to its employee.
const payrollRecordSelect = `
	SELECT pr.id, pr.employee_id, pr.company_id, pr.period_month, pr.period_year,
		   pr.base_salary, pr.food_allowance, pr.housing_allowance, pr.transport_allowance, pr.total_allowances,
		   pr.days_in_month, pr.days_worked, pr.absent_days, pr.regular_hours, pr.overtime_hours,
		   pr.overtime_amount, pr.bonus_amount, pr.deduction_amount, pr.advance_deduction, pr.net_salary,
		   pr.status, pr.paid_at, pr.paid_by, pr.notes, pr.created_at, pr.updated_at,
		   e.full_name, e.employee_code, e.position
`

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.BaseSalary, &rec.FoodAllowance, &rec.HousingAllowance, &rec.TransportAllowance, &rec.TotalAllowances,
		&rec.DaysInMonth, &rec.DaysWorked, &rec.AbsentDays, &rec.RegularHours, &rec.OvertimeHours,
		&rec.OvertimeAmount, &rec.BonusAmount, &rec.DeductionAmount, &rec.AdvanceDeduction, &rec.NetSalary,
		&rec.Status, &rec.PaidAt, &rec.PaidBy, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeCode, &rec.Position,
	)
	return rec, err
}

func (r *payrollRepository) CreatePayrollRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH pr AS (
			INSERT INTO payroll_records (
				employee_id, company_id, period_month, period_year,
				base_salary, food_allowance, housing_allowance, transport_allowance, total_allowances,
				days_in_month, days_worked, absent_days, regular_hours, overtime_hours,
				overtime_amount, bonus_amount, deduction_amount, advance_deduction, net_salary,
				status, notes
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
			RETURNING *
		)
	` + payrollRecordSelect + `
		FROM pr
		JOIN employees e ON pr.employee_id = e.id
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query,
		record.EmployeeID, record.CompanyID, record.PeriodMonth, record.PeriodYear,
		record.BaseSalary, record.FoodAllowance, record.HousingAllowance, record.TransportAllowance, record.TotalAllowances,
		record.DaysInMonth, record.DaysWorked, record.AbsentDays, record.RegularHours, record.OvertimeHours,
		record.OvertimeAmount, record.BonusAmount, record.DeductionAmount, record.AdvanceDeduction, record.NetSalary,
		record.Status, record.Notes,
	))
	if err != nil {
		if isUniqueViolation(err, "uk_employee_period") {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetPayrollRecordByID(ctx context.Context, id string, companyID string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := payrollRecordSelect + `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.id = $1 AND pr.company_id = $2
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) ExistsForEmployeePeriod(ctx context.Context, companyID, employeeID string, period payroll.Period) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM payroll_records
			WHERE company_id = $1 AND employee_id = $2 AND period_year = $3 AND period_month = $4
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, companyID, employeeID, period.Year, int(period.Month)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payroll record: %w", err)
	}
	return exists, nil
}

func (r *payrollRepository) ListPayrollRecords(ctx context.Context, companyID string, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.company_id = $1
	`
	args := []interface{}{companyID}
	argIdx := 2

	if filter.PeriodMonth != nil {
		baseQuery += fmt.Sprintf(" AND pr.period_month = $%d", argIdx)
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		baseQuery += fmt.Sprintf(" AND pr.period_year = $%d", argIdx)
		args = append(args, *filter.PeriodYear)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND pr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND pr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	// Count query
	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	// Sort
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	allowedColumns := map[string]string{
		"created_at":    "pr.created_at " + sortOrder,
		"period":        "pr.period_year " + sortOrder + ", pr.period_month " + sortOrder,
		"employee_name": "e.full_name " + sortOrder,
		"net_salary":    "pr.net_salary " + sortOrder,
	}
	orderBy, ok := allowedColumns[filter.SortBy]
	if !ok {
		orderBy = allowedColumns["created_at"]
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := payrollRecordSelect + baseQuery +
		fmt.Sprintf(" ORDER BY %s, pr.id LIMIT $%d OFFSET $%d", orderBy, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, totalCount, nil
}

func (r *payrollRepository) UpdateDraftRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH pr AS (
			UPDATE payroll_records SET
				base_salary = $3, food_allowance = $4, housing_allowance = $5, transport_allowance = $6,
				total_allowances = $7, days_in_month = $8, days_worked = $9, absent_days = $10,
				regular_hours = $11, overtime_hours = $12, overtime_amount = $13, bonus_amount = $14,
				deduction_amount = $15, advance_deduction = $16, net_salary = $17, notes = $18,
				updated_at = NOW()
			WHERE id = $1 AND company_id = $2 AND status = 'draft'
			RETURNING *
		)
	` + payrollRecordSelect + `
		FROM pr
		JOIN employees e ON pr.employee_id = e.id
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query,
		record.ID, record.CompanyID,
		record.BaseSalary, record.FoodAllowance, record.HousingAllowance, record.TransportAllowance,
		record.TotalAllowances, record.DaysInMonth, record.DaysWorked, record.AbsentDays,
		record.RegularHours, record.OvertimeHours, record.OvertimeAmount, record.BonusAmount,
		record.DeductionAmount, record.AdvanceDeduction, record.NetSalary, record.Notes,
	))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll record: %w", err)
	}

	// Nothing updated: tell a missing record from a paid one.
	var status string
	err = q.QueryRow(ctx, `SELECT status FROM payroll_records WHERE id = $1 AND company_id = $2`, record.ID, record.CompanyID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to check payroll record status: %w", err)
	}
	return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyPaid
}

func (r *payrollRepository) FinalizePayrollRecords(ctx context.Context, ids []string, paidBy string, companyID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = 'paid', paid_at = NOW(), paid_by = $1, updated_at = NOW()
		WHERE id = ANY($2) AND company_id = $3 AND status = 'draft'
	`

	tag, err := q.Exec(ctx, query, paidBy, ids, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to finalize payroll records: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *payrollRepository) DeletePayrollRecord(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	// Check if record is already paid
	var status string
	err := q.QueryRow(ctx, `SELECT status FROM payroll_records WHERE id = $1 AND company_id = $2`, id, companyID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ErrPayrollRecordNotFound
		}
		return fmt.Errorf("failed to check payroll record status: %w", err)
	}
	if status == string(payroll.PayrollStatusPaid) {
		return payroll.ErrCannotDeletePaidRecord
	}

	tag, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE id = $1 AND company_id = $2 AND status = 'draft'`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrCannotDeletePaidRecord
	}

	return nil
}

// ========== BATCH ==========

func (r *payrollRepository) ListDraftRecordIDs(ctx context.Context, companyID string, period payroll.Period) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id FROM payroll_records
		WHERE company_id = $1 AND period_year = $2 AND period_month = $3 AND status = 'draft'
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, companyID, period.Year, int(period.Month))
	if err != nil {
		return nil, fmt.Errorf("failed to list draft payroll records: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan draft payroll records: %w", err)
	}
	return ids, nil
}

func (r *payrollRepository) ListCompanyIDsWithDrafts(ctx context.Context, period payroll.Period) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT company_id::text FROM payroll_records
		WHERE period_year = $1 AND period_month = $2 AND status = 'draft'
		ORDER BY 1
	`

	rows, err := q.Query(ctx, query, period.Year, int(period.Month))
	if err != nil {
		return nil, fmt.Errorf("failed to list companies with drafts: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan companies with drafts: %w", err)
	}
	return ids, nil
}

// ========== AGGREGATIONS ==========

func (r *payrollRepository) GetPayrollSummary(ctx context.Context, companyID string, period payroll.Period) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) as total_employees,
			COALESCE(SUM(base_salary), 0) as total_base_salary,
			COALESCE(SUM(total_allowances), 0) as total_allowances,
			COALESCE(SUM(overtime_amount), 0) as total_overtime,
			COALESCE(SUM(bonus_amount), 0) as total_bonus,
			COALESCE(SUM(deduction_amount), 0) as total_absence_deduction,
			COALESCE(SUM(advance_deduction), 0) as total_advance_deduction,
			COALESCE(SUM(net_salary), 0) as total_net_salary,
			COUNT(*) FILTER (WHERE status = 'draft') as draft_count,
			COUNT(*) FILTER (WHERE status = 'paid') as paid_count
		FROM payroll_records
		WHERE company_id = $1 AND period_year = $2 AND period_month = $3
	`

	var summary payroll.PayrollSummaryResponse
	err := q.QueryRow(ctx, query, companyID, period.Year, int(period.Month)).Scan(
		&summary.TotalEmployees, &summary.TotalBaseSalary, &summary.TotalAllowances,
		&summary.TotalOvertime, &summary.TotalBonus, &summary.TotalAbsenceDeduction,
		&summary.TotalAdvanceDeduction, &summary.TotalNetSalary, &summary.DraftCount, &summary.PaidCount,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	summary.PeriodMonth = int(period.Month)
	summary.PeriodYear = period.Year

	return summary, nil
}
