package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/assignment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type assignmentRepositoryImpl struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) assignment.AssignmentRepository {
	return &assignmentRepositoryImpl{db: db}
}

const assignmentColumns = `
	id, company_id, employee_id, equipment_id, kind, title, location,
	start_date, end_date, status, notes, created_at, updated_at
`

func scanAssignment(row pgx.Row) (assignment.Assignment, error) {
	var a assignment.Assignment
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.EquipmentID, &a.Kind, &a.Title, &a.Location,
		&a.StartDate, &a.EndDate, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// subjectFilter renders the WHERE fragment selecting a subject's history,
// numbering placeholders from $2.
func subjectFilter(subject assignment.Subject) (string, []interface{}) {
	if subject.Kind == assignment.KindEquipment && subject.EquipmentID != "" {
		return "kind = $2 AND equipment_id = $3", []interface{}{subject.Kind, subject.EquipmentID}
	}
	return "kind = $2 AND employee_id = $3", []interface{}{subject.Kind, subject.EmployeeID}
}

// Create implements assignment.AssignmentRepository.
func (r *assignmentRepositoryImpl) Create(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO assignments (
			company_id, employee_id, equipment_id, kind, title, location, start_date, end_date, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + assignmentColumns

	created, err := scanAssignment(q.QueryRow(ctx, query,
		a.CompanyID, a.EmployeeID, a.EquipmentID, a.Kind, a.Title, a.Location,
		a.StartDate, a.EndDate, a.Status, a.Notes,
	))
	if err != nil {
		if isForeignKeyViolation(err, "") {
			return assignment.Assignment{}, employee.ErrEmployeeNotFound
		}
		return assignment.Assignment{}, fmt.Errorf("failed to create assignment: %w", err)
	}
	return created, nil
}

// GetByID implements assignment.AssignmentRepository.
func (r *assignmentRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1 AND company_id = $2`
	a, err := scanAssignment(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assignment.Assignment{}, assignment.ErrAssignmentNotFound
		}
		return assignment.Assignment{}, fmt.Errorf("failed to get assignment with id %s: %w", id, err)
	}
	return a, nil
}

// ListBySubject implements assignment.AssignmentRepository.
func (r *assignmentRepositoryImpl) ListBySubject(ctx context.Context, companyID string, subject assignment.Subject) ([]assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	where, args := subjectFilter(subject)
	query := `SELECT ` + assignmentColumns + ` FROM assignments
		WHERE company_id = $1 AND ` + where + `
		ORDER BY created_at DESC, id`

	rows, err := q.Query(ctx, query, append([]interface{}{companyID}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (assignment.Assignment, error) {
		return scanAssignment(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan assignments: %w", err)
	}
	return list, nil
}

// Update implements assignment.AssignmentRepository.
func (r *assignmentRepositoryImpl) Update(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE assignments
		SET title = $1, location = $2, start_date = $3, end_date = $4, status = $5, notes = $6, updated_at = NOW()
		WHERE id = $7 AND company_id = $8
		RETURNING ` + assignmentColumns

	updated, err := scanAssignment(q.QueryRow(ctx, query,
		a.Title, a.Location, a.StartDate, a.EndDate, a.Status, a.Notes, a.ID, a.CompanyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assignment.Assignment{}, assignment.ErrAssignmentNotFound
		}
		return assignment.Assignment{}, fmt.Errorf("failed to update assignment with id %s: %w", a.ID, err)
	}
	return updated, nil
}

// Delete implements assignment.AssignmentRepository.
func (r *assignmentRepositoryImpl) Delete(ctx context.Context, companyID, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM assignments WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete assignment with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return assignment.ErrAssignmentNotFound
	}
	return nil
}

// CompleteActive implements assignment.AssignmentRepository.
// The end date never moves before the row's own start date.
func (r *assignmentRepositoryImpl) CompleteActive(ctx context.Context, companyID string, subject assignment.Subject, endDate time.Time, excludeID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args := subjectFilter(subject)
	query := `
		UPDATE assignments
		SET status = 'completed', end_date = COALESCE(end_date, GREATEST(start_date, $4::date)), updated_at = NOW()
		WHERE company_id = $1 AND ` + where + ` AND status = 'active' AND id::text <> $5`

	tag, err := q.Exec(ctx, query, companyID, args[0], args[1], endDate, excludeID)
	if err != nil {
		return 0, fmt.Errorf("failed to complete active assignments: %w", err)
	}
	return tag.RowsAffected(), nil
}
