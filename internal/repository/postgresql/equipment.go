package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/equipment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type equipmentRepositoryImpl struct {
	db *database.DB
}

func NewEquipmentRepository(db *database.DB) equipment.EquipmentRepository {
	return &equipmentRepositoryImpl{db: db}
}

const equipmentColumns = `id, company_id, code, name, category, serial_number, status, created_at, updated_at`

func scanEquipment(row pgx.Row) (equipment.Equipment, error) {
	var e equipment.Equipment
	err := row.Scan(&e.ID, &e.CompanyID, &e.Code, &e.Name, &e.Category, &e.SerialNumber, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// GetByID implements equipment.EquipmentRepository.
func (r *equipmentRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (equipment.Equipment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1 AND company_id = $2`
	e, err := scanEquipment(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return equipment.Equipment{}, equipment.ErrEquipmentNotFound
		}
		return equipment.Equipment{}, fmt.Errorf("failed to get equipment with id %s: %w", id, err)
	}
	return e, nil
}

// Create implements equipment.EquipmentRepository.
func (r *equipmentRepositoryImpl) Create(ctx context.Context, e equipment.Equipment) (equipment.Equipment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO equipment (company_id, code, name, category, serial_number, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + equipmentColumns

	created, err := scanEquipment(q.QueryRow(ctx, query, e.CompanyID, e.Code, e.Name, e.Category, e.SerialNumber, e.Status))
	if err != nil {
		if isUniqueViolation(err, "uk_equipment_code") {
			return equipment.Equipment{}, equipment.ErrEquipmentCodeExists
		}
		return equipment.Equipment{}, fmt.Errorf("failed to create equipment: %w", err)
	}
	return created, nil
}

// ExistsByCode implements equipment.EquipmentRepository.
func (r *equipmentRepositoryImpl) ExistsByCode(ctx context.Context, companyID, code string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM equipment WHERE company_id = $1 AND code = $2`
	args := []interface{}{companyID, code}
	if excludeID != nil {
		query += ` AND id <> $3`
		args = append(args, *excludeID)
	}
	query += `)`

	var exists bool
	if err := q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check equipment code: %w", err)
	}
	return exists, nil
}

// Update implements equipment.EquipmentRepository.
func (r *equipmentRepositoryImpl) Update(ctx context.Context, companyID, id string, req equipment.UpdateEquipmentRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})
	if req.Code != nil {
		updates["code"] = *req.Code
	}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.SerialNumber != nil {
		updates["serial_number"] = *req.SerialNumber
	}
	if req.Status != nil {
		updates["status"] = *req.Status
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
	sql := "UPDATE equipment SET " + strings.Join(setClauses, ", ") +
		fmt.Sprintf(" WHERE id = $%d AND company_id = $%d", i, i+1)
	args = append(args, id, companyID)

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err, "uk_equipment_code") {
			return equipment.ErrEquipmentCodeExists
		}
		return fmt.Errorf("failed to update equipment with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return equipment.ErrEquipmentNotFound
	}
	return nil
}

// UpdateStatus implements equipment.EquipmentRepository.
func (r *equipmentRepositoryImpl) UpdateStatus(ctx context.Context, companyID, id string, status equipment.Status) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE equipment SET status = $1, updated_at = NOW() WHERE id = $2 AND company_id = $3`,
		status, id, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update equipment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return equipment.ErrEquipmentNotFound
	}
	return nil
}

// List implements equipment.EquipmentRepository.
func (r *equipmentRepositoryImpl) List(ctx context.Context, companyID string, filter equipment.EquipmentFilter) ([]equipment.Equipment, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR code ILIKE $%d OR serial_number ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Category != nil && *filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, *filter.Category)
		argIdx++
	}
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM equipment"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count equipment: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM equipment%s ORDER BY code, id LIMIT $%d OFFSET $%d`,
		equipmentColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list equipment: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (equipment.Equipment, error) {
		return scanEquipment(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan equipment: %w", err)
	}
	return items, total, nil
}
