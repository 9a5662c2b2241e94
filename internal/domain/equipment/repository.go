package equipment

import "context"

type EquipmentRepository interface {
	GetByID(ctx context.Context, companyID, id string) (Equipment, error)
	Create(ctx context.Context, e Equipment) (Equipment, error)
	ExistsByCode(ctx context.Context, companyID, code string, excludeID *string) (bool, error)
	Update(ctx context.Context, companyID, id string, req UpdateEquipmentRequest) error
	UpdateStatus(ctx context.Context, companyID, id string, status Status) error
	List(ctx context.Context, companyID string, filter EquipmentFilter) ([]Equipment, int64, error)
}
