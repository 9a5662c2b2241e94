package equipment

import "context"

type EquipmentService interface {
	CreateEquipment(ctx context.Context, req CreateEquipmentRequest) (EquipmentResponse, error)
	GetEquipment(ctx context.Context, id string) (EquipmentResponse, error)
	ListEquipment(ctx context.Context, filter EquipmentFilter) (ListEquipmentResponse, error)
	UpdateEquipment(ctx context.Context, req UpdateEquipmentRequest) (EquipmentResponse, error)
}
