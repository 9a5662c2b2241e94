package equipment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/assignment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/equipment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type EquipmentServiceImpl struct {
	equipmentRepo  equipment.EquipmentRepository
	assignmentRepo assignment.AssignmentRepository
}

func NewEquipmentService(equipmentRepo equipment.EquipmentRepository, assignmentRepo assignment.AssignmentRepository) equipment.EquipmentService {
	return &EquipmentServiceImpl{
		equipmentRepo:  equipmentRepo,
		assignmentRepo: assignmentRepo,
	}
}

// CreateEquipment implements equipment.EquipmentService.
func (s *EquipmentServiceImpl) CreateEquipment(ctx context.Context, req equipment.CreateEquipmentRequest) (equipment.EquipmentResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return equipment.EquipmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return equipment.EquipmentResponse{}, err
	}

	exists, err := s.equipmentRepo.ExistsByCode(ctx, claims.CompanyID, req.Code, nil)
	if err != nil {
		return equipment.EquipmentResponse{}, err
	}
	if exists {
		return equipment.EquipmentResponse{}, equipment.ErrEquipmentCodeExists
	}

	created, err := s.equipmentRepo.Create(ctx, equipment.Equipment{
		CompanyID:    claims.CompanyID,
		Code:         req.Code,
		Name:         strings.TrimSpace(req.Name),
		Category:     req.Category,
		SerialNumber: req.SerialNumber,
		Status:       equipment.StatusAvailable,
	})
	if err != nil {
		return equipment.EquipmentResponse{}, fmt.Errorf("failed to create equipment: %w", err)
	}

	slog.InfoContext(ctx, "equipment created", "company_id", claims.CompanyID, "equipment_id", created.ID)
	return equipment.NewEquipmentResponse(created), nil
}

// GetEquipment implements equipment.EquipmentService.
func (s *EquipmentServiceImpl) GetEquipment(ctx context.Context, id string) (equipment.EquipmentResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return equipment.EquipmentResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return equipment.EquipmentResponse{}, equipment.ErrEquipmentNotFound
	}

	item, err := s.equipmentRepo.GetByID(ctx, claims.CompanyID, id)
	if err != nil {
		return equipment.EquipmentResponse{}, err
	}
	return equipment.NewEquipmentResponse(item), nil
}

// ListEquipment implements equipment.EquipmentService.
func (s *EquipmentServiceImpl) ListEquipment(ctx context.Context, filter equipment.EquipmentFilter) (equipment.ListEquipmentResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return equipment.ListEquipmentResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return equipment.ListEquipmentResponse{}, err
	}

	items, total, err := s.equipmentRepo.List(ctx, claims.CompanyID, filter)
	if err != nil {
		return equipment.ListEquipmentResponse{}, fmt.Errorf("failed to list equipment: %w", err)
	}

	responses := make([]equipment.EquipmentResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, equipment.NewEquipmentResponse(item))
	}

	return equipment.ListEquipmentResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Equipment:  responses,
	}, nil
}

// UpdateEquipment implements equipment.EquipmentService.
//
// The assigned status belongs to the assignment lifecycle: it cannot be set by
// hand, and an item with a current active assignment cannot leave it.
func (s *EquipmentServiceImpl) UpdateEquipment(ctx context.Context, req equipment.UpdateEquipmentRequest) (equipment.EquipmentResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return equipment.EquipmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return equipment.EquipmentResponse{}, err
	}

	existing, err := s.equipmentRepo.GetByID(ctx, claims.CompanyID, req.ID)
	if err != nil {
		return equipment.EquipmentResponse{}, err
	}

	if req.Code != nil && *req.Code != existing.Code {
		exists, err := s.equipmentRepo.ExistsByCode(ctx, claims.CompanyID, *req.Code, &req.ID)
		if err != nil {
			return equipment.EquipmentResponse{}, err
		}
		if exists {
			return equipment.EquipmentResponse{}, equipment.ErrEquipmentCodeExists
		}
	}

	if req.Status != nil && equipment.Status(*req.Status) != existing.Status {
		if equipment.Status(*req.Status) == equipment.StatusAssigned {
			return equipment.EquipmentResponse{}, equipment.ErrStatusDerived
		}
		inUse, err := s.hasActiveAssignment(ctx, claims.CompanyID, existing.ID)
		if err != nil {
			return equipment.EquipmentResponse{}, err
		}
		if inUse {
			return equipment.EquipmentResponse{}, equipment.ErrEquipmentInUse
		}
	}

	if err := s.equipmentRepo.Update(ctx, claims.CompanyID, req.ID, req); err != nil {
		return equipment.EquipmentResponse{}, fmt.Errorf("failed to update equipment: %w", err)
	}

	item, err := s.equipmentRepo.GetByID(ctx, claims.CompanyID, req.ID)
	if err != nil {
		return equipment.EquipmentResponse{}, fmt.Errorf("failed to get updated equipment: %w", err)
	}
	return equipment.NewEquipmentResponse(item), nil
}

func (s *EquipmentServiceImpl) hasActiveAssignment(ctx context.Context, companyID, equipmentID string) (bool, error) {
	list, err := s.assignmentRepo.ListBySubject(ctx, companyID, assignment.Subject{
		Kind:        assignment.KindEquipment,
		EquipmentID: equipmentID,
	})
	if err != nil {
		return false, err
	}
	current := assignment.SplitCurrent(list).Current
	return current != nil && current.IsActive(), nil
}
