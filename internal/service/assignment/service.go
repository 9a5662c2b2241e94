package assignment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/assignment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/equipment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type AssignmentServiceImpl struct {
	tx             database.Transactor
	assignmentRepo assignment.AssignmentRepository
	employeeRepo   employee.EmployeeRepository
	equipmentRepo  equipment.EquipmentRepository
	today          func() time.Time
}

func NewAssignmentService(
	tx database.Transactor,
	assignmentRepo assignment.AssignmentRepository,
	employeeRepo employee.EmployeeRepository,
	equipmentRepo equipment.EquipmentRepository,
) assignment.AssignmentService {
	return &AssignmentServiceImpl{
		tx:             tx,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
		equipmentRepo:  equipmentRepo,
		today: func() time.Time {
			return time.Now().UTC().Truncate(24 * time.Hour)
		},
	}
}

// ListEmployeeAssignments implements assignment.AssignmentService.
func (s *AssignmentServiceImpl) ListEmployeeAssignments(ctx context.Context, employeeID string, kind assignment.Kind) (assignment.ListAssignmentResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return assignment.ListAssignmentResponse{}, err
	}
	if !validator.IsValidUUID(employeeID) {
		return assignment.ListAssignmentResponse{}, employee.ErrEmployeeNotFound
	}
	if kind == "" {
		kind = assignment.KindWork
	}
	if kind != assignment.KindWork && kind != assignment.KindEquipment {
		var errs validator.ValidationErrors
		errs.Add("kind", "kind must be work or equipment")
		return assignment.ListAssignmentResponse{}, errs
	}

	if _, err := s.employeeRepo.GetByID(ctx, claims.CompanyID, employeeID); err != nil {
		return assignment.ListAssignmentResponse{}, err
	}

	list, err := s.assignmentRepo.ListBySubject(ctx, claims.CompanyID, assignment.Subject{Kind: kind, EmployeeID: employeeID})
	if err != nil {
		return assignment.ListAssignmentResponse{}, fmt.Errorf("failed to list employee assignments: %w", err)
	}
	return assignment.NewListAssignmentResponse(assignment.SplitCurrent(list)), nil
}

// ListEquipmentAssignments implements assignment.AssignmentService.
func (s *AssignmentServiceImpl) ListEquipmentAssignments(ctx context.Context, equipmentID string) (assignment.ListAssignmentResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return assignment.ListAssignmentResponse{}, err
	}
	if !validator.IsValidUUID(equipmentID) {
		return assignment.ListAssignmentResponse{}, equipment.ErrEquipmentNotFound
	}

	if _, err := s.equipmentRepo.GetByID(ctx, claims.CompanyID, equipmentID); err != nil {
		return assignment.ListAssignmentResponse{}, err
	}

	list, err := s.assignmentRepo.ListBySubject(ctx, claims.CompanyID, assignment.Subject{Kind: assignment.KindEquipment, EquipmentID: equipmentID})
	if err != nil {
		return assignment.ListAssignmentResponse{}, fmt.Errorf("failed to list equipment assignments: %w", err)
	}
	return assignment.NewListAssignmentResponse(assignment.SplitCurrent(list)), nil
}

// CreateAssignment implements assignment.AssignmentService.
// An active assignment completes the subject's other active assignments of the same kind.
func (s *AssignmentServiceImpl) CreateAssignment(ctx context.Context, req assignment.CreateAssignmentRequest) (assignment.AssignmentResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return assignment.AssignmentResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, claims.CompanyID, req.EmployeeID); err != nil {
		return assignment.AssignmentResponse{}, err
	}
	if req.EquipmentID != nil {
		item, err := s.equipmentRepo.GetByID(ctx, claims.CompanyID, *req.EquipmentID)
		if err != nil {
			return assignment.AssignmentResponse{}, err
		}
		if !item.Assignable() {
			return assignment.AssignmentResponse{}, equipment.ErrEquipmentUnavailable
		}
	}

	start, end := req.Dates()
	status := assignment.StatusActive
	if end != nil && end.Before(s.today()) {
		status = assignment.StatusCompleted
	}

	newAssignment := assignment.Assignment{
		CompanyID:   claims.CompanyID,
		EmployeeID:  req.EmployeeID,
		EquipmentID: req.EquipmentID,
		Kind:        assignment.Kind(req.Kind),
		Title:       strings.TrimSpace(req.Title),
		Location:    req.Location,
		StartDate:   start,
		EndDate:     end,
		Status:      status,
		Notes:       req.Notes,
	}

	var created assignment.Assignment
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if newAssignment.IsActive() {
			completed, err := s.assignmentRepo.CompleteActive(txCtx, claims.CompanyID, assignment.SubjectOf(newAssignment), start, "")
			if err != nil {
				return err
			}
			if completed > 0 {
				slog.DebugContext(txCtx, "previous assignments completed", "count", completed, "kind", newAssignment.Kind)
			}
		}

		var err error
		created, err = s.assignmentRepo.Create(txCtx, newAssignment)
		if err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}
		return s.syncEquipmentStatus(txCtx, claims.CompanyID, created)
	})
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}

	slog.InfoContext(ctx, "assignment created",
		"company_id", claims.CompanyID,
		"assignment_id", created.ID,
		"kind", created.Kind,
	)
	return assignment.NewAssignmentResponse(created), nil
}

// UpdateAssignment implements assignment.AssignmentService.
func (s *AssignmentServiceImpl) UpdateAssignment(ctx context.Context, req assignment.UpdateAssignmentRequest) (assignment.AssignmentResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return assignment.AssignmentResponse{}, err
	}

	existing, err := s.scopedGet(ctx, claims.CompanyID, req.ID, req.EmployeeID, req.EquipmentID)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}

	updated := existing
	if req.Title != nil {
		updated.Title = strings.TrimSpace(*req.Title)
	}
	if req.Location != nil {
		updated.Location = req.Location
	}
	if req.Notes != nil {
		updated.Notes = req.Notes
	}
	if req.StartDate != nil {
		updated.StartDate, _ = validator.IsValidDate(*req.StartDate)
	}
	if req.EndDate != nil {
		// An empty end_date clears it.
		if *req.EndDate == "" {
			updated.EndDate = nil
		} else {
			end, _ := validator.IsValidDate(*req.EndDate)
			updated.EndDate = &end
		}
	}
	if req.Status != nil {
		updated.Status = assignment.Status(*req.Status)
	}
	if updated.EndDate != nil && updated.EndDate.Before(updated.StartDate) {
		var errs validator.ValidationErrors
		errs.Add("end_date", assignment.ErrInvalidDateRange.Error())
		return assignment.AssignmentResponse{}, errs
	}

	var saved assignment.Assignment
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if updated.IsActive() && !existing.IsActive() {
			if _, err := s.assignmentRepo.CompleteActive(txCtx, claims.CompanyID, assignment.SubjectOf(updated), updated.StartDate, updated.ID); err != nil {
				return err
			}
		}

		var err error
		saved, err = s.assignmentRepo.Update(txCtx, updated)
		if err != nil {
			return err
		}
		return s.syncEquipmentStatus(txCtx, claims.CompanyID, saved)
	})
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}
	return assignment.NewAssignmentResponse(saved), nil
}

// DeleteAssignment implements assignment.AssignmentService.
func (s *AssignmentServiceImpl) DeleteAssignment(ctx context.Context, req assignment.DeleteAssignmentRequest) (assignment.DeleteAssignmentResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return assignment.DeleteAssignmentResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return assignment.DeleteAssignmentResponse{}, assignment.ErrAssignmentNotFound
	}

	target, err := s.scopedGet(ctx, claims.CompanyID, req.ID, req.EmployeeID, req.EquipmentID)
	if err != nil {
		return assignment.DeleteAssignmentResponse{}, err
	}

	var resp assignment.DeleteAssignmentResponse
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		list, err := s.assignmentRepo.ListBySubject(txCtx, claims.CompanyID, assignment.SubjectOf(target))
		if err != nil {
			return err
		}
		candidate, promote := assignment.PromotionCandidate(list, target.ID)

		if err := s.assignmentRepo.Delete(txCtx, claims.CompanyID, target.ID); err != nil {
			return err
		}

		if promote {
			candidate.Status = assignment.StatusActive
			candidate.EndDate = nil
			promoted, err := s.assignmentRepo.Update(txCtx, candidate)
			if err != nil {
				return fmt.Errorf("failed to promote assignment %s: %w", candidate.ID, err)
			}
			promotedResp := assignment.NewAssignmentResponse(promoted)
			resp.Promoted = &promotedResp
		}

		return s.syncEquipmentStatus(txCtx, claims.CompanyID, target)
	})
	if err != nil {
		return assignment.DeleteAssignmentResponse{}, err
	}

	slog.InfoContext(ctx, "assignment deleted",
		"company_id", claims.CompanyID,
		"assignment_id", target.ID,
		"promoted", resp.Promoted != nil,
	)
	return resp, nil
}

// scopedGet loads an assignment and hides it when it does not belong to the
// employee or equipment item named by the route.
func (s *AssignmentServiceImpl) scopedGet(ctx context.Context, companyID, id, employeeID, equipmentID string) (assignment.Assignment, error) {
	a, err := s.assignmentRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if employeeID != "" && a.EmployeeID != employeeID {
		return assignment.Assignment{}, assignment.ErrAssignmentNotFound
	}
	if equipmentID != "" && (a.EquipmentID == nil || *a.EquipmentID != equipmentID) {
		return assignment.Assignment{}, assignment.ErrAssignmentNotFound
	}
	return a, nil
}

// syncEquipmentStatus makes the item assigned while its current assignment is
// active and returns it to available otherwise. Maintenance and retired are
// left alone.
func (s *AssignmentServiceImpl) syncEquipmentStatus(ctx context.Context, companyID string, a assignment.Assignment) error {
	if a.Kind != assignment.KindEquipment || a.EquipmentID == nil {
		return nil
	}

	item, err := s.equipmentRepo.GetByID(ctx, companyID, *a.EquipmentID)
	if err != nil {
		return err
	}
	list, err := s.assignmentRepo.ListBySubject(ctx, companyID, assignment.SubjectOf(a))
	if err != nil {
		return err
	}

	want := item.Status
	current := assignment.SplitCurrent(list).Current
	switch {
	case current != nil && current.IsActive():
		want = equipment.StatusAssigned
	case item.Status == equipment.StatusAssigned:
		want = equipment.StatusAvailable
	}
	if want == item.Status {
		return nil
	}
	return s.equipmentRepo.UpdateStatus(ctx, companyID, item.ID, want)
}
