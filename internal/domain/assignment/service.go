package assignment

import "context"

type AssignmentService interface {
	ListEmployeeAssignments(ctx context.Context, employeeID string, kind Kind) (ListAssignmentResponse, error)
	ListEquipmentAssignments(ctx context.Context, equipmentID string) (ListAssignmentResponse, error)
	CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (AssignmentResponse, error)
	UpdateAssignment(ctx context.Context, req UpdateAssignmentRequest) (AssignmentResponse, error)
	// DeleteAssignment removes the assignment and, when it was the current active
	// one, reactivates the most recently created completed assignment.
	DeleteAssignment(ctx context.Context, req DeleteAssignmentRequest) (DeleteAssignmentResponse, error)
}
