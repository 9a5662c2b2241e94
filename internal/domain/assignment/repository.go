package assignment

import (
	"context"
	"time"
)

type AssignmentRepository interface {
	Create(ctx context.Context, a Assignment) (Assignment, error)
	GetByID(ctx context.Context, companyID, id string) (Assignment, error)
	// ListBySubject returns the subject's assignments newest created first.
	ListBySubject(ctx context.Context, companyID string, subject Subject) ([]Assignment, error)
	Update(ctx context.Context, a Assignment) (Assignment, error)
	Delete(ctx context.Context, companyID, id string) error
	// CompleteActive marks the subject's active assignments other than excludeID
	// completed, filling a missing end date with endDate.
	CompleteActive(ctx context.Context, companyID string, subject Subject, endDate time.Time, excludeID string) (int64, error)
}
