package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Upsert inserts or replaces the entry for (employee, date).
	Upsert(ctx context.Context, a Attendance) (Attendance, error)
	GetByID(ctx context.Context, companyID, id string) (Attendance, error)
	// ListByEmployeeBetween returns entries with from <= date <= to ordered by date.
	ListByEmployeeBetween(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]Attendance, error)
	Delete(ctx context.Context, companyID, id string) error
}
