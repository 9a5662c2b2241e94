package assignment

import "time"

type Kind string

const (
	KindWork      Kind = "work"
	KindEquipment Kind = "equipment"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type Assignment struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	EquipmentID *string
	Kind        Kind
	Title       string
	Location    *string
	StartDate   time.Time
	EndDate     *time.Time
	Status      Status
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a Assignment) IsActive() bool {
	return a.Status == StatusActive
}

// Subject identifies whose assignment history a record belongs to: the
// employee for work assignments, the equipment item for equipment ones.
type Subject struct {
	Kind        Kind
	EmployeeID  string
	EquipmentID string
}

func SubjectOf(a Assignment) Subject {
	if a.Kind == KindEquipment && a.EquipmentID != nil {
		return Subject{Kind: KindEquipment, EquipmentID: *a.EquipmentID}
	}
	return Subject{Kind: a.Kind, EmployeeID: a.EmployeeID}
}

// Split separates the current assignment from the rest.
type Split struct {
	Current *Assignment
	History []Assignment
}
