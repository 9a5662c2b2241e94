package equipment

import "time"

type Equipment struct {
	ID           string
	CompanyID    string
	Code         string
	Name         string
	Category     *string
	SerialNumber *string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Status string

const (
	StatusAvailable   Status = "available"
	StatusAssigned    Status = "assigned"
	StatusMaintenance Status = "maintenance"
	StatusRetired     Status = "retired"
)

// Assignable reports whether a new assignment may start for the item.
func (e Equipment) Assignable() bool {
	return e.Status == StatusAvailable || e.Status == StatusAssigned
}
