package user

import "time"

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Runs payroll drafts, attendance and assignments
	RoleEmployee Role = "employee" // Regular employee
)

var ValidRoles = []string{string(RoleOwner), string(RoleManager), string(RoleEmployee)}

type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string
	GoogleID     *string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
