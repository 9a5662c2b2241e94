package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Attendance is one employee day: regular hours and overtime hours.
type Attendance struct {
	ID            string
	EmployeeID    string
	CompanyID     string
	Date          time.Time
	Hours         decimal.Decimal
	OvertimeHours decimal.Decimal
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Worked reports whether any hours were logged on the day.
func (a Attendance) Worked() bool {
	return a.Hours.IsPositive() || a.OvertimeHours.IsPositive()
}
