package compensation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Compensation is base salary plus the three fixed allowances.
type Compensation struct {
	Base      decimal.Decimal `json:"base"`
	Food      decimal.Decimal `json:"food"`
	Housing   decimal.Decimal `json:"housing"`
	Transport decimal.Decimal `json:"transport"`
}

func (c Compensation) Total() decimal.Decimal {
	return c.Base.Add(c.Food).Add(c.Housing).Add(c.Transport)
}

// Allowances is food + housing + transport.
func (c Compensation) Allowances() decimal.Decimal {
	return c.Food.Add(c.Housing).Add(c.Transport)
}

type IncrementMode string

const (
	IncrementModePercentage IncrementMode = "percentage"
	IncrementModeFixed      IncrementMode = "fixed"
)

type IncrementSpec struct {
	Mode  IncrementMode   `json:"mode"`
	Value decimal.Decimal `json:"value"`
}

type IncrementResult struct {
	Current            Compensation    `json:"current"`
	New                Compensation    `json:"new"`
	CurrentTotal       decimal.Decimal `json:"current_total"`
	NewTotal           decimal.Decimal `json:"new_total"`
	IncreaseAmount     decimal.Decimal `json:"increase_amount"`
	IncreasePercentage decimal.Decimal `json:"increase_percentage"`
}

// SalaryIncrement is an applied increment kept as history.
type SalaryIncrement struct {
	ID                 string
	EmployeeID         string
	CompanyID          string
	Mode               IncrementMode
	Value              decimal.Decimal
	Previous           Compensation
	New                Compensation
	IncreaseAmount     decimal.Decimal
	IncreasePercentage decimal.Decimal
	EffectiveDate      time.Time
	Reason             *string
	CreatedBy          *string
	CreatedAt          time.Time
}
