package compensation

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// IncrementRequest is the body of preview and apply calls.
type IncrementRequest struct {
	Mode          string          `json:"mode"`
	Value         decimal.Decimal `json:"value"`
	EffectiveDate string          `json:"effective_date,omitempty"`
	Reason        *string         `json:"reason,omitempty"`

	EmployeeID string `json:"-"`
}

func (r *IncrementRequest) Spec() IncrementSpec {
	return IncrementSpec{Mode: IncrementMode(r.Mode), Value: r.Value}
}

func (r *IncrementRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "invalid employee id")
	}
	validateSpec(&errs, r.Mode, r.Value)

	if r.EffectiveDate != "" {
		if _, ok := validator.IsValidDate(r.EffectiveDate); !ok {
			errs.Add("effective_date", "effective_date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

// EffectiveDateOr returns the parsed effective date, or fallback when unset.
func (r *IncrementRequest) EffectiveDateOr(fallback time.Time) time.Time {
	if d, ok := validator.IsValidDate(r.EffectiveDate); ok {
		return d
	}
	return fallback
}

// CalculateIncrementRequest carries the compensation inline; nothing is loaded or stored.
type CalculateIncrementRequest struct {
	Current Compensation    `json:"current"`
	Mode    string          `json:"mode"`
	Value   decimal.Decimal `json:"value"`
}

func (r *CalculateIncrementRequest) Validate() error {
	var errs validator.ValidationErrors

	components := map[string]decimal.Decimal{
		"current.base":      r.Current.Base,
		"current.food":      r.Current.Food,
		"current.housing":   r.Current.Housing,
		"current.transport": r.Current.Transport,
	}
	for _, field := range []string{"current.base", "current.food", "current.housing", "current.transport"} {
		if !validator.IsNonNegative(components[field]) {
			errs.Add(field, "must not be negative")
		}
	}
	validateSpec(&errs, r.Mode, r.Value)

	return errs.Err()
}

func validateSpec(errs *validator.ValidationErrors, mode string, value decimal.Decimal) {
	switch IncrementMode(mode) {
	case IncrementModePercentage:
		if !validator.IsBetween(value, decimal.Zero, hundred) {
			errs.Add("value", "percentage must be between 0 and 100")
		}
	case IncrementModeFixed:
		if !validator.IsNonNegative(value) {
			errs.Add("value", "fixed amount must not be negative")
		}
	case "":
		errs.Add("mode", "mode is required")
	default:
		errs.Add("mode", "mode must be percentage or fixed")
	}
}

type SalaryIncrementResponse struct {
	ID                 string          `json:"id"`
	EmployeeID         string          `json:"employee_id"`
	Mode               string          `json:"mode"`
	Value              decimal.Decimal `json:"value"`
	Previous           Compensation    `json:"previous"`
	New                Compensation    `json:"new"`
	IncreaseAmount     decimal.Decimal `json:"increase_amount"`
	IncreasePercentage decimal.Decimal `json:"increase_percentage"`
	EffectiveDate      string          `json:"effective_date"`
	Reason             *string         `json:"reason,omitempty"`
	CreatedBy          *string         `json:"created_by,omitempty"`
	CreatedAt          string          `json:"created_at"`
}

func NewSalaryIncrementResponse(inc SalaryIncrement) SalaryIncrementResponse {
	return SalaryIncrementResponse{
		ID:                 inc.ID,
		EmployeeID:         inc.EmployeeID,
		Mode:               string(inc.Mode),
		Value:              inc.Value,
		Previous:           inc.Previous,
		New:                inc.New,
		IncreaseAmount:     inc.IncreaseAmount,
		IncreasePercentage: inc.IncreasePercentage,
		EffectiveDate:      inc.EffectiveDate.Format(validator.DateLayout),
		Reason:             inc.Reason,
		CreatedBy:          inc.CreatedBy,
		CreatedAt:          inc.CreatedAt.Format(time.RFC3339),
	}
}
