package compensation

import (
	"sort"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compensation"
	"github.com/shopspring/decimal"
)

const (
	moneyPlaces   = 2
	percentPlaces = 4
)

var (
	hundred = decimal.NewFromInt(100)
	cent    = decimal.New(1, -moneyPlaces)
)

// CalculateIncrement applies spec to current. It has no side effects.
//
// Both modes compute a total increase and split it across components in
// proportion to their current amounts, in whole cents. Percentage mode rounds
// the total increase to cents first; fixed mode distributes spec.Value
// exactly. No component ever decreases.
func CalculateIncrement(current compensation.Compensation, spec compensation.IncrementSpec) (compensation.IncrementResult, error) {
	for _, v := range []decimal.Decimal{current.Base, current.Food, current.Housing, current.Transport} {
		if v.IsNegative() {
			return compensation.IncrementResult{}, compensation.ErrNegativeComponent
		}
	}

	total := current.Total()
	var amount, pct decimal.Decimal

	switch spec.Mode {
	case compensation.IncrementModePercentage:
		if spec.Value.IsNegative() || spec.Value.GreaterThan(hundred) {
			return compensation.IncrementResult{}, compensation.ErrPercentageOutOfRange
		}
		amount = total.Mul(spec.Value).Div(hundred).Round(moneyPlaces)
		pct = spec.Value

	case compensation.IncrementModeFixed:
		if spec.Value.IsNegative() {
			return compensation.IncrementResult{}, compensation.ErrNegativeFixedValue
		}
		amount = spec.Value
		if total.IsZero() {
			pct = decimal.Zero
		} else {
			pct = spec.Value.Mul(hundred).DivRound(total, percentPlaces)
		}

	default:
		return compensation.IncrementResult{}, compensation.ErrInvalidIncrementMode
	}

	shares := allocate(amount, [4]decimal.Decimal{current.Base, current.Food, current.Housing, current.Transport})
	next := compensation.Compensation{
		Base:      current.Base.Add(shares[0]),
		Food:      current.Food.Add(shares[1]),
		Housing:   current.Housing.Add(shares[2]),
		Transport: current.Transport.Add(shares[3]),
	}

	newTotal := next.Total()
	return compensation.IncrementResult{
		Current:            current,
		New:                next,
		CurrentTotal:       total,
		NewTotal:           newTotal,
		IncreaseAmount:     newTotal.Sub(total),
		IncreasePercentage: pct,
	}, nil
}

// allocate splits a non-negative amount across weights in proportion to them.
// Each share is floored to cents; leftover cents go to the largest fractional
// remainders, earlier components first on ties. A sub-cent residue lands on the
// first of those. With zero weights the whole amount goes to the first slot.
func allocate(amount decimal.Decimal, weights [4]decimal.Decimal) [4]decimal.Decimal {
	var shares [4]decimal.Decimal
	total := weights[0].Add(weights[1]).Add(weights[2]).Add(weights[3])
	if total.IsZero() {
		shares[0] = amount
		return shares
	}

	var remainders [4]decimal.Decimal
	left := amount
	for i, w := range weights {
		exact := amount.Mul(w).Div(total)
		shares[i] = exact.RoundDown(moneyPlaces)
		remainders[i] = exact.Sub(shares[i])
		left = left.Sub(shares[i])
	}

	order := []int{0, 1, 2, 3}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})

	for k := 0; left.GreaterThanOrEqual(cent); k++ {
		i := order[k%len(order)]
		shares[i] = shares[i].Add(cent)
		left = left.Sub(cent)
	}
	if left.IsPositive() {
		shares[order[0]] = shares[order[0]].Add(left)
	}
	return shares
}
