package compensation

import "errors"

var (
	ErrNegativeComponent    = errors.New("compensation components must not be negative")
	ErrInvalidIncrementMode = errors.New("increment mode must be percentage or fixed")
	ErrPercentageOutOfRange = errors.New("percentage increment must be between 0 and 100")
	ErrNegativeFixedValue   = errors.New("fixed increment must not be negative")
)
