package rental

import "errors"

var (
	ErrNotFound              = errors.New("rental record not found")
	ErrDuplicatePeriod       = errors.New("rental period already exists for this asset and month")
	ErrDuplicateDistribution = errors.New("distribution already exists for this asset and month")
	ErrInvalidExpense        = errors.New("expense amounts must not be negative")
	ErrInvalidMonth          = errors.New("month must be between 1 and 12")
	ErrInvalidTransition     = errors.New("invalid state transition")
	ErrRoundingOverflow      = errors.New("allocation rounding remainder exceeds tolerance")
)
