package wallet

import "errors"

var (
	ErrNotFound          = errors.New("wallet account not found")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidCurrency   = errors.New("unsupported currency")
	ErrInvalidTarget     = errors.New("target must carry an account id or an owner/currency pair")
	ErrMissingReference  = errors.New("idempotency reference is required")
	ErrInsufficientFunds = errors.New("insufficient funds")
)
