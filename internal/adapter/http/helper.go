package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"propvest-backend/internal/domain/rental"
	"propvest-backend/internal/domain/wallet"
)

// ---- helpers ----

// statusFor maps domain sentinel errors to HTTP status codes. Unknown errors
// come back as 500 so bugs are never mistaken for client faults.
func statusFor(err error) int {
	switch {
	case errors.Is(err, wallet.ErrNotFound), errors.Is(err, rental.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, rental.ErrDuplicatePeriod),
		errors.Is(err, rental.ErrDuplicateDistribution),
		errors.Is(err, rental.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrInvalidCurrency),
		errors.Is(err, wallet.ErrInvalidTarget),
		errors.Is(err, wallet.ErrMissingReference),
		errors.Is(err, rental.ErrInvalidExpense),
		errors.Is(err, rental.ErrInvalidMonth):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func domainError(c echo.Context, err error) error {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	return c.JSON(code, ErrorResponse{Error: msg})
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
