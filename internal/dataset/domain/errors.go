package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCustomer = errors.New("unknown_customer")
	ErrNegativeAmount  = errors.New("negative_amount")
	ErrDateOrder       = errors.New("invalid_date_order")
	ErrMissingID       = errors.New("missing_id")
)

// ValidationError identifies a malformed input record. Calculators fail fast
// on these instead of emitting NaN or garbage rows.
type ValidationError struct {
	Entity string
	Record string
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %s: field %s: %v", e.Entity, e.Record, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// InvalidConfigurationError rejects an option set before any computation runs.
type InvalidConfigurationError struct {
	Option string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid_configuration: %s: %s", e.Option, e.Reason)
}
