package paper

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateOrder reports an Add with an identity the book already holds.
	ErrDuplicateOrder = errors.New("duplicate order id")
	// ErrOrderNotFound reports a Remove for an identity the book does not hold.
	ErrOrderNotFound = errors.New("order not found")
	// ErrImmediateExecution reports a limit order that is already marketable
	// against the current mark. This is a strategy configuration mistake, not
	// an exchange rejection.
	ErrImmediateExecution = errors.New("limit order would execute immediately")
)

// InvariantViolationError indicates a defect in the margin model itself, such
// as account health escaping [0,1]. It is raised via panic and must never be
// treated as a recoverable business condition.
type InvariantViolationError struct {
	Invariant string
	Detail    string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s: %s", e.Invariant, e.Detail)
}
