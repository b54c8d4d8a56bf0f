package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrUpdateInFlight is matched by every InFlightError.
	ErrUpdateInFlight = errors.New("update already in flight")
)

// NotFoundError reports an operation referencing an unknown product id.
type NotFoundError struct {
	ProductID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product with id %s not found", e.ProductID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports input rejected before it reached the store.
type ValidationError struct {
	ProductID string
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.ProductID != "" {
		return fmt.Sprintf("invalid %s for product %s: %s", e.Field, e.ProductID, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InFlightError reports a mutation submitted while another one for the same
// product has not completed yet.
type InFlightError struct {
	ProductID string
}

func (e *InFlightError) Error() string {
	return fmt.Sprintf("an update for product %s is already in flight", e.ProductID)
}

func (e *InFlightError) Is(target error) bool { return target == ErrUpdateInFlight }

// ProductIDOf extracts the offending product id from a domain error, if any.
func ProductIDOf(err error) string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.ProductID
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.ProductID
	}
	var fe *InFlightError
	if errors.As(err, &fe) {
		return fe.ProductID
	}
	return ""
}
