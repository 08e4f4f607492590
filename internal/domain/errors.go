package domain

import (
	"errors"
	"fmt"
)

// NotFoundError signals that a referenced entity does not exist.
// Callers recover locally; it is never fatal.
type NotFoundError struct {
	Kind string // "product", "category", "order"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// InsufficientStockError reports a rejected cart or checkout mutation.
// The store state is left unchanged when it is returned.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (requested %d, available %d)",
		e.ProductID, e.Requested, e.Available)
}

// ValidationError reports malformed input to a mutating operation.
// No partial record is created when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
