package domain

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is against the typed errors below.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrIOFailure  = errors.New("audit i/o failure")
)

// NotFoundKind names what a lookup failed to find.
type NotFoundKind string

const (
	KindOrder   NotFoundKind = "order"
	KindState   NotFoundKind = "state"
	KindProduct NotFoundKind = "product"
	KindDate    NotFoundKind = "date"
)

// NotFoundError is an expected, recoverable miss.
type NotFoundError struct {
	Kind NotFoundKind
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// OrderNotFound reports a missing (date, orderNumber) pair.
func OrderNotFound(date OrderDate, number int) *NotFoundError {
	return &NotFoundError{Kind: KindOrder, Key: fmt.Sprintf("%d on %s", number, date)}
}

// ValidationError reports a value that violates a domain rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// PricingError wraps the lookup miss that stopped a price computation.
type PricingError struct {
	Cause *NotFoundError
}

func (e *PricingError) Error() string {
	if e.Cause == nil {
		return "pricing failed"
	}
	return fmt.Sprintf("pricing failed: %v", e.Cause)
}

func (e *PricingError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// Kind returns which lookup failed (KindState or KindProduct), or "" when
// no cause was recorded.
func (e *PricingError) Kind() NotFoundKind {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Kind
}

// IOFailure reports an audit file operation that could not complete. It
// signals that the in-memory and on-disk stores may have diverged.
type IOFailure struct {
	Op   string
	Path string
	Err  error
}

func (e *IOFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOFailure) Unwrap() error { return e.Err }

func (e *IOFailure) Is(target error) bool { return target == ErrIOFailure }
