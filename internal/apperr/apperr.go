package apperr

import (
	"errors"
	"fmt"
)

// ValidationError rejects a single operation on bad input: under-age account,
// non-member assignee, missing field. Nothing is committed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func Validation(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// DuplicateError is the application-side face of a unique-constraint
// violation. The constraint itself is the source of truth; this type only
// carries the signal upward.
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	return "duplicate: " + e.Constraint
}

// ForbiddenError covers non-member access, non-author mutation, and the
// attempt to remove a project's author membership. Never downgraded to
// NotFound.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

func Forbidden(format string, args ...any) error {
	return &ForbiddenError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError means the target is absent at the scope requested.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// InternalError wraps storage or infrastructure failures, including an
// aborted erasure transaction.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

func Internal(op string, err error) error {
	return &InternalError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	var de *DuplicateError
	return errors.As(err, &ve) || errors.As(err, &de)
}

func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}

func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
