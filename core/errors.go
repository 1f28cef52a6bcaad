package core

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return "invalid data"
	}
	return err.Err.Error()
}

// NotFoundError reports that the targeted row does not exist.
type NotFoundError struct {
	Entity string
}

func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

func (err NotFoundError) Error() string {
	return err.Entity + " not found"
}

// ConflictError reports a unique-constraint violation or a delete blocked by a reference.
type ConflictError struct {
	Err        error
	Constraint string
}

func NewConflictError(err error, constraint string) error {
	return &ConflictError{Err: err, Constraint: constraint}
}

func (err ConflictError) Error() string {
	if err.Err == nil {
		return fmt.Sprintf("conflict on %s", err.Constraint)
	}
	return err.Err.Error()
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

func IsConflict(err error) bool {
	_, ok := errors.Cause(err).(*ConflictError)
	return ok
}

func IsValidation(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

// ThrottledError reports a login key locked after too many failed attempts.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (err ThrottledError) Error() string {
	return fmt.Sprintf("too many failed attempts, retry in %s", err.RetryAfter.Round(time.Second))
}

func IsThrottled(err error) bool {
	_, ok := errors.Cause(err).(*ThrottledError)
	return ok
}
