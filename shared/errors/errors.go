// Package errors holds the error taxonomy surfaced by the forum services.
//
// Every typed error matches its sentinel through errors.Is, so callers can
// branch on the category without caring about the details:
//
//	if errors.Is(err, nferrors.ErrPermissionDenied) { ... }
package errors

import (
	"errors"
	"fmt"

	"github.com/nforum-dev/nforum/shared/domain"
)

var (
	ErrMissingRequiredField  = errors.New("missing required field")
	ErrInvalidIdentifier     = errors.New("invalid identifier")
	ErrInvalidValue          = errors.New("invalid value")
	ErrReferenceNotFound     = errors.New("reference not found")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrInternalInconsistency = errors.New("internal inconsistency")
)

// Check if err is instance of T for custom error types
func Is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredField, e.Field)
}

func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

type InvalidIdentifierError struct {
	Field string
	Value string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("%s: %s=%q", ErrInvalidIdentifier, e.Field, e.Value)
}

func (e *InvalidIdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}

// InvalidValueError is an enumerated field (topic state or type) holding a
// value outside its known set.
type InvalidValueError struct {
	Field string
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %s=%s", ErrInvalidValue, e.Field, e.Value)
}

func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

type ReferenceNotFoundError struct {
	Entity string
	Id     domain.Id
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrReferenceNotFound, e.Entity, e.Id)
}

func (e *ReferenceNotFoundError) Is(target error) bool {
	return target == ErrReferenceNotFound
}

// PermissionDeniedError names the attempted action and the acting user,
// which is nil when nobody is authenticated.
type PermissionDeniedError struct {
	Action string
	User   *domain.ForumUser
}

func (e *PermissionDeniedError) Error() string {
	if e.User == nil {
		return fmt.Sprintf("%s: %s (anonymous)", ErrPermissionDenied, e.Action)
	}
	return fmt.Sprintf("%s: %s (user %s)", ErrPermissionDenied, e.Action, e.User.Id)
}

func (e *PermissionDeniedError) Is(target error) bool {
	return target == ErrPermissionDenied
}

// InternalInconsistencyError means an entity that had to exist while
// assembling a read was missing. Not caller-correctable.
type InternalInconsistencyError struct {
	Entity string
	Id     domain.Id
	Reason string
}

func (e *InternalInconsistencyError) Error() string {
	return fmt.Sprintf("%s: %s %s: %s", ErrInternalInconsistency, e.Entity, e.Id, e.Reason)
}

func (e *InternalInconsistencyError) Is(target error) bool {
	return target == ErrInternalInconsistency
}
