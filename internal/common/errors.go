// Package common defines the error taxonomy shared by the store, service and
// HTTP layers. Callers match with errors.Is against the kind sentinels.
package common

import "errors"

// Error kinds.
var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrStore              = errors.New("store error")
	ErrUpstream           = errors.New("upstream error")
)

// Specific outcomes of the credential and collection operations.
var (
	ErrDuplicateUsername  = New(ErrConflict, "username already exists")
	ErrDuplicateItem      = New(ErrConflict, "pose already in collection")
	ErrCollectionNotFound = New(ErrNotFound, "collection not found")
)

// kindError carries a user-facing message and unwraps to its kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// New returns an error with message msg that matches kind under errors.Is.
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Validation returns an ErrValidation error with the given message.
func Validation(msg string) error {
	return New(ErrValidation, msg)
}
