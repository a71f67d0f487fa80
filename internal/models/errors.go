package models

import (
	"errors"
	"fmt"
)

// Error kinds shared by repositories, services and handlers.
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrConflict            = errors.New("conflict")
	ErrPaymentVerification = errors.New("payment verification failed")
	ErrGateway             = errors.New("payment gateway error")
)

// Error is a domain error with a client-facing message
//
// errors.Is matches it against its Kind, so handlers can pick a status code without
// parsing the message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError creates a domain error of the given kind
func NewError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Message returns the client-facing message of a domain error, or fallback for anything else
func Message(err error, fallback string) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return fallback
}

