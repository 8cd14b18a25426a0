package service

import (
	"errors"
	"fmt"
)

// Failure kinds returned by the services. Match them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error is a domain failure carrying a human-readable message.
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

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func userNotFound(id int64) error {
	return newError(ErrNotFound, "user with id = %d not found", id)
}

func subscriptionNotFound(id int64) error {
	return newError(ErrNotFound, "subscription with id = %d not found", id)
}

func emailTaken(email string) error {
	return newError(ErrConflict, "email %s already exists", email)
}
