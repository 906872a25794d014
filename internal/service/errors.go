package service

import "errors"

// Domain errors; the handler layer maps them onto HTTP statuses.
var (
	// ErrInvalidCredentials is the single login failure for an unknown user,
	// an inactive user and a wrong password alike.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrInvalidToken covers every bearer token that does not resolve to an active user.
	ErrInvalidToken = errors.New("could not validate credentials")

	ErrUsernameTaken = errors.New("username already registered")
	ErrEmailTaken    = errors.New("email already registered")

	// ErrNotFound hides whether a task is missing or owned by someone else.
	ErrNotFound = errors.New("task not found")

	ErrValidation = errors.New("validation failed")
)

// ValidationError names the offending input field. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
