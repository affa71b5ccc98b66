package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransport           = errors.New("backend unreachable")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("access forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrMalformedCredential = errors.New("malformed credential")
	ErrNotAuthenticated    = errors.New("not logged in")
	ErrInvalidInput        = errors.New("invalid input")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrSessionChanged      = errors.New("session changed while logging in")

	// Backend-side account errors.
	ErrUserExists         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Default user-facing messages used when the backend supplies none.
const (
	MsgLoginFailed        = "login failed"
	MsgLoginInterrupted   = "login interrupted by another session change"
	MsgRegistrationFailed = "registration failed"
	MsgRequestFailed      = "request failed"
)

// APIError is a request the backend answered with a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend error (%d): %s", e.Status, e.Message)
}

// Is maps status codes onto the sentinel errors so callers can use errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrInvalidInput:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	}
	return false
}

// OperationError carries a human-readable reason for a failed session
// operation alongside the underlying cause.
type OperationError struct {
	Op     string
	Reason string
	Err    error
}

func (e *OperationError) Error() string { return e.Reason }

func (e *OperationError) Unwrap() error { return e.Err }

// Reason extracts the message a user should see for err: the backend's own
// message when it sent one, fallback otherwise.
func Reason(err error, fallback string) string {
	var opErr *OperationError
	if errors.As(err, &opErr) && opErr.Reason != "" {
		return opErr.Reason
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
