package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNetwork         = errors.New("network error")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrServer          = errors.New("server error")
	ErrUnexpected      = errors.New("unexpected response")
	ErrNotImplemented  = errors.New("not implemented")
)

// Error is a failed API call. Status is 0 when no response was received.
type Error struct {
	Status  int
	Message string
	Kind    error
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Message returns the display message of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthenticated
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrValidation
	case status == http.StatusNotImplemented:
		return ErrNotImplemented
	case status >= 500:
		return ErrServer
	default:
		return ErrUnexpected
	}
}

func defaultMessage(status int) string {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return ErrUnauthenticated.Error()
	}
	return fmt.Sprintf("request failed with status %d", status)
}

func networkError(err error) *Error {
	return &Error{
		Message: fmt.Sprintf("network error: %v", err),
		Kind:    ErrNetwork,
		Err:     err,
	}
}

func notImplemented(operation string) *Error {
	return &Error{
		Message: operation + " is not implemented yet",
		Kind:    ErrNotImplemented,
	}
}
