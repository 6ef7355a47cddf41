package domain

import (
	"fmt"
	"net/http"
)

// Error is a request-level failure carrying the HTTP status it maps to.
// Validation failures are never retried internally; the caller fixes the
// request and resubmits.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewBadRequest builds a 400 error for a structural, ownership or
// ordering violation in caller-supplied data.
func NewBadRequest(code, message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Message: message}
}

// NewNotFound builds a 404 error for a missing referenced entity.
func NewNotFound(resource, id string) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Code:    resource + "_not_found",
		Message: fmt.Sprintf("can not find %s having ID %q", resource, id),
	}
}

// NewUnauthorized builds a 401 error.
func NewUnauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "unauthorized", Message: message}
}
