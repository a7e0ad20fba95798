// Package errors provides the JSON error envelope shared by every restaurant service.
package errors

import (
	"fmt"
	"net/http"
)

// Problem describes a failed request. It renders as
// {"success": false, "message": ..., "error": ..., "errors": ...}.
type Problem struct {
	// Status is the HTTP status code for this occurrence.
	Status int `json:"-"`
	// Message is the short, human-readable summary returned to callers.
	Message string `json:"message"`
	// Detail carries the underlying error text, when there is one worth exposing.
	Detail string `json:"error,omitempty"`
	// Errors holds structured details such as field errors or unavailable items.
	Errors any `json:"errors,omitempty"`
}

// Error implements the error interface.
func (p Problem) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Message, p.Detail)
	}
	return p.Message
}

// WithMessage returns a copy with the given message.
func (p Problem) WithMessage(message string) Problem {
	p.Message = message
	return p
}

// WithDetail returns a copy with the given detail.
func (p Problem) WithDetail(detail string) Problem {
	p.Detail = detail
	return p
}

// WithErrors returns a copy carrying structured error details.
func (p Problem) WithErrors(details any) Problem {
	p.Errors = details
	return p
}

// Pre-defined problem templates for common scenarios.
var (
	ErrNotFound = Problem{
		Status:  http.StatusNotFound,
		Message: "Resource not found",
	}

	ErrValidation = Problem{
		Status:  http.StatusBadRequest,
		Message: "Validation error",
	}

	ErrBadRequest = Problem{
		Status:  http.StatusBadRequest,
		Message: "Bad request",
	}

	ErrConflict = Problem{
		Status:  http.StatusConflict,
		Message: "Conflict",
	}

	ErrInternal = Problem{
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
	}

	ErrUnauthorized = Problem{
		Status:  http.StatusUnauthorized,
		Message: "Unauthorized",
	}

	ErrServiceUnavailable = Problem{
		Status:  http.StatusServiceUnavailable,
		Message: "Service temporarily unavailable",
	}
)

// NewValidationProblem creates a validation error with field-level details.
func NewValidationProblem(fieldErrors map[string]string) Problem {
	return ErrValidation.WithErrors(fieldErrors)
}

// NewNotFoundProblem creates a not found error for a named resource, e.g. "Menu item not found".
func NewNotFoundProblem(resource string) Problem {
	return ErrNotFound.WithMessage(resource + " not found")
}

// NewInvalidIDProblem reports a malformed identifier path parameter.
func NewInvalidIDProblem(resource string) Problem {
	return ErrBadRequest.WithMessage(fmt.Sprintf("Invalid %s ID format", resource))
}
