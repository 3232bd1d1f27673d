// Package controller maps application errors to the HTTP error contract
// shared by every public endpoint.
package controller

import (
	"errors"
	"net/http"
)

const internalMessage = "Internal server error"

// AppError carries the status and client-facing message of a failed request.
// Cause is kept for logging and never rendered.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MapError maps err to a status code and response body. Errors that are not
// an *AppError, and AppErrors with a 5xx status, render the generic message.
func MapError(err error) (int, ErrorResponse) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, ErrorResponse{Message: internalMessage}
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError || appErr.Message == "" {
		return status, ErrorResponse{Message: internalMessage}
	}
	return status, ErrorResponse{Message: appErr.Message}
}

// NewValidationError creates a 400 error.
func NewValidationError(message string) *AppError {
	return &AppError{Code: "validation.failed", Message: message, HTTPStatus: http.StatusBadRequest}
}

// NewNotFoundError creates a 404 error.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: "resource.not_found", Message: message, HTTPStatus: http.StatusNotFound}
}

// NewInternalError creates a 500 error wrapping cause.
func NewInternalError(message string, cause error) *AppError {
	return &AppError{Code: "internal.error", Message: message, HTTPStatus: http.StatusInternalServerError, Cause: cause}
}

// WithHTTPStatus overrides the status code.
func (e *AppError) WithHTTPStatus(status int) *AppError {
	e.HTTPStatus = status
	return e
}
