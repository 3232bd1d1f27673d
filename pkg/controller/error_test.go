package controller

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		want     string
	}{
		{
			name:     "error without cause",
			appError: NewNotFoundError("Product not found"),
			want:     "Product not found",
		},
		{
			name:     "error with cause",
			appError: NewInternalError("find products", errors.New("connection timeout")),
			want:     "find products: connection timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appError.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	appErr := NewInternalError("query failed", cause)

	if !errors.Is(appErr, cause) {
		t.Errorf("expected errors.Is to reach the cause")
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "validation error",
			err:         NewValidationError("Invalid service ID"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid service ID",
		},
		{
			name:        "not found error",
			err:         NewNotFoundError("Service not found"),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Service not found",
		},
		{
			name:        "validation error with overridden status",
			err:         NewValidationError("Invalid product id").WithHTTPStatus(http.StatusNotFound),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Invalid product id",
		},
		{
			name:        "internal error hides detail",
			err:         NewInternalError("find products", errors.New("socket closed")),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
		{
			name:        "wrapped app error",
			err:         fmt.Errorf("handler: %w", NewNotFoundError("Product not found")),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Product not found",
		},
		{
			name:        "plain error",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
		{
			name:        "app error without status",
			err:         &AppError{Message: "odd"},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapError(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
		})
	}
}
