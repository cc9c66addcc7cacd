package client

import (
	"errors"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   ErrorClass
	}{
		{name: "not found", statusCode: 404, expected: ErrorClassClient},
		{name: "forbidden", statusCode: 403, expected: ErrorClassClient},
		{name: "too many requests", statusCode: 429, expected: ErrorClassClient},
		{name: "server error", statusCode: 500, expected: ErrorClassServer},
		{name: "bad gateway", statusCode: 502, expected: ErrorClassServer},
		{name: "redirect", statusCode: 302, expected: ErrorClassUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyStatus(tt.statusCode); got != tt.expected {
				t.Errorf("classifyStatus(%d) = %q, want %q", tt.statusCode, got, tt.expected)
			}
		})
	}
}

func TestStatusError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *StatusError
		expected string
	}{
		{
			name: "error with wrapped error",
			err: &StatusError{
				StatusCode: 0,
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        errors.New("connection refused"),
			},
			expected: "network error (status 0): request failed: connection refused",
		},
		{
			name: "error without wrapped error",
			err: &StatusError{
				StatusCode: 404,
				ErrorClass: ErrorClassClient,
				Message:    "404 Not Found",
			},
			expected: "client error (status 404): 404 Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStatusError_Unwrap(t *testing.T) {
	inner := errors.New("inner error")
	err := &StatusError{
		StatusCode: 500,
		ErrorClass: ErrorClassServer,
		Message:    "500 Internal Server Error",
		Err:        inner,
	}

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find wrapped error")
	}

	var statusErr *StatusError
	if !errors.As(error(err), &statusErr) {
		t.Error("errors.As should match *StatusError")
	}
}
