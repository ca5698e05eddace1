package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/oyaguma3/scan4health-console/pkg/apperr"
)

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantExpired bool
		wantRemote  bool
	}{
		{"unauthorized", http.StatusUnauthorized, true, false},
		{"bad request", http.StatusBadRequest, false, true},
		{"not found", http.StatusNotFound, false, true},
		{"server error", http.StatusInternalServerError, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &APIError{StatusCode: tt.status})
			if got := errors.Is(err, apperr.ErrSessionExpired); got != tt.wantExpired {
				t.Errorf("Is(ErrSessionExpired) = %v, want %v", got, tt.wantExpired)
			}
			if got := errors.Is(err, apperr.ErrRemote); got != tt.wantRemote {
				t.Errorf("Is(ErrRemote) = %v, want %v", got, tt.wantRemote)
			}
			if errors.Is(err, apperr.ErrNetwork) {
				t.Error("APIError should not match ErrNetwork")
			}
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{StatusCode: 404, Method: "DELETE", Path: "/admin/tests/all"}
	want := "api error: DELETE /admin/tests/all: 404 Not Found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err.Message = "No tests to delete"
	want = "api error: DELETE /admin/tests/all: 404 No tests to delete"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !err.IsNotFound() || err.IsServerError() || err.IsUnauthorized() {
		t.Error("status predicates mismatch")
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &NetworkError{Cause: cause}

	if !errors.Is(err, apperr.ErrNetwork) {
		t.Error("NetworkError should match ErrNetwork")
	}
	if !errors.Is(err, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}
	if err.Error() != "network error: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestUserMessage(t *testing.T) {
	const fallback = "Error adding test"

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", apperr.NewValidationError("name", "Name is required"), "Name is required"},
		{"token missing", fmt.Errorf("login: %w", apperr.ErrTokenMissing), MsgTokenMissing},
		{"expired", &APIError{StatusCode: 401, Message: "jwt expired"}, MsgSessionExpired},
		{"server message", &APIError{StatusCode: 400, Message: "Duplicate test"}, "Duplicate test"},
		{"no server message", &APIError{StatusCode: 500}, fallback},
		{"circuit open", &NetworkError{Cause: ErrCircuitOpen}, MsgCircuitOpen},
		{"network", &NetworkError{Cause: errors.New("dial tcp")}, MsgNetwork},
		{"wrapped network", fmt.Errorf("list tests: %w", &NetworkError{Cause: errors.New("dial tcp")}), MsgNetwork},
		{"unknown", errors.New("boom"), fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err, fallback); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
