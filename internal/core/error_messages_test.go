package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/pmis/internal/store"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "wrapped backend sentinel",
			err:         fmt.Errorf("sheets: %w: 503", store.ErrBackendUnavailable),
			wantCode:    "STO001",
			wantMessage: "The spreadsheet could not be reached",
		},
		{
			name:        "wrapped missing table sentinel",
			err:         fmt.Errorf("workbook: sheet %q: %w", "Tasks", store.ErrTableNotFound),
			wantCode:    "STO002",
			wantMessage: "The requested sheet does not exist",
		},
		{
			name:        "write failure wins over its backend cause",
			err:         fmt.Errorf("save Tasks: %w: %v", ErrWriteFailed, store.ErrBackendUnavailable),
			wantCode:    "STO003",
			wantMessage: "Your changes could not be saved",
		},
		{
			name:        "stale row",
			err:         fmt.Errorf("recommendation 1: %w", ErrStaleRow),
			wantCode:    "STO004",
			wantMessage: "This entry was changed after the page was loaded",
		},
		{
			name:        "invalid input",
			err:         fmt.Errorf("recommendation text is required: %w", ErrInvalidInput),
			wantCode:    "VAL001",
			wantMessage: "Some required information is missing or invalid",
		},
		{
			name:        "access denied",
			err:         ErrAccessDenied,
			wantCode:    "AUTH001",
			wantMessage: "The access code is not valid",
		},
		{
			name:        "pattern match on plain text",
			err:         errors.New("remote: BACKEND UNAVAILABLE"),
			wantCode:    "STO001",
			wantMessage: "The spreadsheet could not be reached",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrAccessDenied)

	expected := "The access code is not valid (Code: AUTH001). Check the code and try again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", store.ErrTableNotFound, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("sheets: %w", store.ErrBackendUnavailable)
		userErr := NewUserError(techErr)

		if userErr.Error() != "The spreadsheet could not be reached" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, store.ErrBackendUnavailable) {
			t.Error("Unwrap() should expose the original error chain")
		}
	})
}
