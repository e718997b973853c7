package core

// error_messages.go maps technical errors to notices shown inline in the
// dashboard. Users quote the code when reporting a problem.
//
// # Storage Errors (STO001-STO099)
//
//	STO001 - Backend unavailable: the spreadsheet could not be reached
//	         Action: Check the connection on the settings page and retry
//	         Sentinel: store.ErrBackendUnavailable
//
//	STO002 - Table missing: the sheet does not exist yet
//	         Action: Seed the workbook or add the sheet
//	         Sentinel: store.ErrTableNotFound
//
//	STO003 - Write failed: no backend accepted the change
//	         Action: Your edits were not saved; retry
//	         Sentinel: ErrWriteFailed
//
//	STO004 - Stale row: the row was changed elsewhere after the page loaded
//	         Action: Reload the data and apply the edit again
//	         Sentinel: ErrStaleRow
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid input: a required form value is missing or malformed
//	         Sentinel: ErrInvalidInput
//
// # Auth Errors (AUTH001-AUTH099)
//
//	AUTH001 - Wrong access code
//	          Sentinel: ErrAccessDenied
//
// Unmatched errors map to ERR000.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/pmis/internal/store"
)

// UserMessage is a user-friendly description of an error.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

type errorMapping struct {
	target  error
	pattern string
	msg     UserMessage
}

// Sentinels are checked first with errors.Is; patterns catch errors that
// crossed a process boundary as text.
var errorMappings = []errorMapping{
	{
		target:  ErrWriteFailed,
		pattern: "write failed",
		msg: UserMessage{
			Message: "Your changes could not be saved",
			Action:  "Please try again; the stored data was not changed",
			Code:    "STO003",
		},
	},
	{
		target:  ErrStaleRow,
		pattern: "row changed since it was loaded",
		msg: UserMessage{
			Message: "This entry was changed after the page was loaded",
			Action:  "Reload the data from the settings page and apply your edit again",
			Code:    "STO004",
		},
	},
	{
		target:  store.ErrTableNotFound,
		pattern: "table not found",
		msg: UserMessage{
			Message: "The requested sheet does not exist",
			Action:  "Seed the workbook or add the sheet to the spreadsheet",
			Code:    "STO002",
		},
	},
	{
		target:  store.ErrBackendUnavailable,
		pattern: "backend unavailable",
		msg: UserMessage{
			Message: "The spreadsheet could not be reached",
			Action:  "Check the connection on the settings page and try again",
			Code:    "STO001",
		},
	},
	{
		target:  ErrInvalidInput,
		pattern: "invalid input",
		msg: UserMessage{
			Message: "Some required information is missing or invalid",
			Action:  "Review the form and try again",
			Code:    "VAL001",
		},
	},
	{
		target:  ErrAccessDenied,
		pattern: "access code rejected",
		msg: UserMessage{
			Message: "The access code is not valid",
			Action:  "Check the code and try again",
			Code:    "AUTH001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for nil and ERR000 when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, m := range errorMappings {
		if strings.Contains(errStr, m.pattern) {
			return m.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific notice rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err, keeping it reachable through Unwrap.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
