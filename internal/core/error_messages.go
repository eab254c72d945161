package core

// # Error Codes Reference
//
// Every terminal import failure is shown to the user as a message, an action
// and a code they can quote when asking for help.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Invalid URL: The link is not a spreadsheet link
//	         Action: Copy the full link from the browser address bar
//	SRC002 - Unreachable: The spreadsheet could not be downloaded
//	         Action: Share the sheet as "anyone with the link" and retry
//	SRC003 - Unsupported format: The file type cannot be read
//	         Action: Upload an .xlsx, .xls, .csv or .txt file
//	SRC004 - No source: No spreadsheet link is configured
//	         Action: Set a link with "config set-url" or import a file
//
// # Header Errors (HDR001-HDR099)
//
//	HDR001 - Row out of range: The header row lies outside the sheet
//	HDR002 - Not found: No row in the first rows looks like a header
//
// # Mapping Errors (MAP001-MAP099)
//
//	MAP001 - Missing name: No column is mapped to the person's name
//	MAP002 - Invalid mapping: A column value is not a valid index or field
//
// # Extraction Errors (EXT001-EXT099)
//
//	EXT001 - Empty result: No row produced a record
//
// # Run, File and Store Errors
//
//	RUN001 - Import busy: Another import is still running
//	RUN002 - Import cancelled: The run was interrupted
//	RUN003 - Import timeout: The run took too long
//	FILE001 - File too large: File exceeds the size limit
//	STO001 - Store failure: Saved data could not be read or written
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the logs for the technical error.
//
// # Matching
//
// Sentinel errors are matched first with errors.Is, in table order. Errors
// that carry no sentinel (network failures from lower layers) fall back to
// case-insensitive substring patterns, first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/platesync/internal/sheet"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorKind struct {
	target error
	msg    UserMessage
}

// errorKinds is checked before errorPatterns. Wrapping errors such as
// ErrStore come before the kinds they may wrap.
var errorKinds = []errorKind{
	{ErrStore, UserMessage{
		Message: "Saved data could not be read or written",
		Action:  "Check the store settings and try again",
		Code:    "STO001",
	}},
	{sheet.ErrInvalidSourceURL, UserMessage{
		Message: "The link is not a spreadsheet link",
		Action:  "Copy the full link from the browser address bar",
		Code:    "SRC001",
	}},
	{sheet.ErrFileTooLarge, UserMessage{
		Message: "File exceeds the maximum size limit",
		Action:  "Remove unused sheets or rows and try again",
		Code:    "FILE001",
	}},
	{sheet.ErrSourceUnreachable, UserMessage{
		Message: "The spreadsheet could not be downloaded",
		Action:  "Share the sheet as \"anyone with the link\" and try again",
		Code:    "SRC002",
	}},
	{sheet.ErrUnsupportedFormat, UserMessage{
		Message: "This file type cannot be read",
		Action:  "Upload an .xlsx, .xls, .csv or .txt file",
		Code:    "SRC003",
	}},
	{ErrNoSource, UserMessage{
		Message: "No spreadsheet link is configured",
		Action:  "Set a link with \"config set-url\" or import a file",
		Code:    "SRC004",
	}},
	{sheet.ErrEmptySource, UserMessage{
		Message: "The file is empty",
		Action:  "Choose a file that contains data rows",
		Code:    "SRC004",
	}},
	{ErrHeaderRowOutOfRange, UserMessage{
		Message: "The header row lies outside the sheet",
		Action:  "Set the row number that holds the column titles",
		Code:    "HDR001",
	}},
	{ErrHeaderNotFound, UserMessage{
		Message: "No header row was found near the top of the sheet",
		Action:  "Set the header row number manually",
		Code:    "HDR002",
	}},
	{ErrMissingRequiredColumn, UserMessage{
		Message: "No column is mapped to the person's name",
		Action:  "Map the name field to a column and try again",
		Code:    "MAP001",
	}},
	{ErrInvalidMapping, UserMessage{
		Message: "A column mapping value is not valid",
		Action:  "Use a known field and a column number starting at 0",
		Code:    "MAP002",
	}},
	{ErrEmptyResultSet, UserMessage{
		Message: "No rows produced a record",
		Action:  "Check the header row and the name column mapping",
		Code:    "EXT001",
	}},
	{ErrImportInProgress, UserMessage{
		Message: "Another import is still running",
		Action:  "Wait for it to finish and try again",
		Code:    "RUN001",
	}},
	{context.Canceled, UserMessage{
		Message: "The import was cancelled",
		Action:  "Please try again",
		Code:    "RUN002",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "The import timed out",
		Action:  "Try a smaller sheet or check your connection",
		Code:    "RUN003",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages
// for errors that carry no sentinel.
var errorPatterns = []errorPattern{
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect",
			Action:  "Please try again in a few moments",
			Code:    "NET001",
		},
	},
	{
		pattern: "no such host",
		msg: UserMessage{
			Message: "The host could not be found",
			Action:  "Check your network connection",
			Code:    "NET002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try again later",
			Code:    "NET003",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Sentinel
// kinds are matched with errors.Is, then text patterns. If nothing matches,
// a generic fallback with code ERR000 is returned.
//
// Example:
//
//	_, err := imp.Run(ctx, cfg, src, core.RunOptions{})
//	msg := core.MapError(err)
//	// errors.Is(err, core.ErrHeaderNotFound) => msg.Code == "HDR002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	return NewUserError(err).Format()
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
// The original error is preserved for logging.
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

// Format renders the message as "Message (Code: XXX). Action".
// A nil UserError formats as "".
func (e *UserError) Format() string {
	if e == nil || e.User.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", e.User.Message, e.User.Code, e.User.Action)
}

// NewUserError maps err and wraps it. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
