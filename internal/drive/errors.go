// Package drive provides an HTTP client for the Google Drive v3 API
// with structured error classification. The client never retries —
// retry policy belongs to the caller.
package drive

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for HTTP status code classification.
// Use errors.Is(err, drive.ErrNotFound) to check.
var (
	ErrBadRequest   = errors.New("drive: bad request")
	ErrUnauthorized = errors.New("drive: unauthorized")
	ErrForbidden    = errors.New("drive: forbidden")
	ErrNotFound     = errors.New("drive: not found")
	ErrConflict     = errors.New("drive: conflict")
	ErrThrottled    = errors.New("drive: rate limited")
	ErrServerError  = errors.New("drive: server error")
)

// Argument validation errors, returned before any network call.
var (
	ErrEmptyID      = errors.New("drive: empty file id")
	ErrEmptyName    = errors.New("drive: empty name")
	ErrEmptyContent = errors.New("drive: empty file content")
)

// DriveError wraps a sentinel error with the HTTP status code, the
// machine-readable reason from the first error detail, and the
// human-readable message from the API error body.
type DriveError struct {
	StatusCode int
	Reason     string
	Message    string
	Err        error // sentinel, for errors.Is()
}

func (e *DriveError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("drive: HTTP %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	}

	return fmt.Sprintf("drive: HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *DriveError) Unwrap() error {
	return e.Err
}

// apiErrorBody mirrors the Drive API error envelope:
//
//	{"error": {"code": 404, "message": "...", "errors": [{"reason": "notFound", ...}]}}
type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

// newDriveError builds a DriveError from a non-2xx response body.
// The body is parsed as the Drive error envelope so the service's own
// message surfaces; unparseable bodies fall back to the raw text with
// the method and path prepended so the failing call is identifiable.
func newDriveError(method, path string, status int, body []byte) *DriveError {
	de := &DriveError{
		StatusCode: status,
		Err:        classifyStatus(status),
	}

	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		de.Message = envelope.Error.Message
		if len(envelope.Error.Errors) > 0 {
			de.Reason = envelope.Error.Errors[0].Reason
		}

		return de
	}

	de.Message = fmt.Sprintf("%s %s: %s", method, path, http.StatusText(status))
	if len(body) > 0 {
		de.Message += ": " + string(body)
	}

	return de
}

// classifyStatus maps an HTTP status code to a sentinel error.
// Returns nil for 2xx success codes.
func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusTooManyRequests:
		return ErrThrottled
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return nil
	}
}
