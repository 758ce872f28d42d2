// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// Every failure a Client method can return falls into exactly one of four
// kinds: a credential missing before any network activity, a non-2xx server
// response, a 2xx response whose body is not the JSON we expect, or a
// transport-level failure. Callers branch with errors.Is / errors.As; there
// is no retry machinery here because a human re-triggers the action.

// ErrMissingCredential indicates a required API key is absent. It is raised
// client-side, before any request is built or sent.
var ErrMissingCredential = errors.New("required API key not configured")

// RequestError represents a non-2xx response from the backend. Message holds
// the server-provided error text when the body carried one.
type RequestError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed (HTTP %d)", e.Status)
}

// NotFound reports whether the failure was a 404.
func (e *RequestError) NotFound() bool { return e.Status == 404 }

// MalformedResponseError represents a 2xx response whose body could not be
// decoded as the expected JSON shape.
type MalformedResponseError struct {
	Err     error
	Snippet string
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("malformed response: %v (body starts %q)", e.Err, e.Snippet)
	}
	return fmt.Sprintf("malformed response: %v", e.Err)
}

// Unwrap returns the underlying decode error.
func (e *MalformedResponseError) Unwrap() error { return e.Err }

// NetworkError represents a transport-level failure before any response was
// received: connection refused, DNS failure, timeout.
type NetworkError struct {
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network unavailable: %v", e.Err)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error { return e.Err }

// =============================================================================
// CLASSIFICATION HELPERS
// =============================================================================

// IsMissingCredential reports whether err is a pre-flight credential failure.
func IsMissingCredential(err error) bool {
	return errors.Is(err, ErrMissingCredential)
}

// IsRequestFailed reports whether err is a non-2xx server response.
func IsRequestFailed(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

// IsMalformedResponse reports whether err is an undecodable 2xx body.
func IsMalformedResponse(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}

// IsNetworkUnavailable reports whether err is a transport failure.
func IsNetworkUnavailable(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// UserMessage flattens any client error into a single line suitable for the
// status bar.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsMissingCredential(err):
		return "API key missing - set it in Settings"
	case IsNetworkUnavailable(err):
		return "cannot reach the localrag server"
	default:
		var re *RequestError
		if errors.As(err, &re) && re.Message != "" {
			return re.Message
		}
		return err.Error()
	}
}
