// Package dracoon provides an OAuth2 session client for the DRACOON REST API:
// password, authorization code, and refresh token grants, an authenticated
// connection test, and access token revocation.
package dracoon

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the three failure kinds.
// Use errors.Is(err, dracoon.ErrRejected) to check.
var (
	ErrNotAuthenticated = errors.New("dracoon: not authenticated")
	ErrRejected         = errors.New("dracoon: request rejected")
	ErrTransport        = errors.New("dracoon: transport failure")
)

// ErrorResponse is the error payload returned by DRACOON. OAuth2 endpoints
// answer with error/error_description, the REST API with code/message/
// debugInfo/errorCode. All fields are optional so either shape decodes.
type ErrorResponse struct {
	Code             int    `json:"code,omitempty"`
	Message          string `json:"message,omitempty"`
	DebugInfo        string `json:"debugInfo,omitempty"`
	ErrorCode        int    `json:"errorCode,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// String renders the most specific message available.
func (r *ErrorResponse) String() string {
	if r == nil {
		return ""
	}

	var parts []string

	if r.Error != "" {
		parts = append(parts, r.Error)
	}

	if r.ErrorDescription != "" {
		parts = append(parts, r.ErrorDescription)
	}

	if r.Message != "" {
		parts = append(parts, r.Message)
	}

	if r.DebugInfo != "" {
		parts = append(parts, r.DebugInfo)
	}

	return strings.Join(parts, ": ")
}

// parseErrorResponse decodes an error body. Returns nil when the body is
// empty or not JSON; the raw text is still kept on AuthError.Body.
func parseErrorResponse(body []byte) *ErrorResponse {
	if len(body) == 0 {
		return nil
	}

	var r ErrorResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil
	}

	if r == (ErrorResponse{}) {
		return nil
	}

	return &r
}

// AuthError wraps a failure kind sentinel with the operation, the HTTP
// status (zero for transport failures), and the service's error payload.
type AuthError struct {
	Op         string
	StatusCode int
	Response   *ErrorResponse
	Body       string
	Kind       error // sentinel, for errors.Is()
	Err        error // underlying cause, may be nil
}

func (e *AuthError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Response != nil:
		return fmt.Sprintf("%s: %s: HTTP %d: %s", e.Kind, e.Op, e.StatusCode, e.Response)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s: HTTP %d: %s", e.Kind, e.Op, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
}

// Unwrap exposes both the kind and the cause, so errors.Is matches
// ErrTransport as well as context.Canceled on the same error.
func (e *AuthError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

func notAuthenticated(op string) *AuthError {
	return &AuthError{Op: op, Kind: ErrNotAuthenticated}
}

func transportError(op string, err error) *AuthError {
	return &AuthError{Op: op, Kind: ErrTransport, Err: err}
}

func rejectedError(op string, status int, body []byte) *AuthError {
	return &AuthError{
		Op:         op,
		StatusCode: status,
		Response:   parseErrorResponse(body),
		Body:       strings.TrimSpace(string(body)),
		Kind:       ErrRejected,
	}
}
