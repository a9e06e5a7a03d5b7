package httpx

import (
	"fmt"
	"net/http"
)

// Error codes surfaced on the wire.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeAccountLocked      = "account_locked"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeInvalidRefresh     = "invalid_refresh_token"
	ErrorCodeMFARequired        = "mfa_required"
	ErrorCodeMFAInvalidCode     = "mfa_invalid_code"
	ErrorCodeMFAAlreadyEnabled  = "mfa_already_enabled"
	ErrorCodeMFANotEnabled      = "mfa_not_enabled"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeConflict           = "conflict"
	ErrorCodeServerError        = "server_error"
)

// APIError is the uniform JSON error body returned by every endpoint.
// It implements the error interface so handlers can pass it around.
type APIError struct {
	// StatusCode is the HTTP status for this error.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code.
	Code string `json:"error"`

	// Description is a human-readable description of the error.
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	NoCache(w)
	WriteJSON(w, e.StatusCode, map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// WithDescription returns a copy of the error with a different description.
func (e *APIError) WithDescription(desc string) *APIError {
	clone := *e
	clone.Description = desc
	return &clone
}

// Predefined API errors.
var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid email or password",
	}

	ErrAccountLocked = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeAccountLocked,
		Description: "account is temporarily locked",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "invalid or missing access token",
	}

	ErrInvalidRefresh = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidRefresh,
		Description: "refresh token is invalid, expired, or revoked",
	}

	ErrMFAInvalidCode = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeMFAInvalidCode,
		Description: "invalid one-time code",
	}

	ErrMFAAlreadyEnabled = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeMFAAlreadyEnabled,
		Description: "multi-factor authentication is already enabled",
	}

	ErrMFANotEnabled = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeMFANotEnabled,
		Description: "multi-factor authentication is not enabled",
	}

	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "insufficient privileges for this resource",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "resource not found",
	}

	ErrConflict = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "resource already exists",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "an internal error occurred",
	}
)
