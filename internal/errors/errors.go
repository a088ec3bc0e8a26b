package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when no valid session backs a request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when an authenticated user lacks the required role.
	ErrForbidden = errors.New("admin privileges required")
	// ErrNotFound is returned when a car or snapshot does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidCredentials is returned on login failure. The same value covers
	// an unknown username and a wrong password so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUpstreamUnavailable is returned when an external API call fails or times out.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	// ErrUsernameTaken is returned when creating or renaming a user to an
	// active username that already exists.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrSelfDeletion is returned when an admin tries to delete their own account.
	ErrSelfDeletion = errors.New("cannot delete your own account")
)

// ErrorResponse represents a standardized error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors collapse
// to a generic 500; the caller decides whether detail may be exposed.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUpstreamUnavailable):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "UPSTREAM_UNAVAILABLE")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrSelfDeletion):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "SELF_DELETION")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
