package apierror

import (
	"encoding/json"
	"net/http"
)

// Error represents a structured API error response.
// The wire shape is {"error": "<message>"}. The mobile clients surface the
// error field verbatim, so Message must be user-presentable.
type Error struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// ToJSON converts the error to JSON bytes in the wire shape.
func (e *Error) ToJSON() []byte {
	data, _ := json.Marshal(e)
	return data
}

// BadRequest creates a 400 Bad Request error.
func BadRequest(message string) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}

// Unauthorized creates a 401 Unauthorized error.
func Unauthorized(message string) *Error {
	if message == "" {
		message = "authentication required"
	}
	return &Error{
		StatusCode: http.StatusUnauthorized,
		Message:    message,
	}
}

// NotFound creates a 404 Not Found error.
func NotFound(message string) *Error {
	if message == "" {
		message = "resource not found"
	}
	return &Error{
		StatusCode: http.StatusNotFound,
		Message:    message,
	}
}

// Conflict creates a 409 Conflict error.
func Conflict(message string) *Error {
	return &Error{
		StatusCode: http.StatusConflict,
		Message:    message,
	}
}

// TooManyRequests creates a 429 Too Many Requests error.
func TooManyRequests(message string) *Error {
	return &Error{
		StatusCode: http.StatusTooManyRequests,
		Message:    message,
	}
}

// InternalError creates a 500 Internal Server Error.
func InternalError(message string) *Error {
	if message == "" {
		message = "an unexpected error occurred"
	}
	return &Error{
		StatusCode: http.StatusInternalServerError,
		Message:    message,
	}
}

// ServiceUnavailable creates a 503 Service Unavailable error.
func ServiceUnavailable(message string) *Error {
	if message == "" {
		message = "service temporarily unavailable"
	}
	return &Error{
		StatusCode: http.StatusServiceUnavailable,
		Message:    message,
	}
}
