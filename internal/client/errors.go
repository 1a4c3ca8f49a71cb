package client

import "fmt"

// APIError is a backend-reported failure: a non-2xx response carrying an
// error field. Message is surfaced to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// TransportError means the request could not be sent or no response was
// received. Callers surface a generic connectivity message instead of
// the underlying detail.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError means the backend answered 2xx but the body did not parse
// into the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unexpected response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UserMessage maps any client error to the string shown in an alert:
// backend messages verbatim, everything else a generic connectivity line.
func UserMessage(err error) string {
	if apiErr, ok := err.(*APIError); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Network error. Please check your connection and try again."
}
