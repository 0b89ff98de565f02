// Package domainerrors defines the error envelope shared by services and the
// HTTP transport. Services return coded errors; transport translates codes to
// status lines without inspecting messages.
package domainerrors

import "net/http"

// Code is a stable, machine-readable error class.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal"
)

// Error carries a code alongside a human-readable message. Messages are safe
// to return to clients; anything sensitive belongs in logs, not here.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// New builds a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// ToHTTPStatus maps an error code to its HTTP status line.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
