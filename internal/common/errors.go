package common

import "errors"

type Code string

const (
	CodeValidation   Code = "validation"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeInvalidState Code = "invalid_state"
	CodeRateLimited  Code = "rate_limited"
	CodeInternal     Code = "internal"
)

// Error is the coded error carried across service and repository boundaries.
// Fields is only populated for validation errors.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	cause   error
}

func NewError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func NewValidationError(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}

// CodeOf returns the code of err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}
