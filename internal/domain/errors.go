package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation     ErrorKind = "validation_failed"
	KindAuthentication ErrorKind = "authentication_required"
	KindForbidden      ErrorKind = "forbidden"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
	KindHTTP           ErrorKind = "http_error"
	KindNetwork        ErrorKind = "network_unavailable"
	KindMalformed      ErrorKind = "malformed_response"
)

// Error is the single failure type shared by local validation and remote calls.
// Status is the remote HTTP status when the failure came from the booking API.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return NewError(KindValidation, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return NewError(KindNotFound, format, args...)
}

func Malformed(format string, args ...any) *Error {
	return NewError(KindMalformed, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
