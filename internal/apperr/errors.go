// Package apperr defines the typed outcomes the warehouse core returns to its
// callers. Every expected failure is one of the kinds below; anything else is
// wrapped as an opaque internal error so storage details never cross the
// service boundary.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindInvalidArgument
	KindInvalidStateTransition
	KindLotBlocked
	KindInternal
)

// Stable conflict codes exposed to clients.
const (
	CodeDuplicateCode           = "DuplicateCode"
	CodeDuplicateLotCode        = "DuplicateLotCode"
	CodeDuplicateSerialCode     = "DuplicateSerialCode"
	CodeLotInUse                = "LotInUse"
	CodeInsufficientStock       = "InsufficientStock"
	CodeReservationExceedsStock = "ReservationExceedsStock"
	CodeOverRelease             = "OverRelease"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(entity, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    "NotFound",
		Message: fmt.Sprintf("%s %q not found", entity, id),
	}
}

func Conflict(code, format string, args ...any) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func InvalidArgument(format string, args ...any) *Error {
	return &Error{
		Kind:    KindInvalidArgument,
		Code:    "InvalidArgument",
		Message: fmt.Sprintf(format, args...),
	}
}

func InvalidStateTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidStateTransition,
		Code:    "InvalidStateTransition",
		Message: fmt.Sprintf("serial status cannot change from %q to %q", from, to),
	}
}

func LotBlocked(lotID string) *Error {
	return &Error{
		Kind:    KindLotBlocked,
		Code:    "LotBlocked",
		Message: fmt.Sprintf("lot %q is blocked", lotID),
	}
}

func Internal(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Code:    "Internal",
		Message: "internal error",
		Err:     err,
	}
}

// KindOf classifies any error; non-taxonomy errors report KindUnknown so the
// caller treats them as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
