package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a rejection so callers can map it to a stable
// response code. Conflict and VoucherInvalid are expected user-facing
// outcomes; only StorageError should trigger caller-side retries.
type ErrorKind string

const (
	ErrInvalidInput    ErrorKind = "INVALID_INPUT"
	ErrNotFound        ErrorKind = "NOT_FOUND"
	ErrConflict        ErrorKind = "CONFLICT"
	ErrVoucherInvalid  ErrorKind = "VOUCHER_INVALID"
	ErrInvalidResource ErrorKind = "INVALID_RESOURCE"
	ErrStorage         ErrorKind = "STORAGE_ERROR"
	ErrUnauthorized    ErrorKind = "UNAUTHORIZED"
)

// Voucher rejection sub-reasons, surfaced for user messaging.
const (
	VoucherReasonNotFound     = "not-found"
	VoucherReasonExpired      = "expired"
	VoucherReasonNotYetActive = "not-yet-active"
	VoucherReasonExhausted    = "usage-exhausted"
	VoucherReasonBelowMinimum = "below-minimum"
)

type Error struct {
	Kind    ErrorKind
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func NewErrorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewVoucherError(reason, msg string) *Error {
	return &Error{Kind: ErrVoucherInvalid, Reason: reason, Message: msg}
}

func WrapStorage(err error, msg string) *Error {
	return &Error{Kind: ErrStorage, Message: msg, Err: err}
}

// KindOf extracts the error kind, defaulting to StorageError for
// unclassified errors so unknown failures stay retryable.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrStorage
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
