package booking

import (
	"errors"
	"fmt"
)

// Error codes for all recoverable booking failures. Every one is
// user-facing and surfaced as a structured result, never a panic.
const (
	CodeInvalidTimeFormat  = "INVALID_TIME_FORMAT"
	CodeDateOutOfWindow    = "DATE_OUT_OF_WINDOW"
	CodeInvalidSlotTime    = "INVALID_SLOT_TIME"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeDoctorUnavailable  = "DOCTOR_UNAVAILABLE"
	CodeSlotFull           = "SLOT_FULL"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotFound           = "NOT_FOUND"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
)

// Error is a structured booking failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message string) error {
	return &Error{Code: code, Message: message}
}

// HasCode reports whether err is a booking Error carrying the given code.
func HasCode(err error, code string) bool {
	var be *Error
	return errors.As(err, &be) && be.Code == code
}

// ErrCode extracts the code of a booking Error, or empty.
func ErrCode(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// storageError wraps a transient storage failure. The appointment id is
// the idempotency key a caller can retry with.
func storageError(op string, err error) error {
	return &Error{
		Code:    CodeStorageUnavailable,
		Message: fmt.Sprintf("%s: %v", op, err),
	}
}
