package udt

import (
	"fmt"

	"github.com/actiontech/udt/driver/oracle/oci"
	"github.com/pkg/errors"
)

type ErrorCode int

const (
	ErrCodeInvalidHandle     ErrorCode = 1002
	ErrCodeUnknownOracleType ErrorCode = 1007
	ErrCodeArraySizeTooSmall ErrorCode = 1016
	ErrCodeNullPointer       ErrorCode = 1046
	ErrCodeWrongAttrType     ErrorCode = 1061
	ErrCodeOCI               ErrorCode = 1062
)

var errorMessages = map[ErrorCode]string{
	ErrCodeInvalidHandle:     "invalid %s handle",
	ErrCodeUnknownOracleType: "unknown or unsupported data type %d (charset form %d)",
	ErrCodeArraySizeTooSmall: "array size of %d is too small",
	ErrCodeNullPointer:       "parameter %s cannot be a NULL pointer",
	ErrCodeWrongAttrType:     "attribute %s has unexpected value type %T",
	ErrCodeOCI:               "%s",
}

// Error is returned by every operation of this package.
type Error struct {
	Code ErrorCode
	// ORACode is set when the failure was reported by the metadata provider.
	ORACode int
	FnName  string
	Action  string
	Message string

	cause error
}

func (e *Error) Error() string {
	if e.Code == ErrCodeOCI {
		return e.Message
	}
	return fmt.Sprintf("DPI-%04d: %s", int(e.Code), e.Message)
}

func (e *Error) Cause() error { return e.cause }

func (e *Error) Unwrap() error { return e.cause }

func newError(action string, code ErrorCode, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Action:  action,
		Message: fmt.Sprintf(errorMessages[code], args...),
	}
}

func ociError(action string, err error) *Error {
	return &Error{
		Code:    ErrCodeOCI,
		ORACode: oci.CodeOf(err),
		Action:  action,
		Message: err.Error(),
		cause:   err,
	}
}

// IsCode reports whether err is an *Error carrying code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
