package oci

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error codes used by the providers in this repository.
const (
	ErrObjectNotExist        = 4043  // ORA-04043
	ErrArgumentOutOfRange    = 21560 // ORA-21560
	ErrInvalidMemoryAddress  = 21710 // ORA-21710
	ErrIllegalAttributeValue = 24328 // ORA-24328
	ErrNoDescriptorPosition  = 24334 // ORA-24334
	ErrIllegalAttributeType  = 24315 // ORA-24315
)

// Error is a failure reported by a provider, shaped like a server error.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ORA-%05d: %s", e.Code, e.Message)
}

// NewError builds an Error with a formatted message.
func NewError(code int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the ORA code carried by err, or 0 if err does not wrap an
// *Error.
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
