package table

import (
	"errors"
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

// ErrCode classifies engine failures.
type ErrCode uint8

const (
	ErrCInternal        ErrCode = iota // 0: unexpected failure (store, codec, ...)
	ErrCNotFound                       // 1: table or column absent
	ErrCInvalidColumn                  // 2: row references unknown column ids
	ErrCIndexOutOfRange                // 3: row index outside current bounds
	ErrCColumnNotFound                 // 4: single value deletion on an unknown column
	ErrCValueNotFound                  // 5: single value deletion on an absent value
	ErrCBadRequest                     // 6: malformed input
	ErrCConflict                       // 7: concurrent modification detected at save time
)

// String returns the name of the code. It is also used on the wire.
func (c ErrCode) String() string {
	switch c {
	case ErrCNotFound:
		return "NotFound"
	case ErrCInvalidColumn:
		return "InvalidColumn"
	case ErrCIndexOutOfRange:
		return "IndexOutOfRange"
	case ErrCColumnNotFound:
		return "ColumnNotFound"
	case ErrCValueNotFound:
		return "ValueNotFound"
	case ErrCBadRequest:
		return "BadRequest"
	case ErrCConflict:
		return "Conflict"
	default:
		return "Internal"
	}
}

// ParseErrCode is the inverse of ErrCode.String. Unknown names map to ErrCInternal.
func ParseErrCode(s string) ErrCode {
	for c := ErrCInternal; c <= ErrCConflict; c++ {
		if c.String() == s {
			return c
		}
	}
	return ErrCInternal
}

// --------------------------------------------------------------------------
// Error Type
// --------------------------------------------------------------------------

// Error is returned by every table and engine operation.
type Error struct {
	Code ErrCode
	Msg  string
	// InvalidIDs lists the offending keys of an ErrCInvalidColumn error.
	InvalidIDs []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrCode, format string, args ...any) *Error {
	return &Error{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// NewInvalidColumnError lists every unknown column id in its message.
func NewInvalidColumnError(ids []string) *Error {
	return &Error{
		Code:       ErrCInvalidColumn,
		Msg:        fmt.Sprintf("Invalid column IDs: %s", strings.Join(ids, ", ")),
		InvalidIDs: ids,
	}
}

// CodeOf returns the code of err, ErrCInternal if err is not an *Error.
func CodeOf(err error) ErrCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCInternal
}

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code ErrCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
