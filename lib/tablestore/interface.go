package tablestore

import (
	"fmt"

	"github.com/ValentinKolb/dTable/lib/table"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// ITableStore persists whole tables keyed by their id.
// Every returned table is a private copy: mutating it never changes the
// stored state until it is passed to Save.
type ITableStore interface {
	// Create allocates a fresh table id, stores an empty table under it and
	// returns that table.
	Create() (t table.Table, err error)
	// Load returns the table with the given id. The boolean return value
	// indicates whether the table was found.
	Load(id uint64) (t table.Table, loaded bool, err error)
	// Save overwrites the stored table with t. It fails with RetCConflict if the
	// stored version is not t.Version and with RetCNotFound if the table does
	// not exist. The returned table carries the new version.
	Save(t table.Table) (saved table.Table, err error)
	// Close releases all resources held by the store.
	Close() error
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("TableStoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// NewConflictError is returned by Save when the stored version moved on.
func NewConflictError(id, expected, actual uint64) *Error {
	return NewError(RetCConflict,
		fmt.Sprintf("table %d was modified concurrently (expected version %d, found %d)", id, expected, actual))
}

// NewNotFoundError is returned by Save for a table that does not exist.
func NewNotFoundError(id uint64) *Error {
	return NewError(RetCNotFound, fmt.Sprintf("table %d does not exist", id))
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess          RetCode = iota // 0: Command executed successfully.
	RetCInternalError                   // 1: Command failed due to an internal error.
	RetCInvalidOperation                // 2: Invalid operation.
	RetCNotFound                        // 3: The table does not exist.
	RetCConflict                        // 4: The table was saved by someone else in the meantime.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCNotFound:
		return "NotFound"
	case RetCConflict:
		return "Conflict"
	default:
		return "Unknown"
	}
}
