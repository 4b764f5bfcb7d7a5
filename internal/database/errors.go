package database

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// Failure kinds returned by repositories. Expected, recoverable conditions
// come back as errors wrapping one of these sentinels — never as panics —
// so callers can branch with errors.Is and show the message as-is.
var (
	// ErrNotFound marks update/delete against an id that does not exist.
	// A plain read miss is not an error: Get returns (nil, nil).
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a rejected delete: the record is still referenced
	// by existing sessions. The message names the exact count.
	ErrConflict = errors.New("conflict")

	// ErrInvalid marks input rejected at the repository boundary.
	ErrInvalid = errors.New("invalid input")

	// ErrStorage marks an underlying transaction failure. The raw storage
	// error is logged at the repository boundary; callers get a generic
	// message.
	ErrStorage = errors.New("storage error")
)

// Error pairs a failure kind with a human-readable message suitable for
// direct presentation.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string { return e.message }

func (e *Error) Unwrap() error { return e.kind }

// NotFound builds an ErrNotFound failure.
func NotFound(message string) error {
	return &Error{kind: ErrNotFound, message: message}
}

// Conflict builds an ErrConflict failure.
func Conflict(message string) error {
	return &Error{kind: ErrConflict, message: message}
}

// Invalid builds an ErrInvalid failure.
func Invalid(message string) error {
	return &Error{kind: ErrInvalid, message: message}
}

// Storage builds an ErrStorage failure carrying a generic message.
func Storage(message string) error {
	return &Error{kind: ErrStorage, message: message}
}

// IsConstraintViolation reports whether err is a SQLite constraint failure,
// such as two writers racing to insert the same primary key.
func IsConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
