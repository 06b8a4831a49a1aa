package repository

import (
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("api.repository")

var (
	// ErrNotFound is returned when a record is absent, belongs to someone
	// else, or is not in a state the operation applies to.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateUsername is returned when registering a taken username.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrPasswordTooLong is returned when a password exceeds bcrypt's
	// 72-byte input limit.
	ErrPasswordTooLong = errors.New("password longer than 72 bytes")
)

// sqliteConstraint is the primary SQLITE_CONSTRAINT result code; extended
// codes such as SQLITE_CONSTRAINT_UNIQUE share its low byte.
const sqliteConstraint = 19

func isConstraintViolation(err error) bool {
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		return coded.Code()&0xff == sqliteConstraint
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
