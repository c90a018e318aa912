package core

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUnknownEntity        = errors.New("unknown entity")
	ErrUnsupportedOperation = errors.New("operation not supported")
	ErrInvalidKey           = errors.New("invalid key")
	ErrInvalidInput         = errors.New("invalid input")
	ErrArity                = errors.New("argument count does not match procedure")
)

// Reason classifies a failed procedure call.
type Reason string

const (
	ReasonDuplicate Reason = "duplicate"
	ReasonReference Reason = "reference"
	ReasonNotFound  Reason = "not-found"
	ReasonInput     Reason = "input"
	ReasonOther     Reason = "other"
)

// SQLSTATE codes raised by the constraints and procedures.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateNotNullViolation    = "23502"
	sqlStateCheckViolation      = "23514"
	sqlStateStringTooLong       = "22001"
	sqlStateNumericOutOfRange   = "22003"
	sqlStateNoDataFound         = "P0002"
)

// reasonPatterns is the fallback for errors that carry no SQLSTATE.
// Matched case-insensitively; first match wins.
var reasonPatterns = []struct {
	pattern string
	reason  Reason
}{
	{"duplicate key", ReasonDuplicate},
	{"violates unique", ReasonDuplicate},
	{"unique constraint", ReasonDuplicate},
	{"foreign key", ReasonReference},
	{"not found", ReasonNotFound},
}

// Classify maps an error from the gateway or from form marshaling to a Reason.
func Classify(err error) Reason {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidKey) {
		return ReasonInput
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUniqueViolation:
			return ReasonDuplicate
		case sqlStateForeignKeyViolation:
			return ReasonReference
		case sqlStateNoDataFound:
			return ReasonNotFound
		case sqlStateNotNullViolation, sqlStateCheckViolation,
			sqlStateStringTooLong, sqlStateNumericOutOfRange:
			return ReasonInput
		}
	}

	msg := strings.ToLower(err.Error())
	for _, p := range reasonPatterns {
		if strings.Contains(msg, p.pattern) {
			return p.reason
		}
	}
	return ReasonOther
}
