package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Reason
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name: "unique violation code",
			err:  fmt.Errorf("sp_CreateCountry: %w", &pgconn.PgError{Code: "23505", Message: "dup"}),
			want: ReasonDuplicate,
		},
		{
			name: "foreign key code",
			err:  &pgconn.PgError{Code: "23503"},
			want: ReasonReference,
		},
		{
			name: "no data found raised by procedure",
			err:  &pgconn.PgError{Code: "P0002", Message: "lineStation 3,12 does not exist"},
			want: ReasonNotFound,
		},
		{
			name: "check violation",
			err:  &pgconn.PgError{Code: "23514"},
			want: ReasonInput,
		},
		{
			name: "invalid key",
			err:  fmt.Errorf("%w: bad", ErrInvalidKey),
			want: ReasonInput,
		},
		{
			name: "invalid input",
			err:  fmt.Errorf("%w: bad", ErrInvalidInput),
			want: ReasonInput,
		},
		{
			name: "duplicate key message without code",
			err:  errors.New("ERROR: duplicate key value violates unique constraint"),
			want: ReasonDuplicate,
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp: connection refused"),
			want: ReasonOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorFlag(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	missing := &pgconn.PgError{Code: "P0002"}
	fk := &pgconn.PgError{Code: "23503"}

	tests := []struct {
		name string
		op   Op
		err  error
		want string
	}{
		{"duplicate create", OpCreate, dup, "duplicate-create"},
		{"duplicate update", OpUpdate, dup, "duplicate-update"},
		{"missing reference on create", OpCreate, fk, "create-failed"},
		{"update missing row", OpUpdate, missing, "update-failed"},
		{"delete missing row", OpDelete, missing, "delete-failed"},
		{"delete referenced row", OpDelete, fk, "delete-failed"},
		{"bad number", OpCreate, fmt.Errorf("%w: x", ErrInvalidInput), "invalid-input"},
		{"bad key", OpDelete, fmt.Errorf("%w: x", ErrInvalidKey), "invalid-input"},
		{"connection lost", OpUpdate, errors.New("conn closed"), "update-failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorFlag(tt.op, tt.err); got != tt.want {
				t.Errorf("ErrorFlag(%s, %v) = %q, want %q", tt.op, tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	if _, ok := ErrorMessage(""); ok {
		t.Error("empty flag should produce no banner")
	}

	msg, ok := ErrorMessage("duplicate-create")
	if !ok || msg.Code != "duplicate-create" {
		t.Errorf("ErrorMessage(duplicate-create) = %+v, %v", msg, ok)
	}

	// Older spelling used by the mapping pages.
	msg, ok = ErrorMessage("duplicate")
	if !ok || msg.Code != "duplicate-create" {
		t.Errorf("ErrorMessage(duplicate) = %+v, %v", msg, ok)
	}

	msg, ok = ErrorMessage("<script>alert(1)</script>")
	if !ok {
		t.Fatal("unknown flag should still produce a banner")
	}
	if msg.Code != "ERR000" {
		t.Errorf("unknown flag code = %q, want ERR000", msg.Code)
	}
}

func TestSuccessMessage(t *testing.T) {
	for _, op := range Ops {
		if _, ok := SuccessMessage(SuccessFlag(op)); !ok {
			t.Errorf("no success message for %s", op)
		}
	}
	if _, ok := SuccessMessage("bogus"); ok {
		t.Error("unknown success flag should produce no banner")
	}
}
