package core

// convert.go marshals form strings into procedure parameters and formats
// driver values back into display strings.
//
// Empty optional fields become invalid pgtype values (SQL NULL), never "".
// Required numeric fields must parse; required text is passed through and
// left for the procedure's constraints to judge.

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// ToParam converts a raw form value into the parameter for spec.
func ToParam(spec FieldSpec, raw string) (any, error) {
	raw = strings.TrimSpace(raw)

	switch spec.Type {
	case FieldText, FieldEnum:
		if spec.Optional {
			return ToPgText(raw), nil
		}
		return raw, nil

	case FieldInt, FieldRef:
		if raw == "" {
			if spec.Optional {
				return pgtype.Int4{}, nil
			}
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, spec.Name)
		}
		i, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not a whole number", ErrInvalidInput, spec.Name, raw)
		}
		return pgtype.Int4{Int32: int32(i), Valid: true}, nil

	case FieldDecimal:
		if raw == "" {
			if spec.Optional {
				return pgtype.Float8{}, nil
			}
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, spec.Name)
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %s: %q is not a number", ErrInvalidInput, spec.Name, raw)
		}
		return pgtype.Float8{Float64: f, Valid: true}, nil

	default:
		return nil, fmt.Errorf("%w: %s has unsupported field type %d", ErrInvalidInput, spec.Name, spec.Type)
	}
}

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// FormatCell renders a value returned by rows.Values() for display.
// NULL renders as the empty string.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02")
	case pgtype.Numeric:
		return formatNumeric(x)
	case *pgtype.Numeric:
		if x == nil {
			return ""
		}
		return formatNumeric(*x)
	case pgtype.Text:
		return x.String
	case pgtype.Int4:
		if !x.Valid {
			return ""
		}
		return strconv.FormatInt(int64(x.Int32), 10)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func formatNumeric(n pgtype.Numeric) string {
	if !n.Valid {
		return ""
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Float64, 'f', -1, 64)
}
