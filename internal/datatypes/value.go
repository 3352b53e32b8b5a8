package datatypes

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/exp/constraints"

	"github.com/arkilian/tsddl/internal/ddl/ast"
	"github.com/arkilian/tsddl/internal/errors"
)

// Layouts accepted for temporal string literals, tried in order.
var (
	dateLayouts     = []string{"2006-01-02"}
	dateTimeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}
	timestampLayout = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

// Value is a literal converted to a concrete column type.
//
// Integers and temporal types live in i (Date as days, DateTime as seconds
// and Timestamp as milliseconds since the Unix epoch), unsigned integers in
// u, floats in f and strings and binaries in s.
type Value struct {
	typ  ConcreteType
	null bool
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
}

// Type returns the concrete type of the value.
func (v Value) Type() ConcreteType {
	return v.typ
}

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool {
	return v.null
}

// String returns a debug representation of the value.
func (v Value) String() string {
	if v.null {
		return "NULL"
	}
	switch {
	case v.typ == TypeBoolean:
		return strconv.FormatBool(v.b)
	case v.typ.IsSigned():
		return strconv.FormatInt(v.i, 10)
	case v.typ.IsUnsigned():
		return strconv.FormatUint(v.u, 10)
	case v.typ.IsFloat():
		return strconv.FormatFloat(v.f, 'g', -1, v.typ.bitSize())
	case v.typ == TypeDate:
		return time.Unix(v.i*86400, 0).UTC().Format("2006-01-02")
	case v.typ == TypeDateTime:
		return time.Unix(v.i, 0).UTC().Format("2006-01-02 15:04:05")
	case v.typ == TypeTimestamp:
		return time.UnixMilli(v.i).UTC().Format(time.RFC3339Nano)
	default:
		return v.s
	}
}

// FromLiteral converts a SQL literal written for column into a value of type t.
func FromLiteral(column string, t ConcreteType, lit ast.Value) (Value, error) {
	if lit.Kind == ast.ValueNull {
		return Value{typ: t, null: true}, nil
	}

	switch lit.Kind {
	case ast.ValueNumber:
		return numberToValue(column, t, lit.Raw)
	case ast.ValueSingleQuotedString:
		return stringToValue(column, t, lit.Raw)
	case ast.ValueBoolean:
		if t != TypeBoolean {
			return Value{}, mismatch(column, t, lit)
		}
		b, err := strconv.ParseBool(lit.Raw)
		if err != nil {
			return Value{}, parseFailure(column, t, lit, err)
		}
		return Value{typ: t, b: b}, nil
	default:
		return Value{}, mismatch(column, t, lit)
	}
}

func numberToValue(column string, t ConcreteType, raw string) (Value, error) {
	lit := ast.Number(raw)
	switch {
	case t.IsSigned():
		n, err := strconv.ParseInt(raw, 10, t.bitSize())
		if err != nil {
			return Value{}, parseFailure(column, t, lit, err)
		}
		return Value{typ: t, i: n}, nil
	case t.IsUnsigned():
		n, err := strconv.ParseUint(raw, 10, t.bitSize())
		if err != nil {
			return Value{}, parseFailure(column, t, lit, err)
		}
		return Value{typ: t, u: n}, nil
	case t.IsFloat():
		f, err := strconv.ParseFloat(raw, t.bitSize())
		if err != nil || math.IsNaN(f) {
			return Value{}, parseFailure(column, t, lit, err)
		}
		return Value{typ: t, f: f}, nil
	case t == TypeDate, t == TypeDateTime, t == TypeTimestamp:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, parseFailure(column, t, lit, err)
		}
		return Value{typ: t, i: n}, nil
	default:
		return Value{}, mismatch(column, t, lit)
	}
}

func stringToValue(column string, t ConcreteType, s string) (Value, error) {
	lit := ast.SingleQuotedString(s)
	switch t {
	case TypeString, TypeBinary:
		return Value{typ: t, s: s}, nil
	case TypeDate:
		ts, err := parseTime(s, dateLayouts)
		if err != nil {
			return Value{}, parseFailure(column, t, lit, err)
		}
		return Value{typ: t, i: floorDiv(ts.Unix(), 86400)}, nil
	case TypeDateTime:
		ts, err := parseTime(s, dateTimeLayouts)
		if err != nil {
			return Value{}, parseFailure(column, t, lit, err)
		}
		return Value{typ: t, i: ts.Unix()}, nil
	case TypeTimestamp:
		ts, err := parseTime(s, timestampLayout)
		if err != nil {
			return Value{}, parseFailure(column, t, lit, err)
		}
		return Value{typ: t, i: ts.UnixMilli()}, nil
	default:
		return Value{}, mismatch(column, t, lit)
	}
}

func parseTime(s string, layouts []string) (time.Time, error) {
	var lastErr error
	for _, layout := range layouts {
		ts, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Compare orders two values of the same concrete type. NULL sorts before
// every non-NULL value. It returns -1, 0 or +1.
func Compare(a, b Value) (int, error) {
	if a.typ != b.typ {
		return 0, errors.NewInternalError(
			fmt.Sprintf("cannot compare %s with %s", a.typ, b.typ), nil)
	}
	switch {
	case a.null && b.null:
		return 0, nil
	case a.null:
		return -1, nil
	case b.null:
		return 1, nil
	}

	switch {
	case a.typ == TypeBoolean:
		return compareBool(a.b, b.b), nil
	case a.typ.IsUnsigned():
		return compareOrdered(a.u, b.u), nil
	case a.typ.IsFloat():
		return compareOrdered(a.f, b.f), nil
	case a.typ == TypeString:
		return compareOrdered(a.s, b.s), nil
	case a.typ == TypeBinary:
		return bytes.Compare([]byte(a.s), []byte(b.s)), nil
	default:
		// signed integers and temporal types
		return compareOrdered(a.i, b.i), nil
	}
}

func compareOrdered[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func mismatch(column string, t ConcreteType, lit ast.Value) error {
	return errors.NewValidationError(errors.CodeColumnTypeMismatch,
		fmt.Sprintf("Column %q expect type: %s, actual: %s value %s", column, t, lit.Kind, lit.String()))
}

func parseFailure(column string, t ConcreteType, lit ast.Value, cause error) error {
	e := errors.NewValidationError(errors.CodeColumnTypeMismatch,
		fmt.Sprintf("Failed to parse value %s of column %q as %s", lit.String(), column, t))
	e.Cause = cause
	return e
}
