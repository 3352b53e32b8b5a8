// Package datatypes maps SQL column types onto the concrete types the
// storage layer understands, and converts SQL literals into typed values
// that can be ordered the way the column orders them.
package datatypes

import (
	"fmt"
	"strings"

	"github.com/arkilian/tsddl/internal/ddl/ast"
	"github.com/arkilian/tsddl/internal/errors"
)

// ConcreteType is a column type as stored.
type ConcreteType int

const (
	TypeBoolean ConcreteType = iota
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUInt8
	TypeUInt16
	TypeUInt32
	TypeUInt64
	TypeFloat32
	TypeFloat64
	TypeString
	TypeBinary
	TypeDate
	TypeDateTime
	TypeTimestamp
)

var typeNames = map[ConcreteType]string{
	TypeBoolean:   "Boolean",
	TypeInt8:      "Int8",
	TypeInt16:     "Int16",
	TypeInt32:     "Int32",
	TypeInt64:     "Int64",
	TypeUInt8:     "UInt8",
	TypeUInt16:    "UInt16",
	TypeUInt32:    "UInt32",
	TypeUInt64:    "UInt64",
	TypeFloat32:   "Float32",
	TypeFloat64:   "Float64",
	TypeString:    "String",
	TypeBinary:    "Binary",
	TypeDate:      "Date",
	TypeDateTime:  "DateTime",
	TypeTimestamp: "TimestampMillisecond",
}

// String returns the type name.
func (t ConcreteType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// IsSigned reports whether the type is a signed integer.
func (t ConcreteType) IsSigned() bool {
	return t >= TypeInt8 && t <= TypeInt64
}

// IsUnsigned reports whether the type is an unsigned integer.
func (t ConcreteType) IsUnsigned() bool {
	return t >= TypeUInt8 && t <= TypeUInt64
}

// IsFloat reports whether the type is a floating point type.
func (t ConcreteType) IsFloat() bool {
	return t == TypeFloat32 || t == TypeFloat64
}

// bitSize returns the width of numeric types, 0 otherwise.
func (t ConcreteType) bitSize() int {
	switch t {
	case TypeInt8, TypeUInt8:
		return 8
	case TypeInt16, TypeUInt16:
		return 16
	case TypeInt32, TypeUInt32, TypeFloat32:
		return 32
	case TypeInt64, TypeUInt64, TypeFloat64:
		return 64
	default:
		return 0
	}
}

// sqlTypes maps upper-cased SQL type names to concrete types.
var sqlTypes = map[string]ConcreteType{
	"BOOLEAN": TypeBoolean,
	"BOOL":    TypeBoolean,

	"TINYINT":  TypeInt8,
	"INT8":     TypeInt8,
	"SMALLINT": TypeInt16,
	"INT16":    TypeInt16,
	"INT":      TypeInt32,
	"INTEGER":  TypeInt32,
	"INT32":    TypeInt32,
	"BIGINT":   TypeInt64,
	"INT64":    TypeInt64,

	"TINYINT UNSIGNED":  TypeUInt8,
	"UINT8":             TypeUInt8,
	"SMALLINT UNSIGNED": TypeUInt16,
	"UINT16":            TypeUInt16,
	"INT UNSIGNED":      TypeUInt32,
	"INTEGER UNSIGNED":  TypeUInt32,
	"UINT32":            TypeUInt32,
	"BIGINT UNSIGNED":   TypeUInt64,
	"UINT64":            TypeUInt64,

	"FLOAT":            TypeFloat32,
	"FLOAT32":          TypeFloat32,
	"REAL":             TypeFloat32,
	"DOUBLE":           TypeFloat64,
	"DOUBLE PRECISION": TypeFloat64,
	"FLOAT64":          TypeFloat64,

	"STRING":  TypeString,
	"TEXT":    TypeString,
	"VARCHAR": TypeString,
	"CHAR":    TypeString,

	"BLOB":      TypeBinary,
	"BINARY":    TypeBinary,
	"VARBINARY": TypeBinary,
	"BYTEA":     TypeBinary,

	"DATE":      TypeDate,
	"DATETIME":  TypeDateTime,
	"TIMESTAMP": TypeTimestamp,
}

// FromSQLType resolves the concrete type of a declared column type.
func FromSQLType(dt ast.DataType) (ConcreteType, error) {
	if t, ok := sqlTypes[strings.ToUpper(dt.Name)]; ok {
		return t, nil
	}
	return 0, errors.NewValidationError(errors.CodeUnsupportedDataType,
		fmt.Sprintf("Unsupported SQL data type: %s", dt.String()))
}
