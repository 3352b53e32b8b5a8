// Package ast defines the syntax tree produced by the DDL parser. Nodes are
// plain values built once per parse call; every node renders back to SQL
// through String.
package ast

import (
	"fmt"
	"strings"
)

// DefaultEngine is the storage engine used when CREATE TABLE has no ENGINE clause.
const DefaultEngine = "mito"

// Statement represents a parsed DDL statement.
type Statement interface {
	statementNode()
	String() string
}

// Ident is an identifier, optionally quoted.
type Ident struct {
	Value string `json:"value"`
	// Quote is the opening quote character, 0 for bare identifiers.
	Quote rune `json:"quote,omitempty"`
}

// NewIdent returns an unquoted identifier.
func NewIdent(value string) Ident {
	return Ident{Value: value}
}

// String returns the SQL representation of the identifier.
func (i Ident) String() string {
	switch i.Quote {
	case 0:
		return i.Value
	case '[':
		return "[" + i.Value + "]"
	default:
		q := string(i.Quote)
		return q + strings.ReplaceAll(i.Value, q, q+q) + q
	}
}

// ObjectName is a possibly qualified name such as db.table.
type ObjectName []Ident

// String returns the dotted SQL representation of the name.
func (n ObjectName) String() string {
	parts := make([]string, len(n))
	for i, id := range n {
		parts[i] = id.String()
	}
	return strings.Join(parts, ".")
}

// DataType is a column type as written, e.g. INT, VARCHAR(255), TIMESTAMP.
type DataType struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

// IsTimestamp reports whether the type is TIMESTAMP, with or without precision.
func (d DataType) IsTimestamp() bool {
	return strings.EqualFold(d.Name, "TIMESTAMP")
}

// String returns the SQL representation of the data type.
func (d DataType) String() string {
	if len(d.Args) == 0 {
		return d.Name
	}
	return fmt.Sprintf("%s(%s)", d.Name, strings.Join(d.Args, ", "))
}

// ColumnDef defines a single column of a table.
type ColumnDef struct {
	Name     Ident          `json:"name"`
	DataType DataType       `json:"data_type"`
	Options  []ColumnOption `json:"options,omitempty"`
}

// String returns the SQL representation of the column definition.
func (c ColumnDef) String() string {
	var sb strings.Builder
	sb.WriteString(c.Name.String())
	sb.WriteString(" ")
	sb.WriteString(c.DataType.String())
	for _, opt := range c.Options {
		sb.WriteString(" ")
		sb.WriteString(opt.String())
	}
	return sb.String()
}

// IsNullable reports whether no NOT NULL option applies to the column.
func (c ColumnDef) IsNullable() bool {
	for _, opt := range c.Options {
		if opt.Kind == OptionNotNull {
			return false
		}
	}
	return true
}

// ColumnOptionKind enumerates inline column options.
type ColumnOptionKind int

const (
	OptionNull ColumnOptionKind = iota
	OptionNotNull
	OptionDefault
	OptionPrimaryKey
	OptionUnique
	OptionComment
)

// String returns the SQL keyword(s) of the option kind.
func (k ColumnOptionKind) String() string {
	switch k {
	case OptionNull:
		return "NULL"
	case OptionNotNull:
		return "NOT NULL"
	case OptionDefault:
		return "DEFAULT"
	case OptionPrimaryKey:
		return "PRIMARY KEY"
	case OptionUnique:
		return "UNIQUE"
	case OptionComment:
		return "COMMENT"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the kind by its keyword.
func (k ColumnOptionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ColumnOption is a single inline column option, optionally named with CONSTRAINT.
type ColumnOption struct {
	Name    *Ident           `json:"name,omitempty"`
	Kind    ColumnOptionKind `json:"kind"`
	Default *Expr            `json:"default,omitempty"`
	Comment string           `json:"comment,omitempty"`
}

// NotNull returns the unnamed NOT NULL option.
func NotNull() ColumnOption {
	return ColumnOption{Kind: OptionNotNull}
}

// String returns the SQL representation of the option.
func (o ColumnOption) String() string {
	var sb strings.Builder
	if o.Name != nil {
		sb.WriteString("CONSTRAINT ")
		sb.WriteString(o.Name.String())
		sb.WriteString(" ")
	}
	sb.WriteString(o.Kind.String())
	switch o.Kind {
	case OptionDefault:
		if o.Default != nil {
			sb.WriteString(" ")
			sb.WriteString(o.Default.String())
		}
	case OptionComment:
		sb.WriteString(" ")
		sb.WriteString(SingleQuotedString(o.Comment).String())
	}
	return sb.String()
}

// Expr is a column DEFAULT expression: either a literal or a function.
type Expr struct {
	Value    *Value    `json:"value,omitempty"`
	Function *Function `json:"function,omitempty"`
}

// String returns the SQL representation of the expression.
func (e *Expr) String() string {
	switch {
	case e.Value != nil:
		return e.Value.String()
	case e.Function != nil:
		return e.Function.String()
	default:
		return ""
	}
}

// Function is a niladic keyword (CURRENT_TIMESTAMP) or a call such as now().
type Function struct {
	Name ObjectName `json:"name"`
	Args []Value    `json:"args,omitempty"`
	// Call is true when the function was written with parentheses.
	Call bool `json:"call"`
}

// String returns the SQL representation of the function.
func (f *Function) String() string {
	if !f.Call {
		return f.Name.String()
	}
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.Name.String(), strings.Join(args, ", "))
}

// ValueKind enumerates literal kinds.
type ValueKind int

const (
	ValueNumber ValueKind = iota
	ValueSingleQuotedString
	ValueBoolean
	ValueNull
)

// String returns the name of the literal kind.
func (k ValueKind) String() string {
	switch k {
	case ValueNumber:
		return "number"
	case ValueSingleQuotedString:
		return "string"
	case ValueBoolean:
		return "boolean"
	case ValueNull:
		return "null"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by its name.
func (k ValueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// MaxValueLiteral is the spelling of the partition bound sentinel.
const MaxValueLiteral = "MAXVALUE"

// Value is a literal. Raw holds the source spelling for numbers, the unescaped
// text for strings and "true"/"false" for booleans.
type Value struct {
	Kind ValueKind `json:"kind"`
	Raw  string    `json:"raw"`
}

// Number returns a numeric literal.
func Number(raw string) Value {
	return Value{Kind: ValueNumber, Raw: raw}
}

// SingleQuotedString returns a string literal.
func SingleQuotedString(s string) Value {
	return Value{Kind: ValueSingleQuotedString, Raw: s}
}

// Boolean returns a boolean literal.
func Boolean(b bool) Value {
	if b {
		return Value{Kind: ValueBoolean, Raw: "true"}
	}
	return Value{Kind: ValueBoolean, Raw: "false"}
}

// Null returns the NULL literal.
func Null() Value {
	return Value{Kind: ValueNull}
}

// MaxValue returns the MAXVALUE partition bound. It is encoded as a number
// literal spelled MAXVALUE so catalog consumers see the familiar shape.
func MaxValue() Value {
	return Number(MaxValueLiteral)
}

// IsMaxValue reports whether v is the MAXVALUE sentinel.
func (v Value) IsMaxValue() bool {
	return v.Kind == ValueNumber && v.Raw == MaxValueLiteral
}

// String returns the SQL representation of the literal.
func (v Value) String() string {
	switch v.Kind {
	case ValueSingleQuotedString:
		return "'" + strings.ReplaceAll(v.Raw, "'", "''") + "'"
	case ValueBoolean:
		return strings.ToUpper(v.Raw)
	case ValueNull:
		return "NULL"
	default:
		return v.Raw
	}
}

// SQLOption is a key/value pair from a WITH (...) clause.
type SQLOption struct {
	Name  Ident `json:"name"`
	Value Value `json:"value"`
}

// String returns the SQL representation of the option.
func (o SQLOption) String() string {
	return fmt.Sprintf("%s = %s", o.Name.String(), o.Value.String())
}

// Partitions is a PARTITION BY RANGE COLUMNS clause. Entry order is the
// declared order and is the order in which bounds must increase.
type Partitions struct {
	ColumnList []Ident          `json:"column_list"`
	Entries    []PartitionEntry `json:"entries"`
}

// String returns the SQL representation of the partition clause.
func (p *Partitions) String() string {
	entries := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		entries[i] = e.String()
	}
	return fmt.Sprintf("PARTITION BY RANGE COLUMNS (%s) (%s)", joinIdents(p.ColumnList), strings.Join(entries, ", "))
}

// PartitionEntry is one named exclusive upper bound.
type PartitionEntry struct {
	Name      Ident   `json:"name"`
	ValueList []Value `json:"value_list"`
}

// String returns the SQL representation of the partition entry.
func (e PartitionEntry) String() string {
	values := make([]string, len(e.ValueList))
	for i, v := range e.ValueList {
		values[i] = v.String()
	}
	return fmt.Sprintf("PARTITION %s VALUES LESS THAN (%s)", e.Name.String(), strings.Join(values, ", "))
}

// CreateTable represents a CREATE TABLE statement.
type CreateTable struct {
	IfNotExists bool              `json:"if_not_exists"`
	Name        ObjectName        `json:"name"`
	Columns     []ColumnDef       `json:"columns"`
	Engine      string            `json:"engine"`
	Constraints []TableConstraint `json:"constraints"`
	Options     []SQLOption       `json:"options"`
	// TableID is always 0 here; the catalog assigns the real id.
	TableID    uint32      `json:"table_id"`
	Partitions *Partitions `json:"partitions,omitempty"`
}

func (c *CreateTable) statementNode() {}

// String returns the SQL representation of the CREATE TABLE statement.
func (c *CreateTable) String() string {
	var sb strings.Builder

	sb.WriteString("CREATE TABLE ")
	if c.IfNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(c.Name.String())

	items := make([]string, 0, len(c.Columns)+len(c.Constraints))
	for _, col := range c.Columns {
		items = append(items, col.String())
	}
	for _, tc := range c.Constraints {
		items = append(items, tc.String())
	}
	sb.WriteString(" (")
	sb.WriteString(strings.Join(items, ", "))
	sb.WriteString(")")

	if c.Partitions != nil {
		sb.WriteString(" ")
		sb.WriteString(c.Partitions.String())
	}

	sb.WriteString(" ENGINE=")
	sb.WriteString(c.Engine)

	if len(c.Options) > 0 {
		opts := make([]string, len(c.Options))
		for i, o := range c.Options {
			opts[i] = o.String()
		}
		sb.WriteString(" WITH (")
		sb.WriteString(strings.Join(opts, ", "))
		sb.WriteString(")")
	}

	return sb.String()
}

// TimeIndexColumn returns the column named by the first time index constraint.
func (c *CreateTable) TimeIndexColumn() (Ident, bool) {
	for _, tc := range c.Constraints {
		if ti, ok := tc.(*TimeIndex); ok {
			return ti.Column, true
		}
	}
	return Ident{}, false
}

// CreateDatabase represents a CREATE DATABASE statement.
type CreateDatabase struct {
	Name ObjectName `json:"name"`
}

func (c *CreateDatabase) statementNode() {}

// String returns the SQL representation of the CREATE DATABASE statement.
func (c *CreateDatabase) String() string {
	return "CREATE DATABASE " + c.Name.String()
}

// Tagged is the JSON envelope a statement is handed over in.
type Tagged struct {
	CreateTable    *CreateTable    `json:"create_table,omitempty"`
	CreateDatabase *CreateDatabase `json:"create_database,omitempty"`
}

// Tag wraps a statement in its JSON envelope.
func Tag(stmt Statement) Tagged {
	switch s := stmt.(type) {
	case *CreateTable:
		return Tagged{CreateTable: s}
	case *CreateDatabase:
		return Tagged{CreateDatabase: s}
	default:
		return Tagged{}
	}
}

func joinIdents(ids []Ident) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
