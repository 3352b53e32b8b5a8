package parser

import (
	"fmt"
	"strings"
)

// Dialect describes the lexical variants a caller's SQL may use.
type Dialect interface {
	// Name returns the dialect name as used in configuration.
	Name() string
	// IsIdentifierQuote reports whether r opens a quoted identifier.
	IsIdentifierQuote(r rune) bool
	// IsReserved reports whether an upper-cased word cannot be used as a
	// bare identifier.
	IsReserved(word string) bool
}

// reservedWords may only appear as identifiers when quoted.
var reservedWords = map[string]struct{}{
	"CREATE":     {},
	"TABLE":      {},
	"DATABASE":   {},
	"CONSTRAINT": {},
	"SELECT":     {},
	"INSERT":     {},
	"FROM":       {},
	"WHERE":      {},
}

// GenericDialect accepts ANSI double quoted identifiers.
type GenericDialect struct{}

// Name implements Dialect.
func (GenericDialect) Name() string { return "generic" }

// IsIdentifierQuote implements Dialect.
func (GenericDialect) IsIdentifierQuote(r rune) bool { return r == '"' }

// IsReserved implements Dialect.
func (GenericDialect) IsReserved(word string) bool {
	_, ok := reservedWords[word]
	return ok
}

// MySQLDialect additionally accepts backtick quoted identifiers.
type MySQLDialect struct{}

// Name implements Dialect.
func (MySQLDialect) Name() string { return "mysql" }

// IsIdentifierQuote implements Dialect.
func (MySQLDialect) IsIdentifierQuote(r rune) bool { return r == '"' || r == '`' }

// IsReserved implements Dialect.
func (MySQLDialect) IsReserved(word string) bool {
	_, ok := reservedWords[word]
	return ok
}

// DialectByName resolves a configured dialect name. An empty name selects
// the generic dialect.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "", "generic":
		return GenericDialect{}, nil
	case "mysql":
		return MySQLDialect{}, nil
	default:
		return nil, fmt.Errorf("unknown SQL dialect %q", name)
	}
}
