// Package parser parses CREATE TABLE and CREATE DATABASE statements for the
// time-series catalog.
//
// On top of the base SQL grammar it understands the TIME INDEX column
// shorthand and table constraint, PARTITION BY RANGE COLUMNS clauses with
// MAXVALUE bounds, ENGINE selection and WITH options. Partition schemes are
// validated before a statement is returned, so callers receive either a
// fully valid statement or the first error found.
//
// Parsing holds no shared state; concurrent calls need no coordination.
package parser

import (
	"fmt"
	"unicode/utf8"

	"github.com/arkilian/tsddl/internal/ddl/ast"
	"github.com/arkilian/tsddl/internal/errors"
)

// Parse parses exactly one statement, optionally terminated by a semicolon.
// A nil dialect selects GenericDialect.
func Parse(sql string, d Dialect) (ast.Statement, error) {
	stmts, err := ParseStatements(sql, d)
	if err != nil {
		return nil, err
	}
	if len(stmts) != 1 {
		e := errors.New(errors.ErrCategorySyntax, errors.CodeUnexpectedToken,
			fmt.Sprintf("Expected exactly one statement, found %d", len(stmts)))
		e.SQL = sql
		return nil, e
	}
	return stmts[0], nil
}

// ParseStatements parses a semicolon separated sequence of statements.
// Empty statements are skipped. Parsing stops at the first error and no
// statements are returned in that case.
func ParseStatements(sql string, d Dialect) ([]ast.Statement, error) {
	if err := checkUTF8(sql); err != nil {
		return nil, err
	}
	p := newParser(sql, d)

	var stmts []ast.Statement
	for {
		for p.consumeKind(TokenSemicolon) {
		}
		if p.peek().Kind == TokenEOF {
			return stmts, nil
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		if p.peek().Kind != TokenEOF && !p.consumeKind(TokenSemicolon) {
			return nil, p.unexpected("end of statement", nil)
		}
	}
}

// ParseValue parses a single literal such as 42, -1.5, 'hz', TRUE or NULL.
// It is how partition keys are written outside a statement.
func ParseValue(text string, d Dialect) (ast.Value, error) {
	if err := checkUTF8(text); err != nil {
		return ast.Value{}, err
	}
	p := newParser(text, d)
	v, err := p.parseValue()
	if err != nil {
		return ast.Value{}, err
	}
	if p.peek().Kind != TokenEOF {
		return ast.Value{}, p.unexpected("end of value", nil)
	}
	return v, nil
}

// checkUTF8 rejects text the tokenizer would otherwise decode lossily.
func checkUTF8(text string) error {
	if utf8.ValidString(text) {
		return nil
	}
	return errors.Syntax(text, &errors.ParserError{Expected: "valid UTF-8 text", Found: "invalid byte sequence"})
}
