package parser

import (
	"strings"

	"github.com/arkilian/tsddl/internal/ddl/ast"
	"github.com/arkilian/tsddl/internal/errors"
)

// Keywords this grammar adds on top of the base SQL keyword set. They are
// matched case-insensitively against word tokens.
const (
	LESS = "LESS"
	THAN = "THAN"
)

const (
	kwBy         = "BY"
	kwColumns    = "COLUMNS"
	kwComment    = "COMMENT"
	kwConstraint = "CONSTRAINT"
	kwCreate     = "CREATE"
	kwDatabase   = "DATABASE"
	kwDefault    = "DEFAULT"
	kwEngine     = "ENGINE"
	kwExists     = "EXISTS"
	kwFalse      = "FALSE"
	kwIf         = "IF"
	kwIndex      = "INDEX"
	kwKey        = "KEY"
	kwMaxValue   = ast.MaxValueLiteral
	kwNot        = "NOT"
	kwNull       = "NULL"
	kwPartition  = "PARTITION"
	kwPrecision  = "PRECISION"
	kwPrimary    = "PRIMARY"
	kwRange      = "RANGE"
	kwTable      = "TABLE"
	kwTime       = "TIME"
	kwTrue       = "TRUE"
	kwUnique     = "UNIQUE"
	kwUnsigned   = "UNSIGNED"
	kwValues     = "VALUES"
	kwWith       = "WITH"
)

// parser holds the per-call cursor over one input text.
type parser struct {
	sql     string
	dialect Dialect
	tokens  []Token
	index   int
}

func newParser(sql string, d Dialect) *parser {
	if d == nil {
		d = GenericDialect{}
	}
	return &parser{
		sql:     sql,
		dialect: d,
		tokens:  tokenize(sql, d),
	}
}

// peek returns the next token without consuming it.
func (p *parser) peek() Token {
	return p.peekNth(0)
}

// peekNth returns the token n positions ahead of the cursor.
func (p *parser) peekNth(n int) Token {
	if i := p.index + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

// next consumes and returns the next token. EOF is never consumed.
func (p *parser) next() Token {
	tok := p.peek()
	if p.index < len(p.tokens)-1 {
		p.index++
	}
	return tok
}

// prev moves the cursor back by one token.
func (p *parser) prev() {
	if p.index > 0 {
		p.index--
	}
}

func isKeyword(tok Token, kw string) bool {
	return tok.Kind == TokenWord && strings.EqualFold(tok.Text, kw)
}

// peekKeyword reports whether the next token is the keyword kw.
func (p *parser) peekKeyword(kw string) bool {
	return isKeyword(p.peek(), kw)
}

// consumeKind consumes the next token if it has the given kind.
func (p *parser) consumeKind(kind TokenKind) bool {
	if p.peek().Kind == kind {
		p.next()
		return true
	}
	return false
}

// consumeKeyword consumes the next token if it is the keyword kw.
func (p *parser) consumeKeyword(kw string) bool {
	if p.peekKeyword(kw) {
		p.next()
		return true
	}
	return false
}

// consumeKeywords consumes the keyword sequence only if all of it matches.
func (p *parser) consumeKeywords(kws ...string) bool {
	for i, kw := range kws {
		if !isKeyword(p.peekNth(i), kw) {
			return false
		}
	}
	p.index += len(kws)
	return true
}

// expectKind consumes a token of the given kind or fails with a syntax error
// describing what was expected.
func (p *parser) expectKind(kind TokenKind, expected string) (Token, error) {
	if p.peek().Kind == kind {
		return p.next(), nil
	}
	return Token{}, p.syntaxError(expected)
}

// expectKeyword consumes the keyword kw or fails with a syntax error.
func (p *parser) expectKeyword(kw string) error {
	if p.consumeKeyword(kw) {
		return nil
	}
	return p.syntaxError(kw)
}

// expectKeywords consumes each keyword in turn, failing on the first mismatch.
func (p *parser) expectKeywords(kws ...string) error {
	for _, kw := range kws {
		if err := p.expectKeyword(kw); err != nil {
			return err
		}
	}
	return nil
}

// syntaxError reports the next token as a mismatch against expected.
func (p *parser) syntaxError(expected string) error {
	return errors.Syntax(p.sql, &errors.ParserError{Expected: expected, Found: p.peek().String()})
}

// unexpected reports that a specific construct is missing at the cursor.
func (p *parser) unexpected(expected string, cause error) error {
	return errors.Unexpected(p.sql, expected, p.peek().String(), cause)
}

// parseIdent parses a bare or quoted identifier.
func (p *parser) parseIdent() (ast.Ident, error) {
	tok := p.peek()
	switch {
	case tok.Kind == TokenQuotedWord:
		p.next()
		return ast.Ident{Value: tok.Text, Quote: tok.Quote}, nil
	case tok.Kind == TokenWord && !p.dialect.IsReserved(strings.ToUpper(tok.Text)):
		p.next()
		return ast.NewIdent(tok.Text), nil
	default:
		return ast.Ident{}, p.syntaxError("identifier")
	}
}

// parseObjectName parses a possibly qualified name such as db.table.
func (p *parser) parseObjectName() (ast.ObjectName, error) {
	var name ast.ObjectName
	for {
		id, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		name = append(name, id)
		if !p.consumeKind(TokenPeriod) {
			return name, nil
		}
	}
}

// parseCommaSeparated parses a parenthesized, comma separated list of at
// least one item. A trailing comma before the closing paren is tolerated.
func parseCommaSeparated[T any](p *parser, parseItem func(*parser) (T, error)) ([]T, error) {
	if _, err := p.expectKind(TokenLParen, "("); err != nil {
		return nil, err
	}

	var items []T
	for {
		item, err := parseItem(p)
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		if !p.consumeKind(TokenComma) {
			break
		}
		if p.peek().Kind == TokenRParen {
			break
		}
	}

	if _, err := p.expectKind(TokenRParen, ")"); err != nil {
		return nil, err
	}
	return items, nil
}

// parseOptionalCommaSeparated is parseCommaSeparated that also accepts an
// empty list, returned as nil.
func parseOptionalCommaSeparated[T any](p *parser, parseItem func(*parser) (T, error)) ([]T, error) {
	if p.peek().Kind == TokenLParen && p.peekNth(1).Kind == TokenRParen {
		p.next()
		p.next()
		return nil, nil
	}
	return parseCommaSeparated(p, parseItem)
}

// parseValue parses a concrete literal: a possibly signed number, a single
// quoted string, TRUE, FALSE or NULL.
func (p *parser) parseValue() (ast.Value, error) {
	tok := p.peek()
	switch {
	case tok.Kind == TokenNumber:
		p.next()
		return ast.Number(tok.Text), nil
	case (tok.Kind == TokenMinus || tok.Kind == TokenPlus) && p.peekNth(1).Kind == TokenNumber:
		p.next()
		num := p.next()
		if tok.Kind == TokenMinus {
			return ast.Number("-" + num.Text), nil
		}
		return ast.Number(num.Text), nil
	case tok.Kind == TokenString:
		p.next()
		return ast.SingleQuotedString(tok.Text), nil
	case isKeyword(tok, kwTrue):
		p.next()
		return ast.Boolean(true), nil
	case isKeyword(tok, kwFalse):
		p.next()
		return ast.Boolean(false), nil
	case isKeyword(tok, kwNull):
		p.next()
		return ast.Null(), nil
	default:
		return ast.Value{}, p.syntaxError("a concrete value")
	}
}
