package parser

import (
	"strings"

	"github.com/arkilian/tsddl/internal/ddl/ast"
	"github.com/arkilian/tsddl/internal/errors"
)

// parseColumns parses a table body: column definitions interleaved with
// table constraints, enclosed in parentheses.
func (p *parser) parseColumns() ([]ast.ColumnDef, []ast.TableConstraint, error) {
	var (
		columns     []ast.ColumnDef
		constraints []ast.TableConstraint
	)

	if _, err := p.expectKind(TokenLParen, "("); err != nil {
		return nil, nil, err
	}
	if p.consumeKind(TokenRParen) {
		return columns, constraints, nil
	}

	for {
		constraint, err := p.parseOptionalTableConstraint()
		if err != nil {
			return nil, nil, err
		}

		switch {
		case constraint != nil:
			constraints = append(constraints, constraint)
		case p.peek().Kind == TokenWord || p.peek().Kind == TokenQuotedWord:
			column, timeIndex, err := p.parseColumn()
			if err != nil {
				return nil, nil, err
			}
			columns = append(columns, column)
			if timeIndex != nil {
				constraints = append(constraints, timeIndex)
			}
		default:
			return nil, nil, p.unexpected("column name or constraint definition", nil)
		}

		comma := p.consumeKind(TokenComma)
		if p.consumeKind(TokenRParen) {
			break
		}
		if !comma {
			return nil, nil, p.unexpected("',' or ')' after column definition", nil)
		}
	}

	return columns, constraints, nil
}

// parseColumn parses one column definition. A timestamp column that is not
// directly followed by a comma must carry the TIME INDEX shorthand: the column
// becomes NOT NULL and the matching constraint is returned alongside it.
func (p *parser) parseColumn() (ast.ColumnDef, *ast.TimeIndex, error) {
	column, err := p.parseColumnDef()
	if err != nil {
		return ast.ColumnDef{}, nil, err
	}

	if !column.DataType.IsTimestamp() || p.peek().Kind == TokenComma {
		return column, nil, nil
	}

	if !p.consumeKeywords(kwTime, kwIndex) {
		return ast.ColumnDef{}, nil, p.unexpected("TIME INDEX", nil)
	}
	column.Options = []ast.ColumnOption{ast.NotNull()}
	timeIndex := &ast.TimeIndex{Column: column.Name}

	if p.atItemEnd() {
		return column, timeIndex, nil
	}
	if err := p.expectKeywords(kwNot, kwNull); err != nil {
		return ast.ColumnDef{}, nil, err
	}
	return column, timeIndex, nil
}

// atItemEnd reports whether the cursor sits on the separator that ends a
// table body item.
func (p *parser) atItemEnd() bool {
	kind := p.peek().Kind
	return kind == TokenComma || kind == TokenRParen
}

func (p *parser) parseColumnDef() (ast.ColumnDef, error) {
	name, err := p.parseIdent()
	if err != nil {
		return ast.ColumnDef{}, err
	}
	dataType, err := p.parseDataType()
	if err != nil {
		return ast.ColumnDef{}, err
	}

	column := ast.ColumnDef{Name: name, DataType: dataType}
	for {
		opt, ok, err := p.parseOptionalColumnOption()
		if err != nil {
			return ast.ColumnDef{}, err
		}
		if !ok {
			return column, nil
		}
		column.Options = append(column.Options, opt)
	}
}

// parseDataType parses a type name with an optional second word such as
// UNSIGNED or PRECISION and optional parenthesized arguments.
func (p *parser) parseDataType() (ast.DataType, error) {
	tok := p.peek()
	if tok.Kind != TokenWord {
		return ast.DataType{}, p.syntaxError("a data type name")
	}
	p.next()

	dt := ast.DataType{Name: strings.ToUpper(tok.Text)}
	if p.peekKeyword(kwUnsigned) || (dt.Name == "DOUBLE" && p.peekKeyword(kwPrecision)) {
		dt.Name += " " + strings.ToUpper(p.next().Text)
	}

	if p.peek().Kind == TokenLParen {
		args, err := parseCommaSeparated(p, func(p *parser) (string, error) {
			num, err := p.expectKind(TokenNumber, "a type argument")
			return num.Text, err
		})
		if err != nil {
			return ast.DataType{}, err
		}
		dt.Args = args
	}
	return dt, nil
}

// parseOptionalColumnOption parses one inline option, reporting false when
// the cursor is not on an option.
func (p *parser) parseOptionalColumnOption() (ast.ColumnOption, bool, error) {
	var opt ast.ColumnOption
	if p.consumeKeyword(kwConstraint) {
		name, err := p.parseIdent()
		if err != nil {
			return opt, false, err
		}
		opt.Name = &name
	}

	switch {
	case p.consumeKeywords(kwNot, kwNull):
		opt.Kind = ast.OptionNotNull
	case p.consumeKeyword(kwNull):
		opt.Kind = ast.OptionNull
	case p.consumeKeyword(kwDefault):
		expr, err := p.parseDefaultExpr()
		if err != nil {
			return opt, false, err
		}
		opt.Kind = ast.OptionDefault
		opt.Default = expr
	case p.consumeKeywords(kwPrimary, kwKey):
		opt.Kind = ast.OptionPrimaryKey
	case p.consumeKeyword(kwUnique):
		opt.Kind = ast.OptionUnique
	case p.consumeKeyword(kwComment):
		tok, err := p.expectKind(TokenString, "a comment string")
		if err != nil {
			return opt, false, err
		}
		opt.Kind = ast.OptionComment
		opt.Comment = tok.Text
	default:
		if opt.Name != nil {
			return opt, false, p.syntaxError("NOT NULL, NULL, DEFAULT, PRIMARY KEY, UNIQUE or COMMENT")
		}
		return opt, false, nil
	}
	return opt, true, nil
}

// parseDefaultExpr parses a DEFAULT literal, a niladic keyword such as
// CURRENT_TIMESTAMP, or a call such as now().
func (p *parser) parseDefaultExpr() (*ast.Expr, error) {
	tok := p.peek()
	isLiteral := isKeyword(tok, kwNull) || isKeyword(tok, kwTrue) || isKeyword(tok, kwFalse)
	if tok.Kind != TokenWord || isLiteral {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Value: &v}, nil
	}

	name, err := p.parseObjectName()
	if err != nil {
		return nil, err
	}
	fn := &ast.Function{Name: name}
	if p.peek().Kind == TokenLParen {
		fn.Call = true
		args, err := parseOptionalCommaSeparated(p, (*parser).parseValue)
		if err != nil {
			return nil, err
		}
		fn.Args = args
	}
	return &ast.Expr{Function: fn}, nil
}

// parseOptionalTableConstraint parses PRIMARY KEY, UNIQUE or TIME INDEX
// table constraints, each optionally named with CONSTRAINT. It returns nil
// when the cursor is on a column definition instead.
func (p *parser) parseOptionalTableConstraint() (ast.TableConstraint, error) {
	var name *ast.Ident
	if p.consumeKeyword(kwConstraint) {
		id, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		name = &id
	}

	switch {
	case isKeyword(p.peek(), kwPrimary) && isKeyword(p.peekNth(1), kwKey):
		p.next()
		p.next()
		columns, err := parseCommaSeparated(p, (*parser).parseIdent)
		if err != nil {
			return nil, err
		}
		return &ast.Unique{Name: name, Columns: columns, IsPrimary: true}, nil

	case isKeyword(p.peek(), kwUnique) && (name != nil || p.peekNth(1).Kind == TokenLParen):
		p.next()
		columns, err := parseCommaSeparated(p, (*parser).parseIdent)
		if err != nil {
			return nil, err
		}
		return &ast.Unique{Name: name, Columns: columns}, nil

	case isKeyword(p.peek(), kwTime) && isKeyword(p.peekNth(1), kwIndex):
		p.next()
		p.next()
		if p.peek().Kind == TokenLParen && p.peekNth(1).Kind == TokenRParen {
			return nil, errors.InvalidTimeIndex(p.sql)
		}
		columns, err := parseCommaSeparated(p, (*parser).parseIdent)
		if err != nil {
			return nil, err
		}
		if len(columns) != 1 {
			return nil, errors.InvalidTimeIndex(p.sql)
		}
		return &ast.TimeIndex{Column: columns[0]}, nil

	default:
		if name != nil {
			return nil, p.syntaxError("PRIMARY, UNIQUE, TIME")
		}
		return nil, nil
	}
}
