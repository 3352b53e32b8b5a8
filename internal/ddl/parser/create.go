package parser

import (
	"github.com/arkilian/tsddl/internal/ddl/ast"
	"github.com/arkilian/tsddl/internal/errors"
	"github.com/arkilian/tsddl/internal/partition"
)

// parseStatement parses one statement starting at the cursor.
func (p *parser) parseStatement() (ast.Statement, error) {
	tok := p.next()
	if !isKeyword(tok, kwCreate) {
		p.prev()
		return nil, errors.Unsupported(p.sql, tok.String())
	}

	switch {
	case p.consumeKeyword(kwTable):
		return p.parseCreateTable()
	case p.consumeKeyword(kwDatabase):
		return p.parseCreateDatabase()
	default:
		return nil, errors.Unsupported(p.sql, p.peek().String())
	}
}

func (p *parser) parseCreateDatabase() (*ast.CreateDatabase, error) {
	name, err := p.parseObjectName()
	if err != nil {
		return nil, p.unexpected("a database name", err)
	}
	return &ast.CreateDatabase{Name: name}, nil
}

func (p *parser) parseCreateTable() (*ast.CreateTable, error) {
	ifNotExists := p.consumeKeywords(kwIf, kwNot, kwExists)

	name, err := p.parseObjectName()
	if err != nil {
		return nil, p.unexpected("a table name", err)
	}

	columns, constraints, err := p.parseColumns()
	if err != nil {
		return nil, err
	}

	partitions, err := p.parsePartitions()
	if err != nil {
		return nil, err
	}

	engine := ast.DefaultEngine
	if p.consumeKeyword(kwEngine) {
		if _, err := p.expectKind(TokenEq, "="); err != nil {
			return nil, err
		}
		id, err := p.parseIdent()
		if err != nil {
			return nil, p.unexpected("an engine name", err)
		}
		engine = id.Value
	}

	var options []ast.SQLOption
	if p.consumeKeyword(kwWith) {
		options, err = parseCommaSeparated(p, (*parser).parseSQLOption)
		if err != nil {
			return nil, err
		}
	}

	if err := partition.Validate(columns, partitions); err != nil {
		return nil, err
	}

	return &ast.CreateTable{
		IfNotExists: ifNotExists,
		Name:        name,
		Columns:     columns,
		Engine:      engine,
		Constraints: constraints,
		Options:     options,
		TableID:     0,
		Partitions:  partitions,
	}, nil
}

// parseSQLOption parses a single name = value entry of a WITH clause.
func (p *parser) parseSQLOption() (ast.SQLOption, error) {
	name, err := p.parseIdent()
	if err != nil {
		return ast.SQLOption{}, err
	}
	if _, err := p.expectKind(TokenEq, "="); err != nil {
		return ast.SQLOption{}, err
	}
	value, err := p.parseValue()
	if err != nil {
		return ast.SQLOption{}, err
	}
	return ast.SQLOption{Name: name, Value: value}, nil
}
