package parser

import (
	"strings"

	"github.com/arkilian/tsddl/internal/ddl/ast"
)

// parsePartitions parses the optional
//
//	PARTITION BY RANGE COLUMNS (col, ...) (PARTITION name VALUES LESS THAN (v, ...), ...)
//
// clause. It returns nil when the clause is absent.
func (p *parser) parsePartitions() (*ast.Partitions, error) {
	if !p.consumeKeyword(kwPartition) {
		return nil, nil
	}
	if err := p.expectKeywords(kwBy, kwRange, kwColumns); err != nil {
		return nil, err
	}

	columns, err := parseCommaSeparated(p, (*parser).parseIdent)
	if err != nil {
		return nil, err
	}
	// Empty entry and bound lists parse; the validator rejects them.
	entries, err := parseOptionalCommaSeparated(p, (*parser).parsePartitionEntry)
	if err != nil {
		return nil, err
	}

	return &ast.Partitions{ColumnList: columns, Entries: entries}, nil
}

func (p *parser) parsePartitionEntry() (ast.PartitionEntry, error) {
	if err := p.expectKeyword(kwPartition); err != nil {
		return ast.PartitionEntry{}, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return ast.PartitionEntry{}, err
	}
	if err := p.expectKeywords(kwValues, LESS, THAN); err != nil {
		return ast.PartitionEntry{}, err
	}
	values, err := parseOptionalCommaSeparated(p, (*parser).parseBound)
	if err != nil {
		return ast.PartitionEntry{}, err
	}
	return ast.PartitionEntry{Name: name, ValueList: values}, nil
}

// parseBound parses one upper bound: MAXVALUE or a concrete literal.
func (p *parser) parseBound() (ast.Value, error) {
	if tok := p.peek(); tok.Kind == TokenWord && strings.EqualFold(tok.Text, kwMaxValue) {
		p.next()
		return ast.MaxValue(), nil
	}
	return p.parseValue()
}
