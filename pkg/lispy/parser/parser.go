package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"git.brobridge.com/lispy/lispy/pkg/lispy/ast"
)

// Rule tags attached to syntax tree nodes.
const (
	NumberTag   = "expr|number|regex"
	OperatorTag = "operator|char"
	ExprTag     = "expr|>"
	CharTag     = "char"
	AnchorTag   = "regex"
)

const (
	expectedOperator = "'+', '-', '*' or '/'"
	expectedOpen     = "'('"
	expectedNumber   = "number"
	expectedClose    = "')'"
	expectedEnd      = "end of input"
)

// Grammar is the textual form of the language accepted by Parse.
const Grammar = `number   : /-?[0-9]+/ ;
operator : '+' | '-' | '*' | '/' ;
expr     : <number> | '(' <operator> <expr>+ ')' ;
lispy    : /^/ <operator> <expr>+ /$/ ;`

type ParseError struct {
	Filename string
	Row      int
	Col      int
	Expected []string
	Received string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: error: expected %s at %s",
		e.Filename,
		e.Row,
		e.Col,
		joinExpected(e.Expected),
		e.Received,
	)
}

func joinExpected(expected []string) string {

	switch len(expected) {
	case 0:
		return "nothing"
	case 1:
		return expected[0]
	}

	return strings.Join(expected[:len(expected)-1], ", ") + " or " + expected[len(expected)-1]
}

type Parser struct {
	filename string
	s        *scanner
}

func NewParser(filename string) *Parser {
	return &Parser{
		filename: filename,
	}
}

// Parse is a shortcut for NewParser(filename).Parse(input).
func Parse(filename string, input string) (ast.Node, error) {
	return NewParser(filename).Parse(input)
}

// Parse reads one complete operator application spanning the whole input.
func (p *Parser) Parse(input string) (ast.Node, error) {

	p.s = newScanner(input)

	root, err := p.parseLispy()
	if err != nil {
		return nil, err
	}

	return root, nil
}

func (p *Parser) fail(expected ...string) error {

	p.s.skipSpace()

	received := expectedEnd
	if !p.s.atEnd() {
		r, _ := utf8.DecodeRuneInString(p.s.rest())
		received = fmt.Sprintf("'%c'", r)
	}

	return &ParseError{
		Filename: p.filename,
		Row:      p.s.pos.Row,
		Col:      p.s.pos.Col,
		Expected: expected,
		Received: received,
	}
}

func (p *Parser) parseLispy() (*ast.Tree, error) {

	start := p.s.pos
	children := []*ast.Tree{
		ast.NewLeaf(AnchorTag, "", start),
	}

	op, ok := p.s.operator()
	if !ok {
		return nil, p.fail(expectedOperator)
	}

	children = append(children, ast.NewLeaf(OperatorTag, op.Value, op.Pos))

	// At least one operand
	operands, err := p.parseOperands()
	if err != nil {
		return nil, err
	}

	children = append(children, operands...)

	end, ok := p.s.end()
	if !ok {
		return nil, p.fail(expectedOpen, expectedNumber, expectedEnd)
	}

	children = append(children, ast.NewLeaf(AnchorTag, "", end.Pos))

	return ast.NewBranch(ast.RootTag, start, children...), nil
}

// parseOperands reads one or more expressions.
func (p *Parser) parseOperands() ([]*ast.Tree, error) {

	if !p.s.startsExpr() {
		return nil, p.fail(expectedOpen, expectedNumber)
	}

	operands := make([]*ast.Tree, 0, 2)
	for p.s.startsExpr() {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		operands = append(operands, expr)
	}

	return operands, nil
}

func (p *Parser) parseExpr() (*ast.Tree, error) {

	if num, ok := p.s.number(); ok {
		return ast.NewLeaf(NumberTag, num.Value, num.Pos), nil
	}

	open, ok := p.s.char('(')
	if !ok {
		return nil, p.fail(expectedOpen, expectedNumber)
	}

	children := []*ast.Tree{
		ast.NewLeaf(CharTag, open.Value, open.Pos),
	}

	op, ok := p.s.operator()
	if !ok {
		return nil, p.fail(expectedOperator)
	}

	children = append(children, ast.NewLeaf(OperatorTag, op.Value, op.Pos))

	operands, err := p.parseOperands()
	if err != nil {
		return nil, err
	}

	children = append(children, operands...)

	closing, ok := p.s.char(')')
	if !ok {
		return nil, p.fail(expectedOpen, expectedNumber, expectedClose)
	}

	children = append(children, ast.NewLeaf(CharTag, closing.Value, closing.Pos))

	return ast.NewBranch(ExprTag, open.Pos, children...), nil
}
