package parser

import (
	"strings"

	"git.brobridge.com/lispy/lispy/pkg/lispy/ast"
)

type Token struct {
	Type  TokenType
	Value string
	Pos   ast.Position
}

type TokenType uint8

const (
	OpenParenTok = TokenType(iota + 1)
	CloseParenTok
	NumberTok
	OpTok
	EndTok
)

const operatorChars = "+-*/"

// scanner walks the input one lexeme at a time. The token class is chosen by
// the caller because '-' is an operator or the sign of a number depending on
// where it appears.
type scanner struct {
	text string
	pos  ast.Position
}

func newScanner(text string) *scanner {
	return &scanner{
		text: text,
		pos: ast.Position{
			Offset: 0,
			Row:    1,
			Col:    1,
		},
	}
}

func (s *scanner) rest() string {
	return s.text[s.pos.Offset:]
}

func (s *scanner) advance(n int) {
	for i := 0; i < n; i++ {
		if s.text[s.pos.Offset] == '\n' {
			s.pos.Row++
			s.pos.Col = 1
		} else {
			s.pos.Col++
		}
		s.pos.Offset++
	}
}

func (s *scanner) skipSpace() {
	rest := s.rest()
	trimmed := strings.TrimLeft(rest, " \t\r\n")
	s.advance(len(rest) - len(trimmed))
}

func (s *scanner) atEnd() bool {
	return s.pos.Offset >= len(s.text)
}

func (s *scanner) operator() (Token, bool) {

	s.skipSpace()

	text := s.rest()
	if len(text) == 0 || strings.IndexByte(operatorChars, text[0]) < 0 {
		return Token{}, false
	}

	tok := Token{Type: OpTok, Value: text[:1], Pos: s.pos}
	s.advance(1)

	return tok, true
}

func (s *scanner) number() (Token, bool) {

	s.skipSpace()

	text := s.rest()
	size := 0
	if len(text) > 0 && text[0] == '-' {
		size = 1
	}

	i := strings.IndexFunc(text[size:], notDigit)
	if i < 0 {
		i = len(text) - size
	}

	if i == 0 {
		return Token{}, false
	}

	tok := Token{Type: NumberTok, Value: text[:size+i], Pos: s.pos}
	s.advance(size + i)

	return tok, true
}

func (s *scanner) char(c byte) (Token, bool) {

	s.skipSpace()

	text := s.rest()
	if len(text) == 0 || text[0] != c {
		return Token{}, false
	}

	tok := Token{Value: text[:1], Pos: s.pos}
	switch c {
	case '(':
		tok.Type = OpenParenTok
	case ')':
		tok.Type = CloseParenTok
	}

	s.advance(1)

	return tok, true
}

// startsExpr reports whether the next lexeme can begin an expression.
func (s *scanner) startsExpr() bool {

	s.skipSpace()

	text := s.rest()
	if len(text) == 0 {
		return false
	}

	if text[0] == '(' || isDigit(rune(text[0])) {
		return true
	}

	return text[0] == '-' && len(text) > 1 && isDigit(rune(text[1]))
}

func (s *scanner) end() (Token, bool) {

	s.skipSpace()

	if !s.atEnd() {
		return Token{}, false
	}

	return Token{Type: EndTok, Pos: s.pos}, true
}

func isDigit(r rune) bool  { return '0' <= r && r <= '9' }
func notDigit(r rune) bool { return !isDigit(r) }
