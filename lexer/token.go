package lexer

import (
	"github.com/ava12/syntaxdoc/source"
)

// Token is a lexeme fetched by Lexer.
type Token struct {
	tokenType int
	typeName  string
	text      string
	pos       source.Pos
	end       int
}

// NewToken creates new token. end is the byte offset just past the lexeme.
func NewToken(tokenType int, typeName, text string, pos source.Pos, end int) *Token {
	return &Token{tokenType, typeName, text, pos, end}
}

func (t *Token) Type() int {
	return t.tokenType
}

func (t *Token) TypeName() string {
	return t.typeName
}

func (t *Token) Text() string {
	return t.text
}

func (t *Token) Pos() source.Pos {
	return t.pos
}

func (t *Token) Source() *source.Source {
	return t.pos.Source()
}

func (t *Token) SourceName() string {
	return t.pos.SourceName()
}

func (t *Token) Line() int {
	return t.pos.Line()
}

func (t *Token) Col() int {
	return t.pos.Col()
}

// Offset returns byte offset of the token start.
func (t *Token) Offset() int {
	return t.pos.Pos()
}

// End returns byte offset just past the token.
func (t *Token) End() int {
	return t.end
}

const (
	EofTokenType    = -2
	EofTokenName    = "-end-of-file-"
	LowestTokenType = -2
)

// EofToken creates end-of-file token for the source.
func EofToken(s *source.Source) *Token {
	return &Token{tokenType: EofTokenType, typeName: EofTokenName, pos: source.NewPos(s, s.Len()), end: s.Len()}
}

// IsEof reports whether t is an end-of-file token.
func (t *Token) IsEof() bool {
	return t.tokenType == EofTokenType
}
