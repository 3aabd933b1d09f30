package antlr4

import (
	"regexp"

	"github.com/ava12/syntaxdoc/lexer"
)

const (
	commentTok = "comment"
	literalTok = "literal"
	charSetTok = "char-set"
	nameTok    = "name"
	intTok     = "int"
	opTok      = "op"
	wrongTok   = ""
)

const (
	commentTokType = iota
	literalTokType
	charSetTokType
	nameTokType
	intTokType
	opTokType
)

var antlrLexer *lexer.Lexer

func init() {
	tokenTypes := []lexer.TokenType{
		{Type: commentTokType, TypeName: commentTok},
		{Type: literalTokType, TypeName: literalTok},
		{Type: charSetTokType, TypeName: charSetTok},
		{Type: nameTokType, TypeName: nameTok},
		{Type: intTokType, TypeName: intTok},
		{Type: opTokType, TypeName: opTok},
		{Type: lexer.ErrorTokenType, TypeName: wrongTok},
	}

	re := regexp.MustCompile(
		`^(?:\s+|` +
			`(/\*[\s\S]*?\*/|//[^\n]*)|` +
			`('(?:[^'\\\n]|\\.)*')|` +
			`(\[(?:[^\]\\]|\\.)*\])|` +
			`([\pL_][\pL\pN_]*)|` +
			`([0-9]+)|` +
			`(->|\.\.|::|\+=|[:;|()?*+~.=#,<>@{}])|` +
			`('[^'\n]*|/\*.{0,10}))`)

	antlrLexer = lexer.New(re, tokenTypes)
}

func isOp(tok *lexer.Token, text string) bool {
	return tok.Type() == opTokType && tok.Text() == text
}

func isName(tok *lexer.Token, text string) bool {
	return tok.Type() == nameTokType && tok.Text() == text
}
