package bison

import (
	"regexp"

	"github.com/ava12/syntaxdoc/lexer"
)

const (
	commentTok   = "comment"
	literalTok   = "literal"
	directiveTok = "directive"
	tagTok       = "tag"
	nameTok      = "name"
	intTok       = "int"
	bracketTok   = "bracketed-name"
	opTok        = "op"
	wrongTok     = ""
)

const (
	commentTokType = iota
	literalTokType
	directiveTokType
	tagTokType
	nameTokType
	intTokType
	bracketTokType
	opTokType
)

const (
	separatorDir  = "%%"
	prologueDir   = "%{"
	predicateDir  = "%?"
	tokenDir      = "%token"
	eppDir        = "%epp"
	emptyDir      = "%empty"
	precDir       = "%prec"
	dprecDir      = "%dprec"
	mergeDir      = "%merge"
	expectDir     = "%expect"
	expectRrDir   = "%expect-rr"
	prologueClose = "%}"
)

var bisonLexer *lexer.Lexer

func init() {
	tokenTypes := []lexer.TokenType{
		{Type: commentTokType, TypeName: commentTok},
		{Type: literalTokType, TypeName: literalTok},
		{Type: directiveTokType, TypeName: directiveTok},
		{Type: tagTokType, TypeName: tagTok},
		{Type: nameTokType, TypeName: nameTok},
		{Type: intTokType, TypeName: intTok},
		{Type: bracketTokType, TypeName: bracketTok},
		{Type: opTokType, TypeName: opTok},
		{Type: lexer.ErrorTokenType, TypeName: wrongTok},
	}

	re := regexp.MustCompile(
		`^(?:\s+|` +
			`(/\*[\s\S]*?\*/|//[^\n]*)|` +
			`("(?:[^"\\\n]|\\.)*"|'(?:[^'\\\n]|\\.)*')|` +
			`(%%|%\{|%\?|%[a-zA-Z_][a-zA-Z0-9_-]*)|` +
			`(<[^<>\n]*>)|` +
			`([a-zA-Z_.][a-zA-Z0-9_.-]*)|` +
			`(0[xX][0-9a-fA-F]+|[0-9]+)|` +
			`(\[[a-zA-Z_.][a-zA-Z0-9_.-]*\])|` +
			`([:;|{}=,])|` +
			`(["'][^"'\n]*|/\*.{0,10}))`)

	bisonLexer = lexer.New(re, tokenTypes)
}

func isOp(tok *lexer.Token, text string) bool {
	return tok.Type() == opTokType && tok.Text() == text
}

func isDirective(tok *lexer.Token, text string) bool {
	return tok.Type() == directiveTokType && tok.Text() == text
}

// isQuoted reports whether a token name is a quoted literal.
func isQuoted(name string) bool {
	return len(name) >= 2 && (name[0] == '"' || name[0] == '\'') && name[len(name)-1] == name[0]
}
