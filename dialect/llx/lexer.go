package llx

import (
	"regexp"
	"strings"

	"github.com/ava12/syntaxdoc/lexer"
)

const (
	commentTok   = "comment"
	stringTok    = "string"
	nameTok      = "name"
	dirTok       = "dir"
	templateTok  = "template-name"
	tokenNameTok = "token-name"
	regexpTok    = "regexp"
	opTok        = "op"
	wrongTok     = ""
)

const (
	commentTokType = iota
	stringTokType
	nameTokType
	dirTokType
	templateTokType
	tokenNameTokType
	regexpTokType
	opTokType
)

var llxLexer *lexer.Lexer

func init() {
	tokenTypes := []lexer.TokenType{
		{Type: commentTokType, TypeName: commentTok},
		{Type: stringTokType, TypeName: stringTok},
		{Type: nameTokType, TypeName: nameTok},
		{Type: dirTokType, TypeName: dirTok},
		{Type: templateTokType, TypeName: templateTok},
		{Type: tokenNameTokType, TypeName: tokenNameTok},
		{Type: regexpTokType, TypeName: regexpTok},
		{Type: opTokType, TypeName: opTok},
		{Type: lexer.ErrorTokenType, TypeName: wrongTok},
	}

	re := regexp.MustCompile(
		`^(?:\s+|` +
			`(#[^\n]*)|` +
			`("(?:[^\\"\n]|\\.)*"|'[^'\n]*')|` +
			`([a-zA-Z_][a-zA-Z_0-9-]*)|` +
			`(![a-z]+)|` +
			`(\$\$[a-zA-Z_][a-zA-Z_0-9-]*)|` +
			`(\$(?:[a-zA-Z_][a-zA-Z_0-9-]*)?)|` +
			`(/(?:[^\\/\n]|\\.)+/)|` +
			`([(){}\[\]=|,;@])|` +
			`(['"/!].{0,10}))`)

	llxLexer = lexer.New(re, tokenTypes)
}

func isOp(tok *lexer.Token, text string) bool {
	return tok.Type() == opTokType && tok.Text() == text
}

// translateComment converts llx comments to annotation syntax:
// "##" starts a doc comment, "###" a section comment, "#@" a control comment.
// Other comments become plain ones.
func translateComment(tok *lexer.Token) *lexer.Token {
	text := strings.TrimRight(tok.Text(), "\r")
	var res string
	switch {
	case strings.HasPrefix(text, "###"):
		res = "///" + text[3:]
	case strings.HasPrefix(text, "##"):
		res = "/** " + strings.TrimSpace(text[2:]) + " */"
	case strings.HasPrefix(text, "#@"):
		res = "//@" + text[2:]
	default:
		res = "//" + text[1:]
	}
	return lexer.NewToken(tok.Type(), tok.TypeName(), res, tok.Pos(), tok.End())
}
