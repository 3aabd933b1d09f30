package dialect

import (
	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/lexer"
)

// Error codes shared by dialect adapters:
const (
	UnexpectedEofError = syntaxdoc.SyntaxErrors + iota
	UnexpectedTokenError
	DuplicateRuleError
	MisplacedContentError
	BadContentError
	BadTokenDirectiveError
)

func EofErr(tok *lexer.Token) *syntaxdoc.Error {
	return syntaxdoc.FormatErrorPos(tok, UnexpectedEofError, "unexpected end of file")
}

func UnexpectedTokenErr(tok *lexer.Token, expected string) *syntaxdoc.Error {
	if tok.IsEof() {
		return EofErr(tok)
	}
	if expected == "" {
		return syntaxdoc.FormatErrorPos(tok, UnexpectedTokenError, "unexpected %s %q", tok.TypeName(), tok.Text())
	}
	return syntaxdoc.FormatErrorPos(tok, UnexpectedTokenError, "unexpected %s %q, expecting %s", tok.TypeName(), tok.Text(), expected)
}

func DuplicateRuleErr(tok *lexer.Token, name string) *syntaxdoc.Error {
	return syntaxdoc.FormatErrorPos(tok, DuplicateRuleError, "rule %q already defined, definition ignored", name).Warning()
}

func MisplacedContentErr(pos syntaxdoc.SourcePos) *syntaxdoc.Error {
	return syntaxdoc.FormatErrorPos(pos, MisplacedContentError, "'content' command can't appear before parser rules").Warning()
}

func BadContentErr(pos syntaxdoc.SourcePos, text string) *syntaxdoc.Error {
	return syntaxdoc.FormatErrorPos(pos, BadContentError, "cannot parse content %q", text).Warning()
}

func BadTokenDirectiveErr(pos syntaxdoc.SourcePos) *syntaxdoc.Error {
	return syntaxdoc.FormatErrorPos(pos, BadTokenDirectiveError, "failed to parse '%token' command").Warning()
}
