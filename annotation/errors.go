package annotation

import (
	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/lexer"
)

// Annotation diagnostics are warnings: a broken directive never stops processing of a declaration.
const (
	InvalidDirectiveError = syntaxdoc.AnnotationErrors + iota
	UnknownDirectiveError
	MisplacedDirectiveError
	MissingArgumentError
	InvalidArgumentError
	IgnoredArgumentError
)

func invalidDirectiveError(tok *lexer.Token, e error) *syntaxdoc.Error {
	return syntaxdoc.FormatErrorPos(tok, InvalidDirectiveError, "invalid command %q (%s)", tok.Text(), e.Error()).Warning()
}

func unknownDirectiveError(tok *lexer.Token, cmd string) *syntaxdoc.Error {
	return syntaxdoc.FormatErrorPos(tok, UnknownDirectiveError, "unknown command %q", cmd).Warning()
}

func misplacedDirectiveError(tok *lexer.Token) *syntaxdoc.Error {
	return syntaxdoc.FormatErrorPos(tok, MisplacedDirectiveError, "commands not allowed here").Warning()
}

func missingArgumentError(tok *lexer.Token, cmd string) *syntaxdoc.Error {
	return syntaxdoc.FormatErrorPos(tok, MissingArgumentError, "%s command requires an argument", cmd).Warning()
}

func invalidArgumentError(tok *lexer.Token, cmd, msg string) *syntaxdoc.Error {
	return syntaxdoc.FormatErrorPos(tok, InvalidArgumentError, "%s %s", cmd, msg).Warning()
}

func ignoredArgumentError(tok *lexer.Token, cmd string) *syntaxdoc.Error {
	return syntaxdoc.FormatErrorPos(tok, IgnoredArgumentError, "argument for %q command is ignored", cmd).Warning()
}
