package antlr4

import (
	"unicode"
	"unicode/utf8"

	"github.com/ava12/syntaxdoc/lexer"
	"github.com/ava12/syntaxdoc/model"
)

// Raw parse tree. Only the parts needed for documentation are kept.

type grammarSpec struct {
	gtype    model.GrammarType
	name     *lexer.Token
	comments []*lexer.Token
	imports  []*lexer.Token
	tokens   []*tokenSpec
	rules    []*ruleSpec
}

type tokenSpec struct {
	name     *lexer.Token
	comments []*lexer.Token
	section  *model.Section
}

type ruleSpec struct {
	name     *lexer.Token
	end      *lexer.Token
	fragment bool
	comments []*lexer.Token
	section  *model.Section
	body     *altList
}

func (r *ruleSpec) isLexer() bool {
	return isTokenName(r.name.Text())
}

type altList struct {
	alts []*alternative
}

type alternative struct {
	elements []*element
}

type elementKind int

const (
	// actions, predicates, lexer commands
	emptyElem elementKind = iota
	refElem
	literalElem
	rangeElem
	charSetElem
	wildcardElem
	blockElem
	docElem
)

type element struct {
	kind    elementKind
	tok     *lexer.Token
	end     *lexer.Token
	block   *altList
	negated bool
	suffix  string
}

func isTokenName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
