// Package antlr4 implements ANTLR4 grammar dialect adapter.
//
// The parser recognizes a subset of ANTLR4 syntax sufficient for documentation:
// grammar header, options (tokenVocab becomes an import), imports, tokens and channels blocks,
// named actions, parser and lexer rules, and lexer modes.
// Actions, predicates, lexer commands, arguments, and exception handlers are skipped.
// On a syntax error the parser skips to the end of the current statement and continues.
package antlr4

import (
	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/source"
)

// Adapter is the ANTLR4 dialect adapter. It is stateless.
type Adapter struct{}

func New() *Adapter {
	return &Adapter{}
}

func (*Adapter) Name() string {
	return "antlr4"
}

func (*Adapter) Extensions() []string {
	return []string{".g4"}
}

// Parse builds grammar from ANTLR4 source. Loading options are not used.
func (*Adapter) Parse(src *source.Source, _ model.LoadingOptions) (*model.Grammar, syntaxdoc.Diagnostics) {
	return Parse(src)
}

// Parse builds grammar from ANTLR4 source.
func Parse(src *source.Source) (*model.Grammar, syntaxdoc.Diagnostics) {
	spec, diags := parse(src)
	g, buildDiags := build(spec, src)
	diags.Add(buildDiags...)
	return g, diags
}

// ParseString is a shortcut for Parse.
func ParseString(name, content string) (*model.Grammar, syntaxdoc.Diagnostics) {
	return Parse(source.New(name, []byte(content)))
}

const patternRule = "ROOT"

// ParseLexerPattern parses a lexer rule body, e.g. content of a content directive.
// line is the source line of the pattern, name is the source name.
// Returns nil content if the pattern cannot be parsed.
func ParseLexerPattern(name, pattern string, line int) (model.Content, syntaxdoc.Diagnostics) {
	text := "grammar X; " + patternRule + " : " + pattern + " ;"
	g, diags := Parse(source.NewAt(name, []byte(text), line-1))
	r := g.Lookup(patternRule)
	if r == nil || diags.HasErrors() {
		return nil, diags
	}
	return r.Content, diags
}
