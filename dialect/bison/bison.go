// Package bison implements GNU Bison grammar dialect adapter.
//
// Declarations section is scanned for %token and %epp declarations, other declarations
// and code blocks are skipped. A //@ %token NAME control comment declares a token too.
// Grammar rules are parsed up to the second %% separator, epilogue is ignored.
// Actions, predicates, and %-modifiers of rules are skipped.
// Rules sharing a name are merged into a single rule.
package bison

import (
	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/source"
)

type Adapter struct{}

func New() *Adapter {
	return &Adapter{}
}

func (*Adapter) Name() string {
	return "bison"
}

func (*Adapter) Extensions() []string {
	return []string{".y", ".yy"}
}

func (*Adapter) Parse(src *source.Source, opts model.LoadingOptions) (*model.Grammar, syntaxdoc.Diagnostics) {
	return Parse(src, opts)
}

// Parse builds grammar from Bison source. Grammar name is the file name without extension.
func Parse(src *source.Source, opts model.LoadingOptions) (*model.Grammar, syntaxdoc.Diagnostics) {
	spec, diags := parse(src, opts)
	g, buildDiags := build(spec, src)
	diags.Add(buildDiags...)
	return g, diags
}

// ParseString parses source text using default loading options.
func ParseString(name, content string) (*model.Grammar, syntaxdoc.Diagnostics) {
	return Parse(source.New(name, []byte(content)), model.DefaultLoadingOptions())
}
