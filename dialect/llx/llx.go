// Package llx implements the dialect adapter for llx grammar definitions.
//
// A grammar is a list of definitions: token definitions ($name = /regexp/;),
// regexp templates ($$name = /regexp/;), node definitions (name = items;),
// directives (!aside, !caseless, !error, !extern, !group, !literal, !reserved), and layer definitions.
// Layer definitions and most directives have no documentation value and are skipped.
//
// Comments start with "#". Annotations use the same commands as other dialects with different markers:
//
//	## doc comment line
//	### section line
//	#@ doc:inline
//
// Token rules keep the "$" prefix so they never clash with node names.
package llx

import (
	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/source"
)

// Adapter is the llx dialect adapter. It is stateless.
type Adapter struct{}

func New() *Adapter {
	return &Adapter{}
}

func (*Adapter) Name() string {
	return "llx"
}

func (*Adapter) Extensions() []string {
	return []string{".llx"}
}

// Parse builds grammar from llx source. Loading options are not used.
func (*Adapter) Parse(src *source.Source, _ model.LoadingOptions) (*model.Grammar, syntaxdoc.Diagnostics) {
	return Parse(src)
}

// Parse builds combined grammar named after the source file.
func Parse(src *source.Source) (*model.Grammar, syntaxdoc.Diagnostics) {
	return parse(src)
}

// ParseString is a shortcut for Parse.
func ParseString(name, content string) (*model.Grammar, syntaxdoc.Diagnostics) {
	return Parse(source.New(name, []byte(content)))
}

const patternNode = "root"

// ParseContent parses a node body, e.g. content of a content directive.
// line is the source line of the pattern, name is the source name.
// Returns nil content if the pattern cannot be parsed.
func ParseContent(name, pattern string, line int) (model.Content, syntaxdoc.Diagnostics) {
	text := patternNode + " = " + pattern + ";"
	g, diags := Parse(source.NewAt(name, []byte(text), line-1))
	r := g.Lookup(patternNode)
	if r == nil || diags.HasErrors() {
		return nil, diags
	}
	return r.Content, diags
}
