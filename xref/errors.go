package xref

import (
	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/model"
)

// Error codes used by resolver:
const (
	// DuplicateGrammarError indicates that a grammar with the same name is already registered.
	DuplicateGrammarError = syntaxdoc.ResolveErrors + iota

	// UnresolvedError indicates that a reference or a cross-reference target cannot be resolved.
	UnresolvedError
)

func DuplicateGrammarErr(g *model.Grammar, prev *model.Grammar) *syntaxdoc.Error {
	return syntaxdoc.NewError(DuplicateGrammarError,
		"grammar "+g.Name+" is already defined in "+prev.Path+", ignored", g.Path, 0, 0).Warning()
}

// UnresolvedErr creates a warning located at the position of the referring rule or directive.
func UnresolvedErr(pos model.Position, target string) *syntaxdoc.Error {
	return pos.Errorf(UnresolvedError, "cannot resolve %q", target).Warning()
}
