package xref

import (
	"strings"

	"github.com/ava12/syntaxdoc/model"
)

// Target is a parsed cross-reference path: rule, grammar.rule, or grammar.
// A leading tilde requests the last path component as display text.
type Target struct {
	Qualifier   string
	Name        string
	Unqualified bool
}

// ParseTarget parses cross-reference path. Grammar qualifier is separated by the first dot.
func ParseTarget(text string) Target {
	text = strings.TrimSpace(text)
	var t Target
	if strings.HasPrefix(text, "~") {
		t.Unqualified = true
		text = text[1:]
	}
	text = strings.TrimLeft(text, ".")

	quoted := strings.HasPrefix(text, "'") || strings.HasPrefix(text, "\"")
	if dot := strings.IndexByte(text, '.'); !quoted && dot > 0 && dot < len(text)-1 {
		t.Qualifier, t.Name = text[:dot], text[dot+1:]
	} else {
		t.Name = text
	}
	return t
}

func (t Target) String() string {
	if t.Qualifier == "" {
		return t.Name
	}
	return t.Qualifier + "." + t.Name
}

// ResolveTarget parses and resolves cross-reference path.
func (r *Registry) ResolveTarget(scope *model.Grammar, role Role, text string) (Object, Target) {
	t := ParseTarget(text)
	return r.Resolve(scope, role, t.Qualifier, t.Name), t
}

// Title returns display text for a reference to the object made with the target.
func (o Object) Title(t Target) string {
	switch {
	case o.Rule != nil && o.Rule.DisplayName != "":
		return o.Rule.DisplayName
	case o.Rule == nil && o.Grammar != nil && o.Grammar.DisplayName != "":
		return o.Grammar.DisplayName
	case t.Unqualified:
		return t.Name
	default:
		return t.String()
	}
}
