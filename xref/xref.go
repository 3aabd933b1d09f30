// Package xref implements grammar registry and scoped cross-reference resolution.
//
// Resolution order for an unqualified name looked up from a grammar:
// the grammar itself, then grammars it imports (transitively, breadth first, in declaration order),
// then, for RoleObject only, every registered grammar in registration order
// and finally grammar names. A rule lookup without scope searches every registered grammar. A qualified name resolves the grammar globally first.
package xref

import (
	"sync"

	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/internal/queue"
	"github.com/ava12/syntaxdoc/model"
)

// Role selects the kind of object a lookup is allowed to return.
type Role int

const (
	RoleRule Role = iota
	RoleGrammar
	RoleObject
)

// Object is a resolved rule or grammar. Zero value means the lookup failed.
type Object struct {
	Rule    *model.Rule
	Grammar *model.Grammar
}

func (o Object) Found() bool {
	return o.Rule != nil || o.Grammar != nil
}

// Path returns fully qualified object name.
func (o Object) Path() string {
	switch {
	case o.Rule != nil:
		return o.Rule.Path()
	case o.Grammar != nil:
		return o.Grammar.Name
	default:
		return ""
	}
}

// Lookup resolves a reference appearing in a rule of scope grammar. Returns nil if there is no such rule.
type Lookup func(scope *model.Grammar, ref *model.Reference) *model.Rule

// Registry maps grammar names to grammars. Registry is safe for concurrent use.
type Registry struct {
	lock     sync.RWMutex
	grammars []*model.Grammar
	index    map[string]*model.Grammar
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]*model.Grammar)}
}

// Register adds a grammar. If the name is already taken, the first grammar is kept
// and a warning is returned.
func (r *Registry) Register(g *model.Grammar) *syntaxdoc.Error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if prev, found := r.index[g.Name]; found {
		if prev == g {
			return nil
		}
		return DuplicateGrammarErr(g, prev)
	}

	r.index[g.Name] = g
	r.grammars = append(r.grammars, g)
	return nil
}

// Grammar returns registered grammar by name or nil.
func (r *Registry) Grammar(name string) *model.Grammar {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.index[name]
}

// Grammars returns registered grammars in registration order.
func (r *Registry) Grammars() []*model.Grammar {
	r.lock.RLock()
	defer r.lock.RUnlock()
	res := make([]*model.Grammar, len(r.grammars))
	copy(res, r.grammars)
	return res
}

// Resolve finds a rule or grammar. scope is the grammar the lookup comes from, it may be nil.
// qualifier is an optional grammar name.
func (r *Registry) Resolve(scope *model.Grammar, role Role, qualifier, name string) Object {
	if qualifier != "" {
		return r.resolveQualified(scope, role, qualifier, name)
	}

	if role != RoleGrammar && scope != nil {
		if rule := r.findRule(scope, name); rule != nil {
			return Object{Rule: rule}
		}
	}

	if role == RoleObject || (role == RoleRule && scope == nil) {
		for _, g := range r.Grammars() {
			if rule := g.Lookup(name); rule != nil {
				return Object{Rule: rule}
			}
		}
	}

	if role != RoleRule {
		if g := r.Grammar(name); g != nil {
			return Object{Grammar: g}
		}
	}

	return Object{}
}

func (r *Registry) resolveQualified(scope *model.Grammar, role Role, qualifier, name string) Object {
	if role == RoleGrammar {
		return Object{}
	}

	g := r.Grammar(qualifier)
	if g == nil {
		if scope == nil || scope.Name != qualifier {
			return Object{}
		}
		g = scope
	}

	if rule := g.Lookup(name); rule != nil {
		return Object{Rule: rule}
	}
	if scope != nil && scope.Name == g.Name {
		if rule := r.findImported(g, name); rule != nil {
			return Object{Rule: rule}
		}
	}
	return Object{}
}

// findRule looks for a rule in the grammar and in its import closure.
func (r *Registry) findRule(g *model.Grammar, name string) *model.Rule {
	if rule := g.Lookup(name); rule != nil {
		return rule
	}
	return r.findImported(g, name)
}

func (r *Registry) findImported(g *model.Grammar, name string) *model.Rule {
	var res *model.Rule
	r.eachImported(g, func(ig *model.Grammar) bool {
		res = ig.Lookup(name)
		return res != nil
	})
	return res
}

// eachImported visits grammars imported by g, breadth first, in declaration order.
// Visiting stops when f returns true. Unregistered grammars are skipped.
func (r *Registry) eachImported(g *model.Grammar, f func(*model.Grammar) bool) {
	q := queue.NewUnique(g.Name)
	q.Next()
	for _, name := range g.Imports {
		q.Add(name)
	}

	for name, ok := q.Next(); ok; name, ok = q.Next() {
		ig := r.Grammar(name)
		if ig == nil {
			continue
		}
		if f(ig) {
			return
		}
		for _, imp := range ig.Imports {
			q.Add(imp)
		}
	}
}

// Imported returns import closure of the grammar in lookup order.
func (r *Registry) Imported(g *model.Grammar) []*model.Grammar {
	var res []*model.Grammar
	r.eachImported(g, func(ig *model.Grammar) bool {
		res = append(res, ig)
		return false
	})
	return res
}

// LookupRule resolves a rule reference from scope grammar. Grammar names are not considered.
func (r *Registry) LookupRule(scope *model.Grammar, ref *model.Reference) *model.Rule {
	return r.Resolve(scope, RoleRule, ref.Grammar, ref.Name).Rule
}

// Reachable returns rules reachable from the root rule through references, root included,
// in discovery order. References are resolved in the grammar of the referring rule.
func Reachable(root *model.Rule, lookup Lookup) []*model.Rule {
	q := queue.NewUnique(root)
	var res []*model.Rule
	for r, ok := q.Next(); ok; r, ok = q.Next() {
		res = append(res, r)
		model.Walk(r.Content, func(c model.Content) bool {
			if ref, isRef := c.(*model.Reference); isRef {
				if target := lookup(r.Grammar, ref); target != nil {
					q.Add(target)
				}
			}
			return true
		})
	}
	return res
}
