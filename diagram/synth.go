package diagram

import (
	"context"
	"log/slog"

	"github.com/ava12/syntaxdoc/internal/ctxlog"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/xref"
)

// Options control diagram synthesis.
type Options struct {
	LiteralRendering LiteralRendering
	// DashCase converts rule names to dash-case.
	DashCase bool

	// RootRule is the entry rule of the documented grammar, may be nil.
	RootRule *model.Rule
	// MarkRootRule sets complex end class for the root rule diagram and simple end class for other rules.
	MarkRootRule bool
}

// Synthesizer converts rule content to diagram graphs. Synthesis reads the model only,
// so a single Synthesizer may be used by concurrent goroutines.
type Synthesizer struct {
	Lookup  xref.Lookup
	Options Options
}

// Rule synthesizes the diagram of a rule. Returns nil if the rule has no content.
func (s *Synthesizer) Rule(ctx context.Context, r *model.Rule) *Diagram {
	if r == nil || r.Content == nil {
		return nil
	}

	d := &Diagram{Root: s.newRenderer(ctx, r.Grammar).rule(r)}
	if s.Options.MarkRootRule && s.Options.RootRule != nil {
		if r == s.Options.RootRule {
			d.EndClass = EndComplex
		} else {
			d.EndClass = EndSimple
		}
	}
	return d
}

// Content synthesizes the diagram of arbitrary content, references are resolved in scope grammar.
// Recursion collapse is not applied since there is no rule to recur to.
func (s *Synthesizer) Content(ctx context.Context, scope *model.Grammar, c model.Content) *Diagram {
	if c == nil {
		return nil
	}
	return &Diagram{Root: s.newRenderer(ctx, scope).visit(c)}
}

type renderer struct {
	ctx        context.Context
	opts       *Options
	lookup     xref.Lookup
	scope      *model.Grammar
	current    *model.Rule
	path       map[*model.Rule]bool
	importance *model.Cache[int]
}

func (s *Synthesizer) newRenderer(ctx context.Context, scope *model.Grammar) *renderer {
	r := &renderer{
		ctx:    ctx,
		opts:   &s.Options,
		lookup: s.Lookup,
		scope:  scope,
		path:   make(map[*model.Rule]bool),
	}
	r.importance = model.NewCache(r.computeImportance)
	return r
}

func (r *renderer) resolve(ref *model.Reference) *model.Rule {
	if r.lookup == nil {
		if r.scope == nil || ref.Grammar != "" {
			return nil
		}
		return r.scope.Lookup(ref.Name)
	}
	return r.lookup(r.scope, ref)
}

// computeImportance: atoms weigh 1, docs 0, references weigh as their rules, containers as their heaviest child.
func (r *renderer) computeImportance(c model.Content) int {
	switch c := c.(type) {
	case *model.Doc:
		return 0
	case *model.Reference:
		if rule := r.resolve(c); rule != nil {
			return rule.Importance
		}
		return model.DefaultImportance
	case *model.Sequence, *model.Alternative, *model.ZeroPlus, *model.OnePlus, *model.Negation:
		res := 0
		for _, child := range model.Children(c) {
			res = max(res, r.importance.Get(child))
		}
		return res
	default:
		return 1
	}
}

func (r *renderer) rule(rule *model.Rule) *Node {
	r.path[rule] = true
	savedScope, savedRule := r.scope, r.current
	r.scope, r.current = rule.Grammar, rule
	defer func() {
		delete(r.path, rule)
		r.scope, r.current = savedScope, savedRule
	}()

	return r.visit(r.collapseRecursion(rule))
}

// collapseRecursion rewrites left recursive branches of a top level alternative
// (r : r A | B) into a loop (B (A)*) and right recursive ones (r : A r | B) into ((A)* B).
// Left recursion wins if there are at least as many left recursive branches as right recursive ones.
// A rule consisting of a single reference to an inline rule is collapsed over the inline rule content.
func (r *renderer) collapseRecursion(rule *model.Rule) model.Content {
	if rule.KeepDiagramRecursive {
		return rule.Content
	}
	alt, ok := rule.Content.(*model.Alternative)
	if !ok {
		target := r.inlineTarget(rule)
		if target == nil {
			return rule.Content
		}
		if alt, ok = target.Content.(*model.Alternative); !ok {
			return rule.Content
		}
	}

	var left, right []int
	for i, item := range alt.Items {
		seq, ok := item.(*model.Sequence)
		if !ok || len(seq.Items) == 0 {
			continue
		}
		if r.isSelf(seq.Items[0], rule) {
			left = append(left, i)
		} else if r.isSelf(seq.Items[len(seq.Items)-1], rule) {
			right = append(right, i)
		}
	}

	recursive, isLeft := right, false
	switch {
	case len(left) > 0 && len(left) >= len(right):
		recursive, isLeft = left, true
	case len(right) == 0:
		return factorAlternative(alt.Items)
	}

	var repeat, normal []model.Content
	next := 0
	for i, item := range alt.Items {
		if next < len(recursive) && recursive[next] == i {
			next++
			seq := item.(*model.Sequence)
			if isLeft {
				repeat = append(repeat, model.NewSequence(seq.Items[1:], tail(seq.LineBreaks, 1)))
			} else {
				n := len(seq.Items) - 1
				repeat = append(repeat, model.NewSequence(seq.Items[:n], head(seq.LineBreaks, n-1)))
			}
		} else {
			normal = append(normal, item)
		}
	}

	loop := model.NewZeroPlus(factorAlternative(repeat))
	if isLeft {
		return model.Seq(factorAlternative(normal), loop)
	}
	return model.Seq(loop, factorAlternative(normal))
}

// inlineTarget returns the inline rule of the same grammar that is the whole content of rule, or nil.
func (r *renderer) inlineTarget(rule *model.Rule) *model.Rule {
	ref, ok := rule.Content.(*model.Reference)
	if !ok {
		return nil
	}
	target := r.resolve(ref)
	if target == nil || target == rule || !target.Inline || target.KeepDiagramRecursive || target.Grammar != rule.Grammar {
		return nil
	}
	return target
}

// isSelf reports whether c refers to rule directly or through an inline rule consisting of a single reference.
func (r *renderer) isSelf(c model.Content, rule *model.Rule) bool {
	ref, ok := c.(*model.Reference)
	if !ok {
		return false
	}

	target := r.resolve(ref)
	if target == rule {
		return true
	}
	if target == nil || !target.Inline || target.Grammar != rule.Grammar {
		return false
	}
	inner, ok := target.Content.(*model.Reference)
	return ok && r.resolve(inner) == rule
}

func (r *renderer) visit(c model.Content) *Node {
	switch c := c.(type) {
	case *model.Sequence:
		return r.sequence(contentParts(c.Items), c.LineBreaks)

	case *model.Alternative:
		return r.alternative(c)

	case *model.ZeroPlus:
		return ZeroOrMore(r.visit(c.Item), nil, r.importance.Get(c.Item) == 0)

	case *model.OnePlus:
		return OneOrMore(r.visit(c.Item), nil)

	case *model.Negation:
		return r.terminal(c.String(), "negation")

	case *model.Wildcard:
		return r.terminal(".", "wildcard")

	case *model.Literal:
		return r.terminal(r.literal(c.Text), "literal")

	case *model.Range:
		return r.terminal(c.Start+".."+c.End, "range")

	case *model.CharSet:
		return r.terminal(c.Text, "charset")

	case *model.Reference:
		return r.reference(c)

	case *model.Doc:
		return Comment(c.Text)

	default:
		return Skip()
	}
}

func (r *renderer) terminal(text, class string) *Node {
	n := Terminal(text)
	n.CSSClass = class
	return n
}

func (r *renderer) alternative(c *model.Alternative) *Node {
	if len(c.Items) == 2 {
		for i, item := range c.Items {
			if model.IsEmpty(item) {
				other := c.Items[1-i]
				return Optional(r.visit(other), r.importance.Get(other) == 0)
			}
		}
	}

	items := make([]*Node, len(c.Items))
	def, best := 0, -1
	for i, item := range c.Items {
		items[i] = r.visit(item)
		if imp := r.importance.Get(item); imp > best {
			def, best = i, imp
		}
	}
	return Choice(def, items...)
}

func (r *renderer) reference(ref *model.Reference) *Node {
	rule := r.resolve(ref)
	if rule == nil {
		r.warnUnresolved(ref)
		if isTokenName(ref.Name) {
			if text, ok := Unquote(ref.Name); ok {
				return Terminal(r.unquoted(text))
			}
			if ref.Name[0] == '"' {
				return Terminal(ref.Name)
			}
			return Terminal(r.name(ref.Name))
		}
		return NonTerminal(r.name(ref.Name))
	}

	if rule.Inline && rule.Content != nil && !r.path[rule] {
		return r.rule(rule)
	}

	var n *Node
	switch {
	case rule.IsLexer() && rule.IsLiteral && r.opts.LiteralRendering != LiteralName:
		n = Terminal(r.literal(rule.Literal()))
	case rule.IsLexer():
		n = Terminal(r.title(rule))
	default:
		n = NonTerminal(r.title(rule))
	}
	n.Href = rule.Path()
	n.Resolve = true
	n.CSSClass = rule.CSSClass
	return n
}

func (r *renderer) warnUnresolved(ref *model.Reference) {
	pos := model.Position{}
	switch {
	case r.current != nil:
		pos = r.current.Position
	case r.scope != nil:
		pos.File = r.scope.Path
	}
	ctxlog.FromContext(r.ctx).LogAttrs(r.ctx, slog.LevelWarn, "unresolved reference",
		slog.String("source", pos.File), slog.Int("line", pos.Line), slog.Int("col", pos.Col),
		slog.String("name", ref.String()))
}

func (r *renderer) title(rule *model.Rule) string {
	if rule.DisplayName != "" {
		return rule.DisplayName
	}
	return r.name(rule.Name)
}

func (r *renderer) name(name string) string {
	if r.opts.DashCase {
		return DashCase(name)
	}
	return name
}

// literal renders a literal according to rendering options. Only single-quoted literals are unquoted.
func (r *renderer) literal(text string) string {
	if unquoted, ok := Unquote(text); ok {
		return r.unquoted(unquoted)
	}
	return text
}

func (r *renderer) unquoted(text string) string {
	if r.opts.LiteralRendering == LiteralContentsUnquoted {
		return text
	}
	return "'" + text + "'"
}
