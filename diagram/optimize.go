package diagram

import (
	"github.com/ava12/syntaxdoc/model"
)

// factorAlternative builds an alternative taking common leading items out of branches,
// (x A | x B) -> x (A | B), and then common trailing items, (A x | B x) -> (A | B) x.
func factorAlternative(items []model.Content) model.Content {
	if len(items) > 1 {
		items = factor(items, true)
	}
	if len(items) > 1 {
		items = factor(items, false)
	}
	return model.NewAlternative(items...)
}

func factor(items []model.Content, front bool) []model.Content {
	keys := make([]string, len(items))
	groups := make(map[string][]int)
	shared := false
	for i, item := range items {
		e := edge(item, front)
		if model.IsEmpty(e) {
			continue
		}
		keys[i] = model.Key(e)
		groups[keys[i]] = append(groups[keys[i]], i)
		shared = shared || len(groups[keys[i]]) > 1
	}
	if !shared {
		return items
	}

	res := make([]model.Content, 0, len(items))
	for i, item := range items {
		group := groups[keys[i]]
		if len(group) <= 1 {
			res = append(res, item)
			continue
		}
		if group[0] != i {
			continue
		}

		rest := make([]model.Content, len(group))
		for j, k := range group {
			rest[j] = remainder(items[k], front)
		}
		if front {
			res = append(res, model.Seq(edge(item, true), factorAlternative(rest)))
		} else {
			res = append(res, model.Seq(factorAlternative(rest), edge(item, false)))
		}
	}
	return res
}

// edge returns the first or the last item of a sequence, any other node is its own edge.
func edge(c model.Content, front bool) model.Content {
	s, ok := c.(*model.Sequence)
	if !ok || len(s.Items) == 0 {
		return c
	}
	if front {
		return s.Items[0]
	}
	return s.Items[len(s.Items)-1]
}

// remainder returns c without its edge item.
func remainder(c model.Content, front bool) model.Content {
	s, ok := c.(*model.Sequence)
	if !ok || len(s.Items) == 0 {
		return model.Empty
	}
	n := len(s.Items)
	if front {
		return model.NewSequence(s.Items[1:], tail(s.LineBreaks, 1))
	}
	return model.NewSequence(s.Items[:n-1], head(s.LineBreaks, n-2))
}

func head(lb []model.LineBreak, n int) []model.LineBreak {
	if n <= 0 {
		return nil
	}
	if n > len(lb) {
		return lb
	}
	return lb[:n]
}

func tail(lb []model.LineBreak, k int) []model.LineBreak {
	if k >= len(lb) {
		return nil
	}
	return lb[k:]
}

// part is a sequence item, either not yet rendered content or a node built by loop folding.
type part struct {
	content model.Content
	node    *Node
}

func (p part) is(c model.Content) bool {
	return p.content != nil && model.Equal(p.content, c)
}

func contentParts(items []model.Content) []part {
	res := make([]part, len(items))
	for i, item := range items {
		res[i] = part{content: item}
	}
	return res
}

func sequenceItems(c model.Content) ([]model.Content, []model.LineBreak) {
	if s, ok := c.(*model.Sequence); ok {
		return s.Items, s.LineBreaks
	}
	return []model.Content{c}, nil
}

// sequence renders sequence items folding loops:
// x y (A B x y)* -> OneOrMore(x y, repeat A B) and (x y A B)* x y -> OneOrMore(x y, repeat A B).
func (r *renderer) sequence(parts []part, lb []model.LineBreak) *Node {
	if len(parts) == 0 {
		return Skip()
	}
	if len(lb) != len(parts)-1 {
		lb = make([]model.LineBreak, len(parts)-1)
	}

	for i := len(parts) - 1; i >= 0; i-- {
		star, ok := parts[i].content.(*model.ZeroPlus)
		if !ok {
			continue
		}

		nested, nlb := sequenceItems(star.Item)
		m := 0
		for m < len(nested) && i-1-m >= 0 && parts[i-1-m].is(nested[len(nested)-1-m]) {
			m++
		}
		if m == 0 {
			continue
		}

		k := len(nested) - m
		main := r.sequence(contentParts(nested[k:]), tail(nlb, k))
		loop := OneOrMore(main, r.repeat(nested[:k], head(nlb, k-1)))
		return r.sequence(splice(parts, i-m, i+1, loop), spliceBreaks(lb, i-m, i))
	}

	for i, p := range parts {
		star, ok := p.content.(*model.ZeroPlus)
		if !ok {
			continue
		}

		nested, nlb := sequenceItems(star.Item)
		m := 0
		for m < len(nested) && i+1+m < len(parts) && parts[i+1+m].is(nested[m]) {
			m++
		}
		if m == 0 {
			continue
		}

		main := r.sequence(contentParts(nested[:m]), head(nlb, m-1))
		loop := OneOrMore(main, r.repeat(nested[m:], tail(nlb, m)))
		return r.sequence(splice(parts, i, i+m+1, loop), spliceBreaks(lb, i, i+m))
	}

	nodes := make([]*Node, len(parts))
	for i, p := range parts {
		if p.node != nil {
			nodes[i] = p.node
		} else {
			nodes[i] = r.visit(p.content)
		}
	}
	return Sequence(nodes, lb)
}

func (r *renderer) repeat(items []model.Content, lb []model.LineBreak) *Node {
	if len(items) == 0 {
		return nil
	}
	return r.sequence(contentParts(items), lb)
}

// splice replaces parts[from:to] with a node.
func splice(parts []part, from, to int, n *Node) []part {
	res := make([]part, 0, len(parts)-(to-from)+1)
	res = append(res, parts[:from]...)
	res = append(res, part{node: n})
	return append(res, parts[to:]...)
}

func spliceBreaks(lb []model.LineBreak, from, to int) []model.LineBreak {
	res := make([]model.LineBreak, 0, len(lb)-(to-from))
	res = append(res, lb[:from]...)
	return append(res, lb[to:]...)
}
