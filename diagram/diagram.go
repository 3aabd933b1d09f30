// Package diagram synthesizes railroad diagram graphs from rule content and from ad-hoc descriptions.
//
// A graph is renderer agnostic: it only describes nodes (sequences, choices, loops, terminals,
// non-terminals, comments) and their links. Graphs marshal to JSON in the same mapping form
// that ParseYAML accepts, so an external renderer can consume either.
package diagram

import (
	"encoding/json"
	"fmt"

	"github.com/ava12/syntaxdoc/model"
)

// Kind enumerates diagram node types.
type Kind int

const (
	KindSkip Kind = iota
	KindSequence
	KindStack
	KindChoice
	KindOptional
	KindOneOrMore
	KindZeroOrMore
	KindTerminal
	KindNonTerminal
	KindComment
)

var kindNames = [...]string{
	"skip", "sequence", "stack", "choice", "optional", "one_or_more", "zero_or_more",
	"terminal", "non_terminal", "comment",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Node is a diagram graph node. Fields not used by the node kind are left zero.
type Node struct {
	Kind Kind

	// Items of a sequence, a stack or a choice.
	Items []*Node
	// LineBreaks of a sequence or a stack, one element less than Items or nil.
	LineBreaks []model.LineBreak
	// Default is the index of choice item placed on the main line.
	Default int

	// Item of an optional node or a loop.
	Item *Node
	// Repeat is the loop return path, may be nil.
	Repeat *Node
	// Skip places the bypass of an optional node or a zero-or-more loop on the main line.
	Skip bool

	// Text of a terminal, a non-terminal or a comment.
	Text     string
	Href     string
	Title    string
	CSSClass string
	// Resolve tells the renderer that Href is a cross-reference target rather than a URL.
	Resolve bool
}

// EndClass selects the style of diagram end markers.
type EndClass string

const (
	EndDefault EndClass = ""
	EndSimple  EndClass = "simple"
	EndComplex EndClass = "complex"
)

// Diagram is a complete synthesized graph.
type Diagram struct {
	Root     *Node    `json:"root"`
	EndClass EndClass `json:"end_class,omitempty"`
}

func Skip() *Node {
	return &Node{Kind: KindSkip}
}

// Sequence returns a sequence node. A single item is returned as is, no items yield a skip node.
func Sequence(items []*Node, lineBreaks []model.LineBreak) *Node {
	switch len(items) {
	case 0:
		return Skip()
	case 1:
		return items[0]
	}
	if len(lineBreaks) != len(items)-1 || allDefault(lineBreaks) {
		lineBreaks = nil
	}
	return &Node{Kind: KindSequence, Items: items, LineBreaks: lineBreaks}
}

func allDefault(lb []model.LineBreak) bool {
	for _, b := range lb {
		if b != model.LineBreakDefault {
			return false
		}
	}
	return true
}

func Stack(items ...*Node) *Node {
	return &Node{Kind: KindStack, Items: items}
}

func Choice(def int, items ...*Node) *Node {
	if def < 0 || def >= len(items) {
		def = 0
	}
	return &Node{Kind: KindChoice, Items: items, Default: def}
}

func Optional(item *Node, skip bool) *Node {
	return &Node{Kind: KindOptional, Item: item, Skip: skip}
}

func OneOrMore(item, repeat *Node) *Node {
	return &Node{Kind: KindOneOrMore, Item: item, Repeat: repeat}
}

func ZeroOrMore(item, repeat *Node, skip bool) *Node {
	return &Node{Kind: KindZeroOrMore, Item: item, Repeat: repeat, Skip: skip}
}

func Terminal(text string) *Node {
	return &Node{Kind: KindTerminal, Text: text}
}

func NonTerminal(text string) *Node {
	return &Node{Kind: KindNonTerminal, Text: text}
}

func Comment(text string) *Node {
	return &Node{Kind: KindComment, Text: text}
}

// Walk calls f for n and all its descendants in depth-first order.
func (n *Node) Walk(f func(*Node)) {
	if n == nil {
		return
	}
	f(n)
	for _, item := range n.Items {
		item.Walk(f)
	}
	n.Item.Walk(f)
	n.Repeat.Walk(f)
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case KindTerminal, KindNonTerminal, KindComment:
		return fmt.Sprintf("%s(%q)", n.Kind, n.Text)
	default:
		return n.Kind.String()
	}
}

// MarshalJSON encodes the node in the description mapping form. Skip nodes are encoded as null.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil || n.Kind == KindSkip {
		return []byte("null"), nil
	}

	m := map[string]any{}
	switch n.Kind {
	case KindSequence, KindStack:
		m[n.Kind.String()] = n.Items
		if len(n.LineBreaks) > 0 {
			m["linebreaks"] = n.LineBreaks
		}
	case KindChoice:
		m["choice"] = n.Items
		m["default"] = n.Default
	case KindOptional:
		m["optional"] = n.Item
		if n.Skip {
			m["skip"] = true
		}
	case KindOneOrMore, KindZeroOrMore:
		m[n.Kind.String()] = n.Item
		if n.Repeat != nil {
			m["repeat"] = n.Repeat
		}
		if n.Skip {
			m["skip"] = true
		}
	case KindTerminal, KindNonTerminal:
		m[n.Kind.String()] = n.Text
		addString(m, "href", n.Href)
		addString(m, "title", n.Title)
		addString(m, "css_class", n.CSSClass)
		if n.Resolve {
			m["resolve"] = true
		}
	case KindComment:
		m["comment"] = n.Text
		addString(m, "href", n.Href)
		addString(m, "title", n.Title)
		addString(m, "css_class", n.CSSClass)
	default:
		return nil, fmt.Errorf("cannot encode diagram node of kind %d", n.Kind)
	}
	return json.Marshal(m)
}

func addString(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}
