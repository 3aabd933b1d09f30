package diagram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
	"gopkg.in/yaml.v3"

	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/model"
)

// describer collects diagnostics while building a graph from a description.
type describer struct {
	name  string
	diags syntaxdoc.Diagnostics
}

// bad records a node error and returns the terminal shown in place of the malformed node.
func (d *describer) bad(e *syntaxdoc.Error) *Node {
	d.diags.Add(e)
	text := e.Message
	if e.SourceName != "" {
		if i := strings.LastIndex(text, " in "+e.SourceName+" at line "); i > 0 {
			text = text[:i]
		}
	}
	n := Terminal(text)
	n.CSSClass = "error"
	return n
}

func parseEndClass(s string) (EndClass, bool) {
	switch ec := EndClass(s); ec {
	case EndDefault, EndSimple, EndComplex:
		return ec, true
	default:
		return EndDefault, false
	}
}

func parseLineBreak(s string) (model.LineBreak, bool) {
	for lb := model.LineBreakDefault; lb <= model.LineBreakNone; lb++ {
		if lb.String() == s {
			return lb, true
		}
	}
	return model.LineBreakDefault, false
}

// ParseHCL builds a diagram from an HCL description. Blocks are nodes:
//
//	sequence { ... }, stack { ... }, choice { default = 1 ... }, optional { skip = true ... },
//	one_or_more { ... repeat { ... } }, zero_or_more { skip = true ... repeat { ... } },
//	terminal "text" { href = "..." title = "..." css_class = "..." resolve = true },
//	non_terminal "text" { ... }, comment "text" { ... }, skip {}.
//
// Several blocks inside a node body form a sequence. Top level attribute end_class sets the end class.
// Returns nil diagram only if the description is not valid HCL.
func ParseHCL(name string, src []byte) (*Diagram, syntaxdoc.Diagnostics) {
	d := &describer{name: name}
	file, hdiags := hclparse.NewParser().ParseHCL(src, name)
	if hdiags.HasErrors() {
		for _, hd := range hdiags {
			d.diags.Add(hclError(hd))
		}
		return nil, d.diags
	}

	body := file.Body.(*hclsyntax.Body)
	res := &Diagram{}
	for _, attr := range sortedAttributes(body) {
		if attr.Name != "end_class" {
			d.diags.Add(unknownAttributeError(name, attr.SrcRange.Start.Line, attr.SrcRange.Start.Column, attr.Name))
			continue
		}
		var s string
		if d.hclAttr(attr, &s) {
			if ec, ok := parseEndClass(s); ok {
				res.EndClass = ec
			} else {
				d.diags.Add(invalidAttributeError(name, attr.SrcRange.Start.Line, attr.SrcRange.Start.Column, attr.Name, "has unknown value "+s))
			}
		}
	}

	res.Root = d.hclItems(body.Blocks)
	return res, d.diags
}

func hclError(hd *hcl.Diagnostic) *syntaxdoc.Error {
	line, col, file := 0, 0, ""
	if hd.Subject != nil {
		line, col, file = hd.Subject.Start.Line, hd.Subject.Start.Column, hd.Subject.Filename
	}
	msg := hd.Summary
	if hd.Detail != "" {
		msg += ": " + hd.Detail
	}
	return malformedDescriptionError(file, line, col, msg)
}

// sortedAttributes returns body attributes in source order.
func sortedAttributes(body *hclsyntax.Body) []*hclsyntax.Attribute {
	res := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, attr := range body.Attributes {
		res = append(res, attr)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].SrcRange.Start.Byte < res[j].SrcRange.Start.Byte
	})
	return res
}

// hclAttr evaluates a constant attribute into target, reporting a warning on failure.
func (d *describer) hclAttr(attr *hclsyntax.Attribute, target any) bool {
	pos := attr.SrcRange.Start
	value, hdiags := attr.Expr.Value(nil)
	if hdiags.HasErrors() {
		d.diags.Add(invalidAttributeError(d.name, pos.Line, pos.Column, attr.Name, "is not a constant"))
		return false
	}
	ty, e := gocty.ImpliedType(target)
	if e == nil {
		value, e = convert.Convert(value, ty)
	}
	if e == nil {
		e = gocty.FromCtyValue(value, target)
	}
	if e != nil {
		d.diags.Add(invalidAttributeError(d.name, pos.Line, pos.Column, attr.Name, "has wrong type: "+e.Error()))
		return false
	}
	return true
}

func (d *describer) hclItems(blocks []*hclsyntax.Block) *Node {
	items := make([]*Node, 0, len(blocks))
	for _, b := range blocks {
		items = append(items, d.hclBlock(b))
	}
	return Sequence(items, nil)
}

func (d *describer) hclBlock(b *hclsyntax.Block) *Node {
	pos := b.TypeRange.Start
	textNode := b.Type == "terminal" || b.Type == "non_terminal" || b.Type == "comment"
	if textNode && len(b.Labels) != 1 {
		return d.bad(invalidNodeError(d.name, pos.Line, pos.Column, fmt.Sprintf("%s requires a single label", b.Type)))
	}
	if !textNode && len(b.Labels) > 0 {
		return d.bad(invalidNodeError(d.name, pos.Line, pos.Column, fmt.Sprintf("%s takes no labels", b.Type)))
	}

	var n *Node
	var children, repeat []*hclsyntax.Block
	for _, child := range b.Body.Blocks {
		if child.Type == "repeat" && (b.Type == "one_or_more" || b.Type == "zero_or_more") {
			repeat = append(repeat, child.Body.Blocks...)
		} else {
			children = append(children, child)
		}
	}

	switch b.Type {
	case "skip":
		n = Skip()
	case "sequence":
		n = &Node{Kind: KindSequence, Items: d.hclList(children)}
	case "stack":
		n = Stack(d.hclList(children)...)
	case "choice":
		n = Choice(0, d.hclList(children)...)
	case "optional":
		n = Optional(d.hclItems(children), false)
	case "one_or_more":
		n = OneOrMore(d.hclItems(children), nil)
	case "zero_or_more":
		n = ZeroOrMore(d.hclItems(children), nil, false)
	case "terminal":
		n = Terminal(b.Labels[0])
	case "non_terminal":
		n = NonTerminal(b.Labels[0])
	case "comment":
		n = Comment(b.Labels[0])
	default:
		return d.bad(unknownNodeError(d.name, pos.Line, pos.Column, b.Type))
	}
	if len(repeat) > 0 {
		n.Repeat = d.hclItems(repeat)
	}
	if textNode && len(children) > 0 {
		d.diags.Add(invalidNodeError(d.name, pos.Line, pos.Column, fmt.Sprintf("%s cannot have nested nodes", b.Type)).Warning())
	}

	for _, attr := range sortedAttributes(b.Body) {
		d.hclNodeAttr(n, attr)
	}
	return d.check(n, pos.Line, pos.Column)
}

func (d *describer) hclList(blocks []*hclsyntax.Block) []*Node {
	res := make([]*Node, len(blocks))
	for i, b := range blocks {
		res[i] = d.hclBlock(b)
	}
	return res
}

func (d *describer) hclNodeAttr(n *Node, attr *hclsyntax.Attribute) {
	pos := attr.SrcRange.Start
	if !attributeAllowed(n.Kind, attr.Name) {
		d.diags.Add(unknownAttributeError(d.name, pos.Line, pos.Column, attr.Name))
		return
	}

	switch attr.Name {
	case "default":
		d.hclAttr(attr, &n.Default)
	case "skip":
		d.hclAttr(attr, &n.Skip)
	case "resolve":
		d.hclAttr(attr, &n.Resolve)
	case "href":
		d.hclAttr(attr, &n.Href)
	case "title":
		d.hclAttr(attr, &n.Title)
	case "css_class":
		d.hclAttr(attr, &n.CSSClass)
	case "linebreaks":
		var names []string
		if d.hclAttr(attr, &names) {
			n.LineBreaks = d.lineBreaks(names, pos.Line, pos.Column)
		}
	}
}

func attributeAllowed(kind Kind, attr string) bool {
	switch attr {
	case "default":
		return kind == KindChoice
	case "skip":
		return kind == KindOptional || kind == KindZeroOrMore
	case "resolve":
		return kind == KindTerminal || kind == KindNonTerminal
	case "href", "title", "css_class":
		return kind == KindTerminal || kind == KindNonTerminal || kind == KindComment
	case "linebreaks":
		return kind == KindSequence || kind == KindStack
	default:
		return false
	}
}

func (d *describer) lineBreaks(names []string, line, col int) []model.LineBreak {
	res := make([]model.LineBreak, len(names))
	for i, name := range names {
		lb, ok := parseLineBreak(name)
		if !ok {
			d.diags.Add(invalidAttributeError(d.name, line, col, "linebreaks", "has unknown value "+name))
		}
		res[i] = lb
	}
	return res
}

// check validates a complete node, a malformed one is replaced.
func (d *describer) check(n *Node, line, col int) *Node {
	switch n.Kind {
	case KindSequence, KindStack, KindChoice:
		if len(n.Items) == 0 {
			return d.bad(invalidNodeError(d.name, line, col, n.Kind.String()+" requires at least one item"))
		}
		if n.LineBreaks != nil && len(n.LineBreaks) != len(n.Items)-1 {
			d.diags.Add(invalidAttributeError(d.name, line, col, "linebreaks", "must have one element less than items"))
			n.LineBreaks = nil
		}
		if n.Kind == KindChoice && (n.Default < 0 || n.Default >= len(n.Items)) {
			d.diags.Add(invalidAttributeError(d.name, line, col, "default", "is out of range"))
			n.Default = 0
		}
	case KindOptional, KindOneOrMore, KindZeroOrMore:
		if n.Item == nil || n.Item.Kind == KindSkip {
			return d.bad(invalidNodeError(d.name, line, col, n.Kind.String()+" requires an item"))
		}
	}
	return n
}

var yamlNodeKeys = map[string]Kind{
	"sequence":     KindSequence,
	"stack":        KindStack,
	"choice":       KindChoice,
	"optional":     KindOptional,
	"one_or_more":  KindOneOrMore,
	"zero_or_more": KindZeroOrMore,
	"terminal":     KindTerminal,
	"non_terminal": KindNonTerminal,
	"comment":      KindComment,
}

const maxYAMLDepth = 1000

// ParseYAML builds a diagram from a YAML (or JSON) description:
// null is a skip, a string is a terminal, a list is a sequence, and a mapping has
// exactly one node key (sequence, stack, choice, optional, one_or_more, zero_or_more,
// terminal, non_terminal, comment) along with node attributes (default, skip, repeat,
// linebreaks, href, title, css_class, resolve). A top level mapping with root key
// (optionally along with end_class) is read as a marshalled Diagram.
// Returns nil diagram only if the description is not valid YAML.
func ParseYAML(name string, src []byte) (*Diagram, syntaxdoc.Diagnostics) {
	d := &describer{name: name}
	var doc yaml.Node
	if e := yaml.Unmarshal(src, &doc); e != nil {
		d.diags.Add(malformedDescriptionError(name, 0, 0, strings.TrimPrefix(e.Error(), "yaml: ")))
		return nil, d.diags
	}

	res := &Diagram{Root: Skip()}
	if len(doc.Content) == 0 {
		return res, d.diags
	}

	root := doc.Content[0]
	if root.Kind == yaml.MappingNode && yamlKey(root, "root") != nil {
		for i := 0; i < len(root.Content); i += 2 {
			key, value := root.Content[i], root.Content[i+1]
			switch key.Value {
			case "root":
				res.Root = d.yamlNode(value, 0)
			case "end_class":
				var s string
				ec, ok := EndDefault, value.Decode(&s) == nil
				if ok {
					ec, ok = parseEndClass(s)
				}
				if ok {
					res.EndClass = ec
				} else {
					d.diags.Add(invalidAttributeError(name, value.Line, value.Column, key.Value, "has unknown value"))
				}
			default:
				d.diags.Add(unknownAttributeError(name, key.Line, key.Column, key.Value))
			}
		}
		return res, d.diags
	}

	res.Root = d.yamlNode(root, 0)
	return res, d.diags
}

func yamlKey(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func (d *describer) yamlNode(y *yaml.Node, depth int) *Node {
	if depth > maxYAMLDepth {
		return d.bad(invalidNodeError(d.name, y.Line, y.Column, "description is nested too deep"))
	}

	switch y.Kind {
	case yaml.AliasNode:
		return d.yamlNode(y.Alias, depth+1)
	case yaml.ScalarNode:
		if y.Tag == "!!null" {
			return Skip()
		}
		return Terminal(y.Value)
	case yaml.SequenceNode:
		return Sequence(d.yamlList(y, depth), nil)
	case yaml.MappingNode:
		return d.yamlMapping(y, depth)
	default:
		return d.bad(invalidNodeError(d.name, y.Line, y.Column, "unexpected document"))
	}
}

func (d *describer) yamlList(y *yaml.Node, depth int) []*Node {
	if y.Kind == yaml.AliasNode && depth <= maxYAMLDepth {
		return d.yamlList(y.Alias, depth+1)
	}
	if y.Kind != yaml.SequenceNode {
		return []*Node{d.yamlNode(y, depth+1)}
	}
	res := make([]*Node, len(y.Content))
	for i, item := range y.Content {
		res[i] = d.yamlNode(item, depth+1)
	}
	return res
}

func (d *describer) yamlMapping(y *yaml.Node, depth int) *Node {
	var n *Node
	var nodeKey *yaml.Node
	for i := 0; i+1 < len(y.Content); i += 2 {
		key, value := y.Content[i], y.Content[i+1]
		kind, isNode := yamlNodeKeys[key.Value]
		if !isNode {
			continue
		}
		if n != nil {
			return d.bad(invalidNodeError(d.name, key.Line, key.Column,
				fmt.Sprintf("both %s and %s keys in a node", nodeKey.Value, key.Value)))
		}
		nodeKey = key

		switch kind {
		case KindSequence, KindStack, KindChoice:
			n = &Node{Kind: kind, Items: d.yamlList(value, depth)}
		case KindOptional, KindOneOrMore, KindZeroOrMore:
			n = &Node{Kind: kind, Item: d.yamlNode(value, depth+1)}
		default:
			var text string
			if value.Kind != yaml.ScalarNode || value.Decode(&text) != nil {
				return d.bad(invalidNodeError(d.name, value.Line, value.Column, key.Value+" requires a text"))
			}
			n = &Node{Kind: kind, Text: text}
		}
	}
	if n == nil {
		return d.bad(invalidNodeError(d.name, y.Line, y.Column, "no node key in a mapping"))
	}

	for i := 0; i+1 < len(y.Content); i += 2 {
		key, value := y.Content[i], y.Content[i+1]
		if key == nodeKey {
			continue
		}
		if key.Value == "repeat" && (n.Kind == KindOneOrMore || n.Kind == KindZeroOrMore) {
			n.Repeat = d.yamlNode(value, depth+1)
			continue
		}
		if !attributeAllowed(n.Kind, key.Value) {
			d.diags.Add(unknownAttributeError(d.name, key.Line, key.Column, key.Value))
			continue
		}
		d.yamlAttr(n, key.Value, value)
	}
	return d.check(n, nodeKey.Line, nodeKey.Column)
}

func (d *describer) yamlAttr(n *Node, attr string, value *yaml.Node) {
	var e error
	switch attr {
	case "default":
		e = value.Decode(&n.Default)
	case "skip":
		e = value.Decode(&n.Skip)
	case "resolve":
		e = value.Decode(&n.Resolve)
	case "href":
		e = value.Decode(&n.Href)
	case "title":
		e = value.Decode(&n.Title)
	case "css_class":
		e = value.Decode(&n.CSSClass)
	case "linebreaks":
		var names []string
		if e = value.Decode(&names); e == nil {
			n.LineBreaks = d.lineBreaks(names, value.Line, value.Column)
		}
	}
	if e != nil {
		d.diags.Add(invalidAttributeError(d.name, value.Line, value.Column, attr, "has wrong type"))
	}
}
