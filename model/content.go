package model

import (
	"strings"
)

// Kind enumerates rule content node types.
type Kind int

const (
	KindSequence Kind = iota
	KindAlternative
	KindZeroPlus
	KindOnePlus
	KindNegation
	KindWildcard
	KindLiteral
	KindRange
	KindCharSet
	KindReference
	KindDoc
)

var kindNames = [...]string{
	"sequence", "alternative", "zero-plus", "one-plus", "negation", "wildcard",
	"literal", "range", "charset", "reference", "doc",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// precedence levels used by String:
const (
	precAlternative = iota
	precSequence
	_
	precUnary
	precAtom
)

// Content is a node of rule body AST. The set of implementations is closed,
// all of them are pointers and are never modified after construction.
type Content interface {
	Kind() Kind
	String() string
	precedence() int
}

// LineBreak tells the renderer where a long sequence may be wrapped.
type LineBreak int

const (
	LineBreakDefault LineBreak = iota
	LineBreakSoft
	LineBreakHard
	LineBreakNone
)

var lineBreakNames = [...]string{"default", "soft", "hard", "no-break"}

func (lb LineBreak) String() string {
	if lb < 0 || int(lb) >= len(lineBreakNames) {
		return lineBreakNames[0]
	}
	return lineBreakNames[lb]
}

func (lb LineBreak) MarshalText() ([]byte, error) {
	return []byte(lb.String()), nil
}

// Sequence matches its items in order. LineBreaks has one element less than Items.
type Sequence struct {
	Items      []Content
	LineBreaks []LineBreak
}

// Alternative matches any of its items.
type Alternative struct {
	Items []Content
}

// ZeroPlus matches its item zero or more times.
type ZeroPlus struct {
	Item Content
}

// OnePlus matches its item one or more times.
type OnePlus struct {
	Item Content
}

// Negation matches anything but its item.
type Negation struct {
	Item Content
}

// Wildcard matches any single token or character.
type Wildcard struct{}

// Literal is a fixed text, Text keeps the source quotes and escapes (e.g. 'kwd').
type Literal struct {
	Text string
}

// Range is a character range, Start and End keep the source quotes.
type Range struct {
	Start, End string
}

// CharSet is a character set description with square brackets included.
type CharSet struct {
	Text string
}

// Reference refers to a rule by name. Grammar is an optional qualifier.
// References are resolved lazily through a lookup.
type Reference struct {
	Name    string
	Grammar string
}

// Doc is an inline documentation comment inside a rule body.
type Doc struct {
	Text string
}

var (
	// Empty is the empty sequence. Constructors return it for anything that matches nothing.
	Empty Content = &Sequence{}

	// AnyChar is the only Wildcard node.
	AnyChar Content = &Wildcard{}
)

func (*Sequence) Kind() Kind    { return KindSequence }
func (*Alternative) Kind() Kind { return KindAlternative }
func (*ZeroPlus) Kind() Kind    { return KindZeroPlus }
func (*OnePlus) Kind() Kind     { return KindOnePlus }
func (*Negation) Kind() Kind    { return KindNegation }
func (*Wildcard) Kind() Kind    { return KindWildcard }
func (*Literal) Kind() Kind     { return KindLiteral }
func (*Range) Kind() Kind       { return KindRange }
func (*CharSet) Kind() Kind     { return KindCharSet }
func (*Reference) Kind() Kind   { return KindReference }
func (*Doc) Kind() Kind         { return KindDoc }

func (*Sequence) precedence() int    { return precSequence }
func (*Alternative) precedence() int { return precAlternative }
func (*ZeroPlus) precedence() int    { return precUnary }
func (*OnePlus) precedence() int     { return precUnary }
func (*Negation) precedence() int    { return precUnary }
func (*Wildcard) precedence() int    { return precAtom }
func (*Literal) precedence() int     { return precAtom }
func (*Range) precedence() int       { return precAtom }
func (*CharSet) precedence() int     { return precAtom }
func (*Reference) precedence() int   { return precAtom }
func (*Doc) precedence() int         { return precAtom }

func wrap(child Content, parentPrec int) string {
	if child.precedence() > parentPrec {
		return child.String()
	}
	return "(" + child.String() + ")"
}

func join(items []Content, prec int, sep string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = wrap(item, prec)
	}
	return strings.Join(parts, sep)
}

func (c *Sequence) String() string    { return join(c.Items, precSequence, " ") }
func (c *Alternative) String() string { return join(c.Items, precAlternative, " | ") }
func (c *ZeroPlus) String() string    { return wrap(c.Item, precUnary) + "*" }
func (c *OnePlus) String() string     { return wrap(c.Item, precUnary) + "+" }
func (c *Negation) String() string    { return "~" + wrap(c.Item, precUnary) }
func (c *Wildcard) String() string    { return "." }
func (c *Literal) String() string     { return c.Text }
func (c *Range) String() string       { return c.Start + ".." + c.End }
func (c *CharSet) String() string     { return c.Text }
func (c *Doc) String() string         { return "/** " + c.Text + " */" }

func (c *Reference) String() string {
	if c.Grammar != "" {
		return c.Grammar + "." + c.Name
	}
	return c.Name
}

// IsEmpty reports whether c matches nothing but the empty string.
func IsEmpty(c Content) bool {
	s, ok := c.(*Sequence)
	return ok && len(s.Items) == 0
}

// NewSequence creates a sequence. Nested sequences are flattened, empty items are dropped,
// a single remaining item is returned as is. lineBreaks may be nil, otherwise it must have
// one element less than items.
func NewSequence(items []Content, lineBreaks []LineBreak) Content {
	resItems := make([]Content, 0, len(items))
	resBreaks := make([]LineBreak, 0, len(items))
	for i, item := range items {
		if item == nil || IsEmpty(item) {
			continue
		}

		if len(resItems) > 0 {
			lb := LineBreakDefault
			if i > 0 && i-1 < len(lineBreaks) {
				lb = lineBreaks[i-1]
			}
			resBreaks = append(resBreaks, lb)
		}

		if s, ok := item.(*Sequence); ok {
			resItems = append(resItems, s.Items...)
			resBreaks = append(resBreaks, s.LineBreaks...)
		} else {
			resItems = append(resItems, item)
		}
	}

	switch len(resItems) {
	case 0:
		return Empty
	case 1:
		return resItems[0]
	default:
		return &Sequence{Items: resItems, LineBreaks: resBreaks}
	}
}

// Seq is a shortcut for NewSequence with default line breaks.
func Seq(items ...Content) Content {
	return NewSequence(items, nil)
}

// NewAlternative creates an alternative. Nested alternatives are flattened,
// empty list yields Empty, a single item is returned as is.
func NewAlternative(items ...Content) Content {
	res := make([]Content, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if a, ok := item.(*Alternative); ok {
			res = append(res, a.Items...)
		} else {
			res = append(res, item)
		}
	}

	switch len(res) {
	case 0:
		return Empty
	case 1:
		return res[0]
	default:
		return &Alternative{Items: res}
	}
}

// NewOptional creates an alternative of Empty and item.
func NewOptional(item Content) Content {
	if IsEmpty(item) {
		return Empty
	}
	return NewAlternative(Empty, item)
}

func NewZeroPlus(item Content) Content {
	if IsEmpty(item) {
		return Empty
	}
	return &ZeroPlus{Item: item}
}

func NewOnePlus(item Content) Content {
	if IsEmpty(item) {
		return Empty
	}
	return &OnePlus{Item: item}
}

func NewNegation(item Content) Content {
	return &Negation{Item: item}
}

func NewLiteral(text string) Content {
	return &Literal{Text: text}
}

func NewRange(start, end string) Content {
	return &Range{Start: start, End: end}
}

func NewCharSet(text string) Content {
	return &CharSet{Text: text}
}

func NewReference(name string) Content {
	return &Reference{Name: name}
}

func NewDoc(text string) Content {
	return &Doc{Text: text}
}

// Children returns direct child nodes of c.
func Children(c Content) []Content {
	switch c := c.(type) {
	case *Sequence:
		return c.Items
	case *Alternative:
		return c.Items
	case *ZeroPlus:
		return []Content{c.Item}
	case *OnePlus:
		return []Content{c.Item}
	case *Negation:
		return []Content{c.Item}
	default:
		return nil
	}
}

// Walk calls f for c and all its descendants in depth-first order.
// Children of a node are skipped if f returns false for it.
func Walk(c Content, f func(Content) bool) {
	if c == nil || !f(c) {
		return
	}
	for _, child := range Children(c) {
		Walk(child, f)
	}
}

// Key returns a string that is equal for structurally equal nodes and different otherwise.
func Key(c Content) string {
	var sb strings.Builder
	writeKey(&sb, c)
	return sb.String()
}

func writeKey(sb *strings.Builder, c Content) {
	switch c := c.(type) {
	case nil:
		sb.WriteString("nil")
	case *Sequence, *Alternative, *ZeroPlus, *OnePlus, *Negation:
		sb.WriteString(c.Kind().String())
		sb.WriteByte('(')
		for i, child := range Children(c) {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeKey(sb, child)
		}
		sb.WriteByte(')')
	case *Wildcard:
		sb.WriteString("wildcard")
	case *Literal:
		writeAtomKey(sb, "literal", c.Text)
	case *Range:
		writeAtomKey(sb, "range", c.Start, c.End)
	case *CharSet:
		writeAtomKey(sb, "charset", c.Text)
	case *Reference:
		writeAtomKey(sb, "reference", c.Grammar, c.Name)
	case *Doc:
		writeAtomKey(sb, "doc", c.Text)
	}
}

func writeAtomKey(sb *strings.Builder, kind string, values ...string) {
	sb.WriteString(kind)
	for _, v := range values {
		sb.WriteByte(':')
		sb.WriteString(quoteKey(v))
	}
}

var keyEscaper = strings.NewReplacer("\\", "\\\\", ":", "\\:", ",", "\\,", "(", "\\(", ")", "\\)")

func quoteKey(s string) string {
	return keyEscaper.Replace(s)
}

// Equal reports whether a and b are structurally equal. Line breaks are not compared.
func Equal(a, b Content) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind() != b.Kind() {
		return false
	}

	switch a := a.(type) {
	case *Literal:
		return a.Text == b.(*Literal).Text
	case *Range:
		bb := b.(*Range)
		return a.Start == bb.Start && a.End == bb.End
	case *CharSet:
		return a.Text == b.(*CharSet).Text
	case *Reference:
		bb := b.(*Reference)
		return a.Name == bb.Name && a.Grammar == bb.Grammar
	case *Doc:
		return a.Text == b.(*Doc).Text
	case *Wildcard:
		return true
	}

	ac, bc := Children(a), Children(b)
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if !Equal(ac[i], bc[i]) {
			return false
		}
	}
	return true
}
