package diagram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/dialect/antlr4"
	"github.com/ava12/syntaxdoc/internal/ctxlog"
	"github.com/ava12/syntaxdoc/internal/test"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/xref"
)

// shape renders a graph in a compact form: T(terminal), N(non-terminal), C(comment),
// seq(...), stack(...), choice#default(... | ...), opt(...), 1+(item / repeat), 0+(item / repeat).
// A '!' after opt or 0+ marks the skip flag.
func shape(n *Node) string {
	if n == nil {
		return "nil"
	}

	list := func(items []*Node, sep string) string {
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = shape(item)
		}
		return strings.Join(parts, sep)
	}
	loop := func(prefix string) string {
		if n.Skip {
			prefix += "!"
		}
		if n.Repeat == nil {
			return prefix + "(" + shape(n.Item) + ")"
		}
		return prefix + "(" + shape(n.Item) + " / " + shape(n.Repeat) + ")"
	}

	switch n.Kind {
	case KindSkip:
		return "skip"
	case KindSequence:
		return "seq(" + list(n.Items, ", ") + ")"
	case KindStack:
		return "stack(" + list(n.Items, ", ") + ")"
	case KindChoice:
		return fmt.Sprintf("choice#%d(%s)", n.Default, list(n.Items, " | "))
	case KindOptional:
		return loop("opt")
	case KindOneOrMore:
		return loop("1+")
	case KindZeroOrMore:
		return loop("0+")
	case KindTerminal:
		return "T(" + n.Text + ")"
	case KindNonTerminal:
		return "N(" + n.Text + ")"
	case KindComment:
		return "C(" + n.Text + ")"
	default:
		return "?"
	}
}

func quietContext() context.Context {
	return ctxlog.WithLogger(context.Background(), ctxlog.Discard())
}

func load(t *testing.T, text string) (*model.Grammar, *Synthesizer) {
	t.Helper()
	g, diags := antlr4.ParseString("test.g4", text)
	require.NotNil(t, g)
	test.ExpectNoErrors(t, diags)

	reg := xref.NewRegistry()
	require.Nil(t, reg.Register(g))
	return g, &Synthesizer{Lookup: reg.LookupRule}
}

func ruleShape(t *testing.T, s *Synthesizer, g *model.Grammar, name string) string {
	t.Helper()
	r := g.Lookup(name)
	require.NotNil(t, r, name)
	d := s.Rule(quietContext(), r)
	require.NotNil(t, d, name)
	return shape(d.Root)
}

func findHref(n *Node, href string) *Node {
	var res *Node
	n.Walk(func(nn *Node) {
		if res == nil && nn.Href == href {
			res = nn
		}
	})
	return res
}

const recursiveGrammar = `grammar E;
expr : expr '+' term | term ;
//@ doc:keep-diagram-recursive
kept : kept '+' term | term ;
list : term ',' list | term ;
mixed : mixed '*' term | term '^' mixed | term ;
term : NUMBER ;
NUMBER : [0-9]+ ;
PLUS : '+' ;
`

func TestRecursionCollapse(t *testing.T) {
	g, s := load(t, recursiveGrammar)

	assert.Equal(t, "1+(N(term) / T(+))", ruleShape(t, s, g, "expr"))
	assert.Equal(t, "1+(N(term) / T(,))", ruleShape(t, s, g, "list"))
	assert.Equal(t, "seq(N(term), opt(seq(T(^), N(mixed))), 0+(seq(T(*), N(term))))", ruleShape(t, s, g, "mixed"))

	d := s.Rule(quietContext(), g.Lookup("expr"))
	assert.Nil(t, findHref(d.Root, "E.expr"))
	assert.Equal(t, "E.term", d.Root.Item.Href)
	assert.True(t, d.Root.Item.Resolve)
}

func TestIndirectRecursion(t *testing.T) {
	g, s := load(t, `grammar R;
expr : e2 '+' term | term ;
//@ doc:inline
e2 : expr ;
plain : e3 '+' term | 'n' ;
e3 : plain ;
a : b ;
//@ doc:inline
b : a 'x' | 'y' ;
term : 'n' ;
`)

	assert.Equal(t, "1+(N(term) / T(+))", ruleShape(t, s, g, "expr"))
	d := s.Rule(quietContext(), g.Lookup("expr"))
	assert.Nil(t, findHref(d.Root, "R.expr"))
	assert.Nil(t, findHref(d.Root, "R.e2"))

	plain := ruleShape(t, s, g, "plain")
	assert.False(t, strings.HasPrefix(plain, "1+"), plain)
	assert.False(t, strings.Contains(plain, "0+"), plain)
	d = s.Rule(quietContext(), g.Lookup("plain"))
	assert.NotNil(t, findHref(d.Root, "R.e3"))

	assert.Equal(t, "seq(T(y), 0+(T(x)))", ruleShape(t, s, g, "a"))
	d = s.Rule(quietContext(), g.Lookup("a"))
	assert.Nil(t, findHref(d.Root, "R.a"))
}

func TestKeepRecursive(t *testing.T) {
	g, s := load(t, recursiveGrammar)

	assert.Equal(t, "choice#0(seq(N(kept), T(+), N(term)) | N(term))", ruleShape(t, s, g, "kept"))
	d := s.Rule(quietContext(), g.Lookup("kept"))
	self := findHref(d.Root, "E.kept")
	require.NotNil(t, self)
	assert.Equal(t, KindNonTerminal, self.Kind)
}

func TestInlining(t *testing.T) {
	g, s := load(t, `grammar I;
root : 'a' helper 'b' ;
//@ doc:inline
helper : 'x' | 'y' ;
user : self ;
//@ doc:inline
self : 'z' self? ;
`)

	first := s.Rule(quietContext(), g.Lookup("root"))
	assert.Equal(t, "seq(T(a), choice#0(T(x) | T(y)), T(b))", shape(first.Root))
	assert.Nil(t, findHref(first.Root, "I.helper"))

	second := s.Rule(quietContext(), g.Lookup("root"))
	assert.Empty(t, cmp.Diff(first, second))

	assert.Equal(t, "seq(T(z), opt(N(self)))", ruleShape(t, s, g, "user"))
	assert.Equal(t, "seq(T(z), opt(N(self)))", ruleShape(t, s, g, "self"))
}

func TestImportance(t *testing.T) {
	g, s := load(t, `grammar P;
r : a | b | c ;
s : a | b ;
q : b | c2 ;
t : a* ;
u : b* ;
o : a? ;
p : b? ;
//@ doc:unimportant
a : 'a' ;
b : 'b' ;
//@ doc:importance 2
c : 'c' ;
c2 : 'c' ;
`)

	assert.Equal(t, "choice#2(N(a) | N(b) | N(c))", ruleShape(t, s, g, "r"))
	assert.Equal(t, "choice#1(N(a) | N(b))", ruleShape(t, s, g, "s"))
	assert.Equal(t, "choice#0(N(b) | N(c2))", ruleShape(t, s, g, "q"))
	assert.Equal(t, "0+!(N(a))", ruleShape(t, s, g, "t"))
	assert.Equal(t, "0+(N(b))", ruleShape(t, s, g, "u"))
	assert.Equal(t, "opt!(N(a))", ruleShape(t, s, g, "o"))
	assert.Equal(t, "opt(N(b))", ruleShape(t, s, g, "p"))
}

func TestFactoring(t *testing.T) {
	g, s := load(t, `grammar F;
front : X A | X B ;
back : A X | B X ;
partial : X | X A ;
fold : X (',' X)* ;
foldBack : (X ',')* X ;
plain : X (Y)* ;
COMMA : ',' ;
`)

	assert.Equal(t, "seq(T(X), choice#0(T(A) | T(B)))", ruleShape(t, s, g, "front"))
	assert.Equal(t, "seq(choice#0(T(A) | T(B)), T(X))", ruleShape(t, s, g, "back"))
	assert.Equal(t, "seq(T(X), opt(T(A)))", ruleShape(t, s, g, "partial"))
	assert.Equal(t, "1+(T(X) / T(,))", ruleShape(t, s, g, "fold"))
	assert.Equal(t, "1+(T(X) / T(,))", ruleShape(t, s, g, "foldBack"))
	assert.Equal(t, "seq(T(X), 0+(T(Y)))", ruleShape(t, s, g, "plain"))
}

func TestLiteralRendering(t *testing.T) {
	g, s := load(t, "grammar L;\nPLUS : '+' ;\nNL : '\\n' ;\n")
	content := model.Seq(model.NewReference("PLUS"), model.NewReference("NL"), model.NewLiteral(`'A\''`))

	samples := []struct {
		mode     LiteralRendering
		expected string
	}{
		{LiteralContentsUnquoted, "seq(T(+), T(\n), T(A'))"},
		{LiteralContents, "seq(T('+'), T('\n'), T('A''))"},
		{LiteralName, "seq(T(PLUS), T(NL), T('A''))"},
	}
	for _, sample := range samples {
		s.Options.LiteralRendering = sample.mode
		d := s.Content(quietContext(), g, content)
		assert.Equal(t, sample.expected, shape(d.Root), sample.mode.String())
	}

	d := s.Content(quietContext(), g, model.NewReference("PLUS"))
	assert.Equal(t, "L.PLUS", d.Root.Href)
}

func TestParseLiteralRendering(t *testing.T) {
	for _, name := range []string{"name", "contents", "contents-unquoted"} {
		lr, e := ParseLiteralRendering(name)
		require.NoError(t, e)
		assert.Equal(t, name, lr.String())
	}

	lr, e := ParseLiteralRendering("")
	assert.NoError(t, e)
	assert.Equal(t, LiteralContentsUnquoted, lr)

	_, e = ParseLiteralRendering("quoted")
	assert.Error(t, e)
}

func TestDashCase(t *testing.T) {
	samples := map[string]string{
		"expr":       "expr",
		"XMLTag":     "xml-tag",
		"HTTP20":     "http-20",
		"TagXML":     "tag-xml",
		"snake_case": "snake-case",
		"camelCase":  "camel-case",
		"ABC":        "abc",
		"Abc":        "abc",
		"a1":         "a-1",
		"_x":         "-x",
	}
	for name, expected := range samples {
		assert.Equal(t, expected, DashCase(name), name)
	}
}

func TestDashCaseNames(t *testing.T) {
	g, s := load(t, "grammar D;\nmainRule : subRule IDENT_NAME ;\nsubRule : 'x' ;\n//@ doc:name Pretty name\nIDENT_NAME : [a-z]+ ;\n")
	s.Options.DashCase = true
	assert.Equal(t, "seq(N(sub-rule), T(Pretty name))", ruleShape(t, s, g, "mainRule"))
}

func TestUnquote(t *testing.T) {
	samples := []struct {
		text, expected string
		ok             bool
	}{
		{`'abc'`, "abc", true},
		{`'a\tb'`, "a\tb", true},
		{`'\\'`, `\`, true},
		{`'\u{1F600}'`, "\U0001F600", true},
		{`'\x41'`, "A", true},
		{`'\q'`, `\q`, true},
		{`'\u00'`, `'\u00'`, false},
		{`"abc"`, `"abc"`, false},
		{`'`, `'`, false},
	}
	for _, s := range samples {
		res, ok := Unquote(s.text)
		assert.Equal(t, s.expected, res, s.text)
		assert.Equal(t, s.ok, ok, s.text)
	}
}

func TestUnresolved(t *testing.T) {
	g, s := load(t, "grammar U;\nr : missing UNKNOWN 'q' ;\n")

	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
	d := s.Rule(ctx, g.Lookup("r"))

	assert.Equal(t, "seq(N(missing), T(UNKNOWN), T(q))", shape(d.Root))
	assert.Nil(t, findHref(d.Root, "U.missing"))
	assert.Equal(t, 3, strings.Count(buf.String(), "unresolved reference"))
	assert.Contains(t, buf.String(), "name=missing")
	assert.Contains(t, buf.String(), "line=2")
}

func TestEndClass(t *testing.T) {
	g, s := load(t, "grammar R;\nroot : item ;\nitem : 'x' ;\n")

	assert.Equal(t, EndDefault, s.Rule(quietContext(), g.Lookup("root")).EndClass)

	s.Options.RootRule = g.Lookup("root")
	s.Options.MarkRootRule = true
	assert.Equal(t, EndComplex, s.Rule(quietContext(), g.Lookup("root")).EndClass)
	assert.Equal(t, EndSimple, s.Rule(quietContext(), g.Lookup("item")).EndClass)
}

func TestNoContent(t *testing.T) {
	g, s := load(t, "grammar N;\ntokens { T }\nr : T ;\n")
	assert.Nil(t, s.Rule(quietContext(), g.Lookup("T")))
	assert.Nil(t, s.Content(quietContext(), g, nil))
}

func TestConcurrentSynthesis(t *testing.T) {
	g, s := load(t, recursiveGrammar)
	expected := s.Rule(quietContext(), g.Lookup("mixed"))

	var wg sync.WaitGroup
	results := make([]*Diagram, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.Rule(quietContext(), g.Lookup("mixed"))
		}()
	}
	wg.Wait()

	for _, d := range results {
		assert.Empty(t, cmp.Diff(expected, d))
	}
}

func TestMarshalJSON(t *testing.T) {
	leaf := Terminal("x")
	leaf.Href = "G.x"
	leaf.Resolve = true
	d := &Diagram{
		Root: Sequence([]*Node{
			leaf,
			Optional(NonTerminal("y"), true),
			Choice(1, Skip(), Comment("c")),
			OneOrMore(Terminal("z"), Terminal(",")),
		}, []model.LineBreak{model.LineBreakHard, model.LineBreakDefault, model.LineBreakSoft}),
		EndClass: EndComplex,
	}

	data, e := json.Marshal(d)
	require.NoError(t, e)
	assert.JSONEq(t, `{
		"end_class": "complex",
		"root": {
			"sequence": [
				{"terminal": "x", "href": "G.x", "resolve": true},
				{"optional": {"non_terminal": "y"}, "skip": true},
				{"choice": [null, {"comment": "c"}], "default": 1},
				{"one_or_more": {"terminal": "z"}, "repeat": {"terminal": ","}}
			],
			"linebreaks": ["hard", "default", "soft"]
		}
	}`, string(data))

	parsed, diags := ParseYAML("out.json", data)
	assert.Empty(t, diags)
	assert.Empty(t, cmp.Diff(d, parsed))
}

func TestSynthesizedGraphReloads(t *testing.T) {
	g, s := load(t, recursiveGrammar)
	d := s.Rule(quietContext(), g.Lookup("mixed"))
	data, e := json.Marshal(d)
	require.NoError(t, e)

	parsed, diags := ParseYAML("mixed.json", data)
	assert.Empty(t, diags)
	assert.Empty(t, cmp.Diff(d, parsed))
}

const yamlDescription = `
- terminal: SELECT
  href: https://example.com/select
- optional:
    non_terminal: expr
  skip: true
- choice: [a, b]
  default: 1
- one_or_more: item
  repeat: ","
- null
- bogus: 1
- terminal: x
  colour: red
`

func TestParseYAML(t *testing.T) {
	d, diags := ParseYAML("select.yaml", []byte(yamlDescription))
	require.NotNil(t, d)

	assert.Equal(t, "seq(T(SELECT), opt!(N(expr)), choice#1(T(a) | T(b)), 1+(T(item) / T(,)), skip, T(no node key in a mapping), T(x))",
		shape(d.Root))
	assert.Equal(t, "https://example.com/select", d.Root.Items[0].Href)
	assert.Equal(t, "error", d.Root.Items[5].CSSClass)

	require.Len(t, diags, 2)
	e := test.ExpectDiagnostic(t, diags, InvalidNodeError, syntaxdoc.SeverityError)
	assert.Equal(t, 12, e.Line)
	e = test.ExpectDiagnostic(t, diags, UnknownAttributeError, syntaxdoc.SeverityWarning)
	assert.Equal(t, 14, e.Line)
}

func TestParseYAMLErrors(t *testing.T) {
	d, diags := ParseYAML("bad.yaml", []byte("- [unclosed"))
	assert.Nil(t, d)
	test.ExpectDiagnostic(t, diags, MalformedDescriptionError, syntaxdoc.SeverityError)

	d, diags = ParseYAML("two.yaml", []byte("terminal: a\nnon_terminal: b\n"))
	require.NotNil(t, d)
	assert.Equal(t, KindTerminal, d.Root.Kind)
	test.ExpectDiagnostic(t, diags, InvalidNodeError, syntaxdoc.SeverityError)

	d, diags = ParseYAML("empty.yaml", []byte("choice: []\n"))
	assert.Equal(t, "error", d.Root.CSSClass)
	test.ExpectDiagnostic(t, diags, InvalidNodeError, syntaxdoc.SeverityError)

	d, diags = ParseYAML("range.yaml", []byte("choice: [a, b]\ndefault: 5\n"))
	assert.Equal(t, 0, d.Root.Default)
	test.ExpectDiagnostic(t, diags, InvalidAttributeError, syntaxdoc.SeverityWarning)
}

const hclDescription = `end_class = "complex"

terminal "SELECT" {
  href = "#select"
}
optional {
  skip = true
  non_terminal "expr" {}
}
choice {
  default = 1
  terminal "a" {}
  terminal "b" {}
}
one_or_more {
  non_terminal "item" {}
  repeat {
    terminal "," {}
  }
}
sequence {
  linebreaks = ["hard"]
  terminal "x" {}
  terminal "y" {}
}
widget {}
terminal "z" {
  colour = "red"
}
`

func TestParseHCL(t *testing.T) {
	d, diags := ParseHCL("select.hcl", []byte(hclDescription))
	require.NotNil(t, d)

	assert.Equal(t, EndComplex, d.EndClass)
	assert.Equal(t, `seq(T(SELECT), opt!(N(expr)), choice#1(T(a) | T(b)), 1+(N(item) / T(,)), seq(T(x), T(y)), T(unknown diagram node "widget"), T(z))`,
		shape(d.Root))
	assert.Equal(t, "#select", d.Root.Items[0].Href)
	assert.Equal(t, []model.LineBreak{model.LineBreakHard}, d.Root.Items[4].LineBreaks)

	require.Len(t, diags, 2)
	e := test.ExpectDiagnostic(t, diags, UnknownNodeError, syntaxdoc.SeverityError)
	assert.Equal(t, 26, e.Line)
	e = test.ExpectDiagnostic(t, diags, UnknownAttributeError, syntaxdoc.SeverityWarning)
	assert.Equal(t, 28, e.Line)
}

func TestParseHCLErrors(t *testing.T) {
	d, diags := ParseHCL("bad.hcl", []byte("terminal \"a\" {\n"))
	assert.Nil(t, d)
	test.ExpectDiagnostic(t, diags, MalformedDescriptionError, syntaxdoc.SeverityError)

	d, diags = ParseHCL("labels.hcl", []byte("terminal {}\nchoice {\n  default = \"first\"\n  terminal \"a\" {}\n}\n"))
	require.NotNil(t, d)
	assert.Equal(t, "seq(T(terminal requires a single label), choice#0(T(a)))", shape(d.Root))
	test.ExpectDiagnostic(t, diags, InvalidNodeError, syntaxdoc.SeverityError)
	test.ExpectDiagnostic(t, diags, InvalidAttributeError, syntaxdoc.SeverityWarning)
}
