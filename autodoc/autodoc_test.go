package autodoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/syntaxdoc/dialect/antlr4"
	"github.com/ava12/syntaxdoc/internal/test"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/xref"
)

const listGrammar = `grammar A;

/// Main section

/** Root rule. */
root : a b ;
/** A rule. */
a : 'x' B ;
/** B rule. */
b : A_TOK ;
/** Unreachable. */
c : 'y' ;
undoc : 'z' ;
/** Inline. */
//@ doc:inline
inl : 'i' ;

/// Tokens

/** Token B. */
B : 'b' ;
/** Token A. */
A_TOK : 'a' ;
/** Digit. */
fragment DIGIT : [0-9] ;
/** Hidden. */
//@ doc:nodoc
HIDDEN : 'h' ;
`

func load(t *testing.T) *model.Grammar {
	t.Helper()
	g, diags := antlr4.ParseString("a.g4", listGrammar)
	require.NotNil(t, g)
	test.ExpectNoErrors(t, diags)
	return g
}

func names(entries []Entry) []string {
	res := make([]string, len(entries))
	for i, e := range entries {
		if e.IsSection() {
			res[i] = "# " + model.DocText(e.Section.Docs)
		} else {
			res[i] = e.Rule.Name
		}
	}
	return res
}

func TestDefaultListing(t *testing.T) {
	g := load(t)
	entries := List(g, DefaultOptions(), nil)
	assert.Equal(t, []string{"# Main section", "root", "a", "b", "c", "# Tokens", "B", "A_TOK"}, names(entries))
}

func TestOptions(t *testing.T) {
	g := load(t)

	samples := []struct {
		name     string
		opts     Options
		expected []string
	}{
		{
			"mixed by name",
			Options{LexerRules: true, ParserRules: true, Fragments: true, Undocumented: true, HonorSections: true, Grouping: Mixed, Ordering: ByName},
			[]string{"a", "A_TOK", "B", "b", "c", "DIGIT", "root", "undoc"},
		},
		{
			"lexer first",
			Options{LexerRules: true, ParserRules: true, Grouping: LexerFirst},
			[]string{"B", "A_TOK", "root", "a", "b", "c"},
		},
		{
			"lexer only with fragments",
			Options{LexerRules: true, Fragments: true, HonorSections: true},
			[]string{"# Tokens", "B", "A_TOK", "DIGIT"},
		},
		{
			"fragments need lexer rules",
			Options{ParserRules: true, Fragments: true, Undocumented: true},
			[]string{"root", "a", "b", "c", "undoc"},
		},
		{
			"mixed by source",
			Options{LexerRules: true, ParserRules: true, HonorSections: true},
			[]string{"# Main section", "root", "a", "b", "c", "# Tokens", "B", "A_TOK"},
		},
	}
	for _, s := range samples {
		assert.Equal(t, s.expected, names(List(g, s.opts, nil)), s.name)
	}
}

func TestRootRuleFilter(t *testing.T) {
	g := load(t)
	reg := xref.NewRegistry()
	require.Nil(t, reg.Register(g))

	reachable := xref.Reachable(g.Lookup("root"), reg.LookupRule)
	opts := DefaultOptions()
	opts.Grouping = LexerFirst
	entries := List(g, opts, reachable)
	assert.Equal(t, []string{"# Tokens", "B", "A_TOK", "# Main section", "root", "a", "b"}, names(entries))

	assert.Empty(t, List(g, opts, []*model.Rule{}))
	assert.Nil(t, List(nil, opts, nil))
}

func TestParseNames(t *testing.T) {
	for _, name := range []string{"mixed", "lexer-first", "parser-first"} {
		g, e := ParseGrouping(name)
		require.NoError(t, e)
		assert.Equal(t, name, g.String())
	}
	for _, name := range []string{"by-source", "by-name"} {
		o, e := ParseOrdering(name)
		require.NoError(t, e)
		assert.Equal(t, name, o.String())
	}

	_, e := ParseGrouping("lexer-last")
	assert.Error(t, e)
	_, e = ParseOrdering("random")
	assert.Error(t, e)

	var g Grouping
	require.NoError(t, g.UnmarshalText([]byte("lexer-first")))
	assert.Equal(t, LexerFirst, g)
	text, _ := ByName.MarshalText()
	assert.Equal(t, "by-name", string(text))
}
