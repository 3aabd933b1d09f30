package xref

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/internal/test"
	"github.com/ava12/syntaxdoc/model"
)

func grammar(name string, imports []string, rules ...string) *model.Grammar {
	g := model.NewGrammar(name, name+".g4")
	for _, imp := range imports {
		g.AddImport(imp)
	}
	for _, r := range rules {
		g.AddRule(model.NewRule(model.ParserRule, r, model.Position{File: g.Path}))
	}
	return g
}

type fixture struct {
	reg                *Registry
	main, i1, i2, deep *model.Grammar
}

func newFixture(t *testing.T) fixture {
	f := fixture{
		reg:  NewRegistry(),
		main: grammar("Main", []string{"I1", "I2"}, "x"),
		i1:   grammar("I1", []string{"Deep"}, "x", "y", "Deep"),
		i2:   grammar("I2", nil, "y", "z", "v"),
		deep: grammar("Deep", []string{"Main"}, "v", "w"),
	}
	for _, g := range []*model.Grammar{f.main, f.i1, f.i2, f.deep} {
		require.Nil(t, f.reg.Register(g))
	}
	return f
}

func TestResolutionOrder(t *testing.T) {
	f := newFixture(t)

	samples := []struct {
		name     string
		expected *model.Grammar
	}{
		{"x", f.main},
		{"y", f.i1},
		{"z", f.i2},
		{"v", f.i2},
		{"w", f.deep},
	}
	for _, s := range samples {
		o := f.reg.Resolve(f.main, RoleRule, "", s.name)
		require.NotNil(t, o.Rule, s.name)
		assert.Same(t, s.expected, o.Rule.Grammar, s.name)
	}

	assert.False(t, f.reg.Resolve(f.main, RoleRule, "", "missing").Found())
	assert.False(t, f.reg.Resolve(f.i2, RoleRule, "", "x").Found())
	assert.Equal(t, []*model.Grammar{f.i1, f.i2, f.deep}, f.reg.Imported(f.main))
}

func TestQualifiedResolution(t *testing.T) {
	f := newFixture(t)

	o := f.reg.Resolve(f.main, RoleRule, "I1", "x")
	require.NotNil(t, o.Rule)
	assert.Same(t, f.i1, o.Rule.Grammar)
	assert.Equal(t, "I1.x", o.Path())

	o = f.reg.Resolve(f.main, RoleRule, "Main", "y")
	require.NotNil(t, o.Rule)
	assert.Same(t, f.i1, o.Rule.Grammar)

	assert.False(t, f.reg.Resolve(f.i2, RoleRule, "Main", "y").Found())
	assert.False(t, f.reg.Resolve(nil, RoleRule, "Main", "y").Found())
	assert.False(t, f.reg.Resolve(f.main, RoleRule, "Missing", "x").Found())
}

func TestObjectRole(t *testing.T) {
	f := newFixture(t)

	o := f.reg.Resolve(nil, RoleObject, "", "y")
	require.NotNil(t, o.Rule)
	assert.Same(t, f.i1, o.Rule.Grammar)

	o = f.reg.Resolve(nil, RoleObject, "", "I2")
	assert.Nil(t, o.Rule)
	assert.Same(t, f.i2, o.Grammar)

	o = f.reg.Resolve(f.i2, RoleObject, "", "Deep")
	require.NotNil(t, o.Rule)
	assert.Equal(t, "I1.Deep", o.Path())

	assert.Same(t, f.deep, f.reg.Resolve(f.i2, RoleGrammar, "", "Deep").Grammar)
	assert.False(t, f.reg.Resolve(f.main, RoleGrammar, "", "x").Found())
	assert.False(t, f.reg.Resolve(f.i2, RoleRule, "", "I1").Found())

	o = f.reg.Resolve(nil, RoleRule, "", "w")
	require.NotNil(t, o.Rule)
	assert.Same(t, f.deep, o.Rule.Grammar)
}

func TestDuplicateGrammar(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.reg.Register(f.i1))

	dup := grammar("I1", nil, "q")
	e := f.reg.Register(dup)
	require.NotNil(t, e)
	assert.Equal(t, DuplicateGrammarError, e.Code)
	assert.Equal(t, syntaxdoc.SeverityWarning, e.Severity)
	assert.Same(t, f.i1, f.reg.Grammar("I1"))
	assert.Len(t, f.reg.Grammars(), 4)
}

func TestConcurrentRegistration(t *testing.T) {
	reg := NewRegistry()
	g := grammar("G", nil, "a")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.Register(g)
			reg.Resolve(g, RoleRule, "", "a")
		}()
	}
	wg.Wait()

	assert.Equal(t, []*model.Grammar{g}, reg.Grammars())
}

func TestParseTarget(t *testing.T) {
	samples := []struct {
		text     string
		expected Target
	}{
		{"rule", Target{Name: "rule"}},
		{"G.rule", Target{Qualifier: "G", Name: "rule"}},
		{"~G.rule", Target{Qualifier: "G", Name: "rule", Unqualified: true}},
		{".rule", Target{Name: "rule"}},
		{"'.'", Target{Name: "'.'"}},
		{"G.", Target{Name: "G."}},
		{" G ", Target{Name: "G"}},
	}

	for _, s := range samples {
		assert.Equal(t, s.expected, ParseTarget(s.text), s.text)
	}
}

func TestTitle(t *testing.T) {
	f := newFixture(t)

	o, target := f.reg.ResolveTarget(f.main, RoleRule, "~I1.y")
	assert.Equal(t, "y", o.Title(target))

	o, target = f.reg.ResolveTarget(f.main, RoleRule, "I1.y")
	assert.Equal(t, "I1.y", o.Title(target))

	o.Rule.DisplayName = "Why"
	assert.Equal(t, "Why", o.Title(target))

	o, target = f.reg.ResolveTarget(f.main, RoleRule, "nothing")
	assert.False(t, o.Found())
	assert.Equal(t, "nothing", o.Title(target))
}

func TestReachable(t *testing.T) {
	reg := NewRegistry()
	g := model.NewGrammar("G", "g.g4")
	add := func(name string, content model.Content) {
		r := model.NewRule(model.ParserRule, name, model.Position{})
		r.Content = content
		g.AddRule(r)
	}
	add("root", model.NewReference("A"))
	add("A", model.Seq(model.NewReference("B"), model.NewZeroPlus(model.NewReference("A"))))
	add("B", model.NewAlternative(model.NewLiteral("'x'"), model.NewReference("missing")))
	add("C", model.NewLiteral("'y'"))
	require.Nil(t, reg.Register(g))

	var names []string
	for _, r := range Reachable(g.Lookup("root"), reg.LookupRule) {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"root", "A", "B"}, names)
}

func TestUnresolvedErr(t *testing.T) {
	e := UnresolvedErr(model.Position{File: "g.g4", Line: 3, Col: 5}, "G.x")
	test.ExpectErrorCode(t, UnresolvedError, e)
	assert.True(t, e.IsWarning())
	assert.Equal(t, 3, e.Line)
}
