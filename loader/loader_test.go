package loader

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/syntaxdoc/dialect"
	"github.com/ava12/syntaxdoc/internal/ctxlog"
	"github.com/ava12/syntaxdoc/internal/test"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/xref"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func quietContext() context.Context {
	return ctxlog.WithLogger(context.Background(), ctxlog.Discard())
}

var opts = model.DefaultLoadingOptions()

func TestDefaultDialects(t *testing.T) {
	table := DefaultDialects()
	assert.Equal(t, "antlr4", table.Find("x/Expr.g4").Name())
	assert.Equal(t, "bison", table.Find("parse.Y").Name())
	assert.Equal(t, "bison", table.Find("parse.yy").Name())
	assert.Equal(t, "llx", table.Find("json.llx").Name())
	assert.Nil(t, table.Find("notes.txt"))
}

func TestMissingFile(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
	l := New(nil, nil)

	m := l.Load(ctx, filepath.Join(t.TempDir(), "missing.g4"), opts)
	require.NotNil(t, m)
	assert.Nil(t, m.Grammar)
	assert.True(t, m.IsEmpty())
	assert.Empty(t, m.Rules())
	require.Len(t, m.Diagnostics, 1)
	test.ExpectErrorCode(t, ReadError, m.Diagnostics[0])

	assert.Equal(t, 1, strings.Count(buf.String(), "level=ERROR"))
	assert.Contains(t, buf.String(), "code=1")
	assert.Empty(t, l.Registry().Grammars())
}

func TestUnknownDialect(t *testing.T) {
	dir := writeFiles(t, map[string]string{"notes.txt": "grammar G;"})
	m := New(nil, nil).Load(quietContext(), filepath.Join(dir, "notes.txt"), opts)
	assert.Nil(t, m.Grammar)
	require.Len(t, m.Diagnostics, 1)
	test.ExpectErrorCode(t, UnknownDialectError, m.Diagnostics[0])
}

func TestConcurrentLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"Main.g4": "grammar Main;\nimport Lib;\nr : x ;\ns : r ;\n",
		"Lib.g4":  "grammar Lib;\nx : 'x' ;\n",
	})
	l := New(nil, nil)
	ctx := quietContext()

	const n = 16
	models := make([]*model.Model, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path := filepath.Join(dir, "Main.g4")
			if i%2 == 1 {
				path = filepath.Join(dir, "sub", "..", "Main.g4")
			}
			models[i] = l.Load(ctx, path, opts)
		}()
	}
	wg.Wait()

	for _, m := range models {
		assert.Same(t, models[0], m)
	}
	assert.Empty(t, models[0].Diagnostics)

	grammars := l.Registry().Grammars()
	require.Len(t, grammars, 2)
	assert.Same(t, models[0].Grammar, grammars[0])
	assert.Equal(t, "Lib", grammars[1].Name)
	assert.Len(t, models[0].Grammar.Rules, 2)
}

func TestImports(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"Main.g4":   "grammar Main;\noptions { tokenVocab = Tokens; }\nimport Lib, Missing;\nr : x T ;\n",
		"Lib.g4":    "grammar Lib;\nimport Main;\nx : 'x' ;\n",
		"Tokens.g4": "lexer grammar Tokens;\nT : 't' ;\n",
		"Other.y":   "%%\nunused : ;\n",
	})
	l := New(nil, nil)
	m := l.Load(quietContext(), filepath.Join(dir, "Main.g4"), opts)

	reg := l.Registry()
	assert.Len(t, reg.Grammars(), 3)
	for _, name := range []string{"x", "T"} {
		o := reg.Resolve(m.Grammar, xref.RoleRule, "", name)
		assert.True(t, o.Found(), name)
	}
	assert.Equal(t, filepath.Join(dir, "Lib.g4"), reg.Grammar("Lib").Path)
}

func TestDuplicateGrammarName(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a/G.g4": "grammar G;\na : 'a' ;\n",
		"b/G.g4": "grammar G;\nb : 'b' ;\n",
	})
	l := New(nil, nil)
	ctx := quietContext()

	first := l.Load(ctx, filepath.Join(dir, "a", "G.g4"), opts)
	second := l.Load(ctx, filepath.Join(dir, "b", "G.g4"), opts)

	assert.Empty(t, first.Diagnostics)
	require.Len(t, second.Diagnostics, 1)
	assert.Equal(t, xref.DuplicateGrammarError, second.Diagnostics[0].Code)
	assert.True(t, second.Diagnostics[0].IsWarning())
	assert.NotNil(t, second.Grammar)
	assert.Same(t, first.Grammar, l.Registry().Grammar("G"))
}

func TestLoadText(t *testing.T) {
	l := New(dialect.NewTable(), nil)
	m := l.LoadText(quietContext(), "x.g4", "grammar X; a : b ;", opts)
	test.ExpectErrorCode(t, UnknownDialectError, m.Diagnostics[0])

	l = New(nil, nil)
	m = l.LoadText(quietContext(), "calc.y", "%token NUM\n%%\ne : NUM ;\n", opts)
	require.NotNil(t, m.Grammar)
	assert.Equal(t, "calc", m.Grammar.Name)
	assert.Len(t, m.Rules(), 2)
	assert.Empty(t, l.Registry().Grammars())
}

func TestLoadAll(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"A.g4": "grammar A;\na : 'a' ;\n",
		"b.y":  "%%\nb : 'b' ;\n",
	})
	paths := []string{
		filepath.Join(dir, "A.g4"),
		filepath.Join(dir, "missing.g4"),
		filepath.Join(dir, "b.y"),
	}
	l := New(nil, nil)

	models, e := l.LoadAll(quietContext(), paths, opts)
	require.NoError(t, e)
	require.Len(t, models, 3)
	assert.Equal(t, "A", models[0].Grammar.Name)
	assert.Nil(t, models[1].Grammar)
	assert.Equal(t, "b", models[2].Grammar.Name)
	assert.Len(t, l.Registry().Grammars(), 2)

	ctx, cancel := context.WithCancel(quietContext())
	cancel()
	_, e = New(nil, nil).LoadAll(ctx, paths, opts)
	assert.ErrorIs(t, e, context.Canceled)
}

func TestRootRule(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"R.g4":     "grammar R;\nroot : a ;\na : b ;\nb : 'x' ;\nc : 'y' ;\n",
		"sub/S.g4": "grammar S;\ns : 's' ;\n",
	})
	l := New(nil, nil)
	l.BaseDir = dir
	ctx := quietContext()
	g := l.Load(ctx, filepath.Join(dir, "R.g4"), opts).Grammar
	require.NotNil(t, g)

	r, e := l.RootRule(ctx, g, "root", opts)
	require.Nil(t, e)
	assert.Equal(t, "R.root", r.Path())

	var names []string
	for _, rr := range xref.Reachable(r, l.Registry().LookupRule) {
		names = append(names, rr.Name)
	}
	assert.Equal(t, []string{"root", "a", "b"}, names)

	r, e = l.RootRule(ctx, nil, "R.c", opts)
	require.Nil(t, e)
	assert.Equal(t, "c", r.Name)

	r, e = l.RootRule(ctx, g, "sub/S.g4 s", opts)
	require.Nil(t, e)
	assert.Equal(t, "S.s", r.Path())

	_, e = l.RootRule(ctx, g, "missing", opts)
	require.NotNil(t, e)
	assert.Equal(t, xref.UnresolvedError, e.Code)

	_, e = l.RootRule(ctx, g, "Nowhere.root", opts)
	require.NotNil(t, e)
	assert.Equal(t, xref.UnresolvedError, e.Code)

	_, e = l.RootRule(ctx, g, "none.g4 root", opts)
	require.NotNil(t, e)
	assert.Equal(t, ReadError, e.Code)
}

func TestLlxGrammar(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"calc.llx": `!aside $space;
$space = /\s+/;
$number = /\d+/;
$op = /[+*()]/;

calc = expr;
expr = pro, {'+', pro};
pro = value, {'*', value};
value = $number | ('(', expr, ')');
unused = $number;
`,
	})
	l := New(nil, nil)
	ctx := quietContext()
	m := l.Load(ctx, filepath.Join(dir, "calc.llx"), opts)
	require.NotNil(t, m.Grammar)
	assert.Empty(t, m.Diagnostics)
	assert.Equal(t, "calc", m.Grammar.Name)
	assert.Len(t, m.Rules(), 8)

	r, e := l.RootRule(ctx, m.Grammar, "calc", opts)
	require.Nil(t, e)
	var names []string
	for _, rr := range xref.Reachable(r, l.Registry().LookupRule) {
		names = append(names, rr.Name)
	}
	assert.Equal(t, []string{"calc", "expr", "pro", "value", "$number"}, names)
}
