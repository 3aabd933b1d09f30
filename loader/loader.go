// Package loader builds grammar models from files.
//
// Every normalized file path is parsed at most once per loader, concurrent requests for the same path
// wait for the single build and share its model. Grammars are registered in the loader registry
// by the build that created them. Imported grammars are looked up as sibling files and loaded too.
// Loading never fails: a missing or unreadable file yields an empty model with a diagnostic.
package loader

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/dialect"
	"github.com/ava12/syntaxdoc/dialect/antlr4"
	"github.com/ava12/syntaxdoc/dialect/bison"
	"github.com/ava12/syntaxdoc/dialect/llx"
	"github.com/ava12/syntaxdoc/internal/ctxlog"
	"github.com/ava12/syntaxdoc/internal/queue"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/source"
	"github.com/ava12/syntaxdoc/xref"
)

// DefaultDialects returns a table containing ANTLR4, Bison, and llx adapters, in that order.
func DefaultDialects() *dialect.Table {
	return dialect.NewTable(antlr4.New(), bison.New(), llx.New())
}

type cell struct {
	once  sync.Once
	model *model.Model
}

// Loader is a memoizing grammar file loader. Loader is safe for concurrent use.
type Loader struct {
	// BaseDir is used to resolve relative paths of root rule specifications.
	BaseDir string

	table    *dialect.Table
	registry *xref.Registry

	lock  sync.Mutex
	cells map[string]*cell
}

// New creates a loader. Nil table means default dialects, nil registry means a fresh one.
func New(table *dialect.Table, registry *xref.Registry) *Loader {
	if table == nil {
		table = DefaultDialects()
	}
	if registry == nil {
		registry = xref.NewRegistry()
	}
	return &Loader{table: table, registry: registry, cells: make(map[string]*cell)}
}

func (l *Loader) Registry() *xref.Registry {
	return l.registry
}

func (l *Loader) Dialects() *dialect.Table {
	return l.table
}

// Normalize returns absolute clean path.
func Normalize(path string) string {
	abs, e := filepath.Abs(path)
	if e != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Load returns the model for the file, building it on first request, and loads imported grammars.
// Options are used only by the first build of a path.
func (l *Loader) Load(ctx context.Context, path string, opts model.LoadingOptions) *model.Model {
	m := l.model(ctx, Normalize(path), opts)

	q := queue.NewUnique(m.Path)
	q.Next()
	l.queueImports(ctx, q, m)
	for p, ok := q.Next(); ok; p, ok = q.Next() {
		l.queueImports(ctx, q, l.model(ctx, p, opts))
	}

	return m
}

func (l *Loader) model(ctx context.Context, path string, opts model.LoadingOptions) *model.Model {
	l.lock.Lock()
	c, found := l.cells[path]
	if !found {
		c = &cell{}
		l.cells[path] = c
	}
	l.lock.Unlock()

	c.once.Do(func() {
		c.model = l.build(ctx, path, opts)
	})
	return c.model
}

func (l *Loader) build(ctx context.Context, path string, opts model.LoadingOptions) *model.Model {
	m := &model.Model{Path: path, Options: opts}
	defer report(ctx, m)

	adapter := l.table.Find(path)
	if adapter == nil {
		m.Diagnostics.Add(unknownDialectError(path))
		return m
	}

	content, e := os.ReadFile(path)
	if e != nil {
		m.Diagnostics.Add(readError(path, e))
		return m
	}

	m.Grammar, m.Diagnostics = adapter.Parse(source.New(path, content), opts)
	if e := l.registry.Register(m.Grammar); e != nil {
		m.Diagnostics.Add(e)
	}
	return m
}

func (l *Loader) queueImports(ctx context.Context, q *queue.Unique[string], m *model.Model) {
	if m.Grammar == nil {
		return
	}

	for _, name := range m.Grammar.Imports {
		if l.registry.Grammar(name) != nil {
			continue
		}
		if p := l.importPath(m.Path, name); p != "" {
			q.Add(p)
		} else {
			ctxlog.FromContext(ctx).Debug("imported grammar file not found", "grammar", m.Grammar.Name, "import", name)
		}
	}
}

// importPath finds a sibling file for imported grammar. Extensions of the importing file's dialect are tried first.
func (l *Loader) importPath(from, name string) string {
	dir := filepath.Dir(from)
	var exts []string
	if a := l.table.Find(from); a != nil {
		exts = append(exts, a.Extensions()...)
	}
	for _, a := range l.table.Adapters() {
		exts = append(exts, a.Extensions()...)
	}

	for _, ext := range exts {
		p := filepath.Join(dir, name+ext)
		if info, e := os.Stat(p); e == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// LoadText parses in-memory grammar text. name is used as the file name and selects the dialect.
// The model is neither cached nor registered.
func (l *Loader) LoadText(ctx context.Context, name, text string, opts model.LoadingOptions) *model.Model {
	m := &model.Model{Path: name, Options: opts}
	defer report(ctx, m)

	adapter := l.table.Find(name)
	if adapter == nil {
		m.Diagnostics.Add(unknownDialectError(name))
		return m
	}

	m.Grammar, m.Diagnostics = adapter.Parse(source.New(name, []byte(text)), opts)
	return m
}

// LoadAll loads files in parallel. Returned models are in the order of paths.
// The error is not nil only if the context is cancelled.
func (l *Loader) LoadAll(ctx context.Context, paths []string, opts model.LoadingOptions) ([]*model.Model, error) {
	res := make([]*model.Model, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, p := range paths {
		eg.Go(func() error {
			if e := egCtx.Err(); e != nil {
				return e
			}
			res[i] = l.Load(egCtx, p, opts)
			return nil
		})
	}

	return res, eg.Wait()
}

// RootRule finds a root rule by specification: "rule" (in scope grammar), "grammar.rule",
// or "path rule" (the file is loaded with given options).
func (l *Loader) RootRule(ctx context.Context, scope *model.Grammar, spec string, opts model.LoadingOptions) (*model.Rule, *syntaxdoc.Error) {
	spec = strings.TrimSpace(spec)
	pos := model.Position{}
	if scope != nil {
		pos.File = scope.Path
	}

	var g *model.Grammar
	name := spec
	if sp := strings.LastIndexAny(spec, " \t"); sp >= 0 {
		path := strings.TrimSpace(spec[:sp])
		name = spec[sp+1:]
		if !filepath.IsAbs(path) {
			path = filepath.Join(l.BaseDir, path)
		}

		m := l.Load(ctx, path, opts)
		if m.Grammar == nil {
			if len(m.Diagnostics) > 0 {
				return nil, m.Diagnostics[0]
			}
			return nil, xref.UnresolvedErr(pos, spec)
		}
		g = m.Grammar
	} else if dot := strings.LastIndexByte(spec, '.'); dot > 0 {
		g = l.registry.Grammar(spec[:dot])
		name = spec[dot+1:]
	} else {
		g = scope
	}

	if g == nil {
		return nil, xref.UnresolvedErr(pos, spec)
	}
	r := g.Lookup(name)
	if r == nil {
		return nil, xref.UnresolvedErr(pos, spec)
	}
	return r, nil
}

func report(ctx context.Context, m *model.Model) {
	logger := ctxlog.FromContext(ctx)
	for _, e := range m.Diagnostics {
		level := slog.LevelError
		if e.IsWarning() {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, e.Message, "source", e.SourceName, "line", e.Line, "col", e.Col, "code", e.Code)
	}

	if m.Grammar != nil {
		logger.Debug("grammar loaded", "path", m.Path, "grammar", m.Grammar.Name, "rules", len(m.Grammar.Rules))
	}
}
