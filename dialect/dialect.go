// Package dialect defines grammar dialect adapter contract and an extension-ordered adapter table.
package dialect

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/source"
)

// Adapter parses grammar sources of a single dialect.
// Parse must not abort on errors: it returns diagnostics along with whatever was parsed.
// The returned grammar is owned by the caller. Adapters must be safe for concurrent use.
type Adapter interface {
	// Name returns dialect name, e.g. "antlr4".
	Name() string

	// Extensions returns file extensions claimed by the adapter, with leading dots.
	Extensions() []string

	// Parse builds grammar from source. The result is never nil.
	Parse(src *source.Source, opts model.LoadingOptions) (*model.Grammar, syntaxdoc.Diagnostics)
}

// Table maps file extensions to adapters. The first registered adapter claiming an extension wins.
// Table is safe for concurrent use.
type Table struct {
	lock     sync.RWMutex
	adapters []Adapter
}

func NewTable(adapters ...Adapter) *Table {
	t := &Table{}
	for _, a := range adapters {
		t.Register(a)
	}
	return t
}

// Register appends an adapter.
func (t *Table) Register(a Adapter) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.adapters = append(t.adapters, a)
}

// Adapters returns registered adapters in registration order.
func (t *Table) Adapters() []Adapter {
	t.lock.RLock()
	defer t.lock.RUnlock()
	res := make([]Adapter, len(t.adapters))
	copy(res, t.adapters)
	return res
}

// Find returns adapter for the file path or nil.
func (t *Table) Find(path string) Adapter {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil
	}

	t.lock.RLock()
	defer t.lock.RUnlock()
	for _, a := range t.adapters {
		for _, e := range a.Extensions() {
			if strings.ToLower(e) == ext {
				return a
			}
		}
	}
	return nil
}

// Named returns adapter by dialect name or nil.
func (t *Table) Named(name string) Adapter {
	t.lock.RLock()
	defer t.lock.RUnlock()
	for _, a := range t.adapters {
		if a.Name() == name {
			return a
		}
	}
	return nil
}
