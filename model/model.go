// Package model defines dialect-agnostic grammar model: grammars, rules, and rule content AST.
package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ava12/syntaxdoc"
)

// LoadingOptions affect parsing of grammar files. Options are part of a model
// snapshot: a file is never rebuilt with different options.
type LoadingOptions struct {
	// UseCCharLiterals selects C-like char literals (as opposed to single-quoted strings)
	// when scanning Bison code blocks.
	UseCCharLiterals bool
}

func DefaultLoadingOptions() LoadingOptions {
	return LoadingOptions{UseCCharLiterals: true}
}

// Position is a span in a grammar file. Line and Col are 1-based, End* fields may be 0.
type Position struct {
	File            string
	Line, Col       int
	EndLine, EndCol int
}

func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Errorf creates an error located at the position.
func (p Position) Errorf(code int, msg string, params ...any) *syntaxdoc.Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return syntaxdoc.NewError(code, msg, p.File, p.Line, p.Col)
}

// DocLine is a line of documentation text along with its source line number.
type DocLine struct {
	Line int
	Text string
}

// DocText joins documentation lines.
func DocText(lines []DocLine) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}

// Section is a group of /// comments interleaved with rules.
type Section struct {
	Docs     []DocLine
	Position Position
}

type RuleKind int

const (
	LexerRule RuleKind = iota
	ParserRule
)

func (k RuleKind) String() string {
	if k == LexerRule {
		return "lexer"
	}
	return "parser"
}

// DefaultImportance is the importance of rules having no importance directive.
const DefaultImportance = 1

// Rule is a lexer or parser rule. Rules are built by dialect adapters and are not
// modified after their model is published.
type Rule struct {
	Kind        RuleKind
	Name        string
	DisplayName string

	// Grammar is the grammar the rule is declared in.
	Grammar *Grammar

	Position Position

	// Content is nil for tokens declared without a body.
	Content Content

	Documentation []DocLine

	NoDoc                bool
	NoDiagram            bool
	Inline               bool
	KeepDiagramRecursive bool
	CSSClass             string
	Importance           int
	Section              *Section

	// IsLiteral is set for lexer rules whose content is a single literal.
	IsLiteral bool
	// IsFragment is set for ANTLR lexer fragments.
	IsFragment bool
}

// NewRule creates a rule with default importance.
func NewRule(kind RuleKind, name string, pos Position) *Rule {
	return &Rule{Kind: kind, Name: name, Position: pos, Importance: DefaultImportance}
}

func (r *Rule) IsLexer() bool {
	return r.Kind == LexerRule
}

// Path returns fully qualified rule name.
func (r *Rule) Path() string {
	if r.Grammar == nil {
		return r.Name
	}
	return r.Grammar.Name + "." + r.Name
}

// Title returns display name if set, rule name otherwise.
func (r *Rule) Title() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Name
}

// Literal returns literal text of a literal lexer rule, with quotes.
func (r *Rule) Literal() string {
	if !r.IsLiteral {
		return ""
	}
	if l, ok := r.Content.(*Literal); ok {
		return l.Text
	}
	return ""
}

func (r *Rule) String() string {
	lines := []string{r.Name}
	if r.Content == nil {
		lines = append(lines, "  <implicit>")
	} else {
		alts := []Content{r.Content}
		if a, ok := r.Content.(*Alternative); ok {
			alts = a.Items
		}
		for i, alt := range alts {
			prefix := "  | "
			if i == 0 {
				prefix = "  : "
			}
			lines = append(lines, prefix+alt.String())
		}
	}
	lines = append(lines, "  ;")
	return strings.Join(lines, "\n")
}

type GrammarType int

const (
	CombinedGrammar GrammarType = iota
	LexerGrammar
	ParserGrammar
)

func (t GrammarType) String() string {
	switch t {
	case LexerGrammar:
		return "lexer"
	case ParserGrammar:
		return "parser"
	default:
		return "combined"
	}
}

// Grammar is a named set of rules parsed from a single file.
type Grammar struct {
	Name        string
	DisplayName string
	Type        GrammarType
	Path        string
	Docs        []DocLine

	// Imports lists imported grammar names in declaration order.
	Imports []string

	// Rules lists rules in declaration order.
	Rules []*Rule

	// Sections lists section markers in declaration order.
	Sections []*Section

	index map[string]*Rule
}

func NewGrammar(name, path string) *Grammar {
	return &Grammar{Name: name, Path: path, index: make(map[string]*Rule)}
}

// AddRule appends the rule and sets its grammar. Returns false and leaves the grammar
// unchanged if the name is already taken.
func (g *Grammar) AddRule(r *Rule) bool {
	if _, found := g.index[r.Name]; found {
		return false
	}

	r.Grammar = g
	g.Rules = append(g.Rules, r)
	g.index[r.Name] = r
	return true
}

// AddAlias makes the rule available for lookup by alias (usually a quoted literal).
// Returns false if the alias is already taken.
func (g *Grammar) AddAlias(alias string, r *Rule) bool {
	if _, found := g.index[alias]; found {
		return false
	}

	g.index[alias] = r
	return true
}

// AddImport adds imported grammar name unless it is already listed.
func (g *Grammar) AddImport(name string) {
	if name == "" || name == g.Name {
		return
	}
	for _, n := range g.Imports {
		if n == name {
			return
		}
	}
	g.Imports = append(g.Imports, name)
}

// Lookup finds a rule declared in this grammar by name or alias.
func (g *Grammar) Lookup(name string) *Rule {
	return g.index[name]
}

// RulesOf returns rules of given kind in declaration order.
func (g *Grammar) RulesOf(kind RuleKind) []*Rule {
	var res []*Rule
	for _, r := range g.Rules {
		if r.Kind == kind {
			res = append(res, r)
		}
	}
	return res
}

// Aliases returns all aliases of the rule, sorted.
func (g *Grammar) Aliases(r *Rule) []string {
	var res []string
	for name, rr := range g.index {
		if rr == r && name != r.Name {
			res = append(res, name)
		}
	}
	sort.Strings(res)
	return res
}

// Model is the result of loading a single grammar file.
type Model struct {
	// Path is the normalized file path.
	Path    string
	Options LoadingOptions

	// Grammar is nil if the file could not be loaded.
	Grammar *Grammar

	// Diagnostics contains errors and warnings produced while loading.
	Diagnostics syntaxdoc.Diagnostics
}

// IsEmpty reports whether the model has no rules.
func (m *Model) IsEmpty() bool {
	return m.Grammar == nil || len(m.Grammar.Rules) == 0
}

// Rules returns grammar rules or nil.
func (m *Model) Rules() []*Rule {
	if m.Grammar == nil {
		return nil
	}
	return m.Grammar.Rules
}
