// Package autodoc selects and orders grammar rules for a documentation listing.
package autodoc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ava12/syntaxdoc/model"
)

// Grouping tells whether lexer and parser rules are listed together or in separate groups.
type Grouping int

const (
	Mixed Grouping = iota
	LexerFirst
	ParserFirst
)

var groupingNames = [...]string{"mixed", "lexer-first", "parser-first"}

func (g Grouping) String() string {
	if g < 0 || int(g) >= len(groupingNames) {
		return "unknown"
	}
	return groupingNames[g]
}

func (g Grouping) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Grouping) UnmarshalText(text []byte) error {
	res, e := ParseGrouping(string(text))
	if e == nil {
		*g = res
	}
	return e
}

func ParseGrouping(name string) (Grouping, error) {
	for i, n := range groupingNames {
		if n == name {
			return Grouping(i), nil
		}
	}
	return Mixed, fmt.Errorf("unknown grouping %q, expecting one of %s", name, strings.Join(groupingNames[:], ", "))
}

// Ordering tells how rules are ordered within a group.
type Ordering int

const (
	BySource Ordering = iota
	ByName
)

var orderingNames = [...]string{"by-source", "by-name"}

func (o Ordering) String() string {
	if o < 0 || int(o) >= len(orderingNames) {
		return "unknown"
	}
	return orderingNames[o]
}

func (o Ordering) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Ordering) UnmarshalText(text []byte) error {
	res, e := ParseOrdering(string(text))
	if e == nil {
		*o = res
	}
	return e
}

func ParseOrdering(name string) (Ordering, error) {
	for i, n := range orderingNames {
		if n == name {
			return Ordering(i), nil
		}
	}
	return BySource, fmt.Errorf("unknown ordering %q, expecting one of %s", name, strings.Join(orderingNames[:], ", "))
}

// Options select rules for the listing.
type Options struct {
	LexerRules  bool
	ParserRules bool
	// Fragments includes lexer fragments, requires LexerRules.
	Fragments bool
	// Undocumented includes rules having no documentation comment.
	Undocumented bool
	// HonorSections interleaves section markers with rules, has effect for BySource ordering only.
	HonorSections bool
	Grouping      Grouping
	Ordering      Ordering
}

func DefaultOptions() Options {
	return Options{
		LexerRules:    true,
		ParserRules:   true,
		HonorSections: true,
		Grouping:      ParserFirst,
		Ordering:      BySource,
	}
}

// Entry is either a rule or a section marker preceding the rules of that section.
// A section spans rules from its marker up to the next marker.
type Entry struct {
	Rule    *model.Rule
	Section *model.Section
}

func (e Entry) IsSection() bool {
	return e.Rule == nil
}

// List returns listing entries for the grammar. If reachable is not nil only rules
// contained in it are listed; it is usually the result of xref.Reachable for a root rule.
func List(g *model.Grammar, opts Options, reachable []*model.Rule) []Entry {
	if g == nil {
		return nil
	}

	var lexerRules, parserRules []*model.Rule
	sections := make(map[*model.Rule]*model.Section, len(g.Rules))
	var current *model.Section
	for _, r := range g.Rules {
		if r.Section != nil {
			current = r.Section
		}
		sections[r] = current

		switch {
		case r.IsLexer() && opts.LexerRules && (opts.Fragments || !r.IsFragment):
			lexerRules = append(lexerRules, r)
		case !r.IsLexer() && opts.ParserRules:
			parserRules = append(parserRules, r)
		}
	}

	less := bySource
	if opts.Ordering == ByName {
		less = byName
	}
	var rules []*model.Rule
	switch opts.Grouping {
	case LexerFirst:
		rules = append(sorted(lexerRules, less), sorted(parserRules, less)...)
	case ParserFirst:
		rules = append(sorted(parserRules, less), sorted(lexerRules, less)...)
	default:
		rules = sorted(append(lexerRules, parserRules...), less)
	}

	var filter map[*model.Rule]bool
	if reachable != nil {
		filter = make(map[*model.Rule]bool, len(reachable))
		for _, r := range reachable {
			filter[r] = true
		}
	}

	seen := make(map[*model.Rule]bool, len(rules))
	var res []Entry
	var section *model.Section
	honorSections := opts.HonorSections && opts.Ordering == BySource
	for _, r := range rules {
		if r.NoDoc || r.Inline || seen[r] {
			continue
		}
		seen[r] = true
		if filter != nil && !filter[r] {
			continue
		}
		if !opts.Undocumented && len(r.Documentation) == 0 {
			continue
		}

		if honorSections && sections[r] != section {
			section = sections[r]
			if section != nil {
				res = append(res, Entry{Section: section})
			}
		}
		res = append(res, Entry{Rule: r})
	}
	return res
}

func sorted(rules []*model.Rule, less func(a, b *model.Rule) bool) []*model.Rule {
	sort.SliceStable(rules, func(i, j int) bool {
		return less(rules[i], rules[j])
	})
	return rules
}

func bySource(a, b *model.Rule) bool {
	pa, pb := a.Position, b.Position
	if pa.File != pb.File {
		return pa.File < pb.File
	}
	if pa.Line != pb.Line {
		return pa.Line < pb.Line
	}
	return pa.Col < pb.Col
}

func byName(a, b *model.Rule) bool {
	return strings.ToLower(a.Name) < strings.ToLower(b.Name)
}
