package main

import (
	"github.com/spf13/cobra"

	"github.com/ava12/syntaxdoc/autodoc"
	"github.com/ava12/syntaxdoc/diagram"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/xref"
)

type listing struct {
	Grammar  string   `json:"grammar"`
	Title    string   `json:"title,omitempty"`
	Path     string   `json:"path"`
	Docs     string   `json:"docs,omitempty"`
	Imports  []string `json:"imports,omitempty"`
	RootRule string   `json:"root_rule,omitempty"`
	Entries  []entry  `json:"entries"`
}

// entry is either a section (Section is set) or a rule.
type entry struct {
	Section string           `json:"section,omitempty"`
	Name    string           `json:"name,omitempty"`
	Path    string           `json:"path,omitempty"`
	Kind    string           `json:"kind,omitempty"`
	Title   string           `json:"title,omitempty"`
	Line    int              `json:"line,omitempty"`
	Docs    string           `json:"docs,omitempty"`
	Aliases []string         `json:"aliases,omitempty"`
	Diagram *diagram.Diagram `json:"diagram,omitempty"`
}

func (a *app) rulesCmd() *cobra.Command {
	def := autodoc.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "rules <grammar>",
		Short: "List documented grammar rules",
		Long:  "List documented rules of a grammar file along with their diagram graphs.",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runRules,
	}

	flags := cmd.Flags()
	flags.Bool("lexer-rules", def.LexerRules, "list lexer rules")
	flags.Bool("parser-rules", def.ParserRules, "list parser rules")
	flags.Bool("fragments", def.Fragments, "list lexer fragments")
	flags.Bool("undocumented", def.Undocumented, "list rules having no documentation")
	flags.Bool("honor-sections", def.HonorSections, "list section markers, by-source ordering only")
	flags.String("grouping", def.Grouping.String(), "rule grouping: mixed, lexer-first, or parser-first")
	flags.String("ordering", def.Ordering.String(), "rule ordering: by-source or by-name")
	flags.Bool("diagrams", true, "include diagram graphs")
	return cmd
}

// autodocOptions returns config file options updated with changed flags.
func (a *app) autodocOptions(cmd *cobra.Command) (autodoc.Options, error) {
	opts := a.cfg.Autodoc
	flags := cmd.Flags()
	bools := map[string]*bool{
		"lexer-rules":    &opts.LexerRules,
		"parser-rules":   &opts.ParserRules,
		"fragments":      &opts.Fragments,
		"undocumented":   &opts.Undocumented,
		"honor-sections": &opts.HonorSections,
	}
	for name, dst := range bools {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}

	if flags.Changed("grouping") {
		name, _ := flags.GetString("grouping")
		if err := opts.Grouping.UnmarshalText([]byte(name)); err != nil {
			return opts, err
		}
	}
	if flags.Changed("ordering") {
		name, _ := flags.GetString("ordering")
		if err := opts.Ordering.UnmarshalText([]byte(name)); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func (a *app) runRules(cmd *cobra.Command, args []string) error {
	opts, err := a.autodocOptions(cmd)
	if err != nil {
		return err
	}
	g, err := a.load(args[0])
	if err != nil {
		return err
	}

	root := a.rootRule(g)
	var reachable []*model.Rule
	if root != nil {
		reachable = xref.Reachable(root, a.loader.Registry().LookupRule)
	}

	res := listing{
		Grammar: g.Name,
		Title:   g.DisplayName,
		Path:    g.Path,
		Docs:    model.DocText(g.Docs),
		Imports: g.Imports,
		Entries: []entry{},
	}
	if root != nil {
		res.RootRule = root.Path()
	}

	withDiagrams, _ := cmd.Flags().GetBool("diagrams")
	s := a.synthesizer(root)
	for _, e := range autodoc.List(g, opts, reachable) {
		if e.IsSection() {
			res.Entries = append(res.Entries, entry{Section: model.DocText(e.Section.Docs)})
			continue
		}

		r := e.Rule
		item := entry{
			Name:    r.Name,
			Path:    r.Path(),
			Kind:    r.Kind.String(),
			Title:   r.Title(),
			Line:    r.Position.Line,
			Docs:    model.DocText(r.Documentation),
			Aliases: g.Aliases(r),
		}
		if withDiagrams && !r.NoDiagram {
			item.Diagram = s.Rule(a.ctx, r)
		}
		res.Entries = append(res.Entries, item)
	}
	return a.write(res)
}
