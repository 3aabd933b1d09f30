package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/xref"
)

func (a *app) diagramCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagram <grammar> <rule>",
		Short: "Output the diagram graph of a rule",
		Long: "Output the diagram graph of a grammar rule. The rule may be qualified with a grammar name " +
			"to select a rule of an imported grammar.",
		Args: cobra.ExactArgs(2),
		RunE: a.runDiagram,
	}
	cmd.Flags().Bool("stdin", false, "read grammar text from standard input, <grammar> selects the dialect")
	return cmd
}

func (a *app) runDiagram(cmd *cobra.Command, args []string) error {
	var g *model.Grammar
	if fromStdin, _ := cmd.Flags().GetBool("stdin"); fromStdin {
		text, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading standard input: %w", err)
		}
		m := a.loader.LoadText(a.ctx, args[0], string(text), a.cfg.Loading)
		if m.Grammar == nil {
			return fmt.Errorf("cannot parse grammar %s", args[0])
		}
		g = m.Grammar
	} else {
		var err error
		if g, err = a.load(args[0]); err != nil {
			return err
		}
	}

	obj, target := a.loader.Registry().ResolveTarget(g, xref.RoleRule, args[1])
	if obj.Rule == nil {
		return fmt.Errorf("rule %s not found in grammar %s", target, g.Name)
	}

	d := a.synthesizer(a.rootRule(g)).Rule(a.ctx, obj.Rule)
	if d == nil {
		return fmt.Errorf("rule %s has no content", obj.Path())
	}
	return a.write(d)
}
