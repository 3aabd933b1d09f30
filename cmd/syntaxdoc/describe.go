package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/diagram"
	"github.com/ava12/syntaxdoc/internal/ctxlog"
)

func (a *app) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <description>",
		Short: "Convert an ad-hoc diagram description to a diagram graph",
		Long: "Convert an ad-hoc diagram description to a diagram graph. Descriptions are HCL (.hcl) " +
			"or YAML (.yaml, .yml, .json) files. Malformed nodes are reported and rendered as error terminals.",
		Args: cobra.ExactArgs(1),
		RunE: a.runDescribe,
	}
}

func (a *app) runDescribe(_ *cobra.Command, args []string) error {
	name := a.cfg.Path(args[0])
	src, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading description: %w", err)
	}

	var d *diagram.Diagram
	var diags syntaxdoc.Diagnostics
	switch strings.ToLower(filepath.Ext(name)) {
	case ".hcl":
		d, diags = diagram.ParseHCL(name, src)
	case ".yaml", ".yml", ".json":
		d, diags = diagram.ParseYAML(name, src)
	default:
		return fmt.Errorf("unknown description format of %s", name)
	}

	logger := ctxlog.FromContext(a.ctx)
	for _, e := range diags {
		level := slog.LevelError
		if e.IsWarning() {
			level = slog.LevelWarn
		}
		logger.Log(a.ctx, level, e.Message, "source", e.SourceName, "line", e.Line, "col", e.Col, "code", e.Code)
	}
	if d == nil {
		return fmt.Errorf("malformed description %s", name)
	}
	return a.write(d)
}
