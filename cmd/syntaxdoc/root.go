package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ava12/syntaxdoc/config"
	"github.com/ava12/syntaxdoc/diagram"
	"github.com/ava12/syntaxdoc/internal/ctxlog"
	"github.com/ava12/syntaxdoc/loader"
	"github.com/ava12/syntaxdoc/model"
)

// app holds state shared by subcommands, it is set up before any subcommand runs.
type app struct {
	v   *viper.Viper
	out io.Writer

	cfg    config.Config
	ctx    context.Context
	loader *loader.Loader
}

var globalFlags = [...]string{
	"config", "base-path", "log-level", "log-format", "literal-rendering",
	"cc-to-dash", "root-rule", "mark-root-rule", "bison-c-char-literals", "output",
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out}
	def := config.Default()

	cmd := &cobra.Command{
		Use:               "syntaxdoc",
		Short:             "Grammar documentation extractor",
		Long:              "syntaxdoc extracts rule documentation and railroad diagram graphs from ANTLR4, Bison, and llx grammars.",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "HCL config file")
	flags.String("base-path", def.BasePath, "directory grammar paths are relative to")
	flags.String("log-level", def.LogLevel.String(), "log level: debug, info, warn, or error")
	flags.String("log-format", def.LogFormat, "log format: text or json")
	flags.String("literal-rendering", def.LiteralRendering.String(), "literal lexer rules rendering: name, contents, or contents-unquoted")
	flags.Bool("cc-to-dash", def.DashCase, "convert CamelCase and snake_case rule names to dash-case")
	flags.String("root-rule", def.RootRule, "root rule: rule, grammar.rule, or \"path rule\"")
	flags.Bool("mark-root-rule", def.MarkRootRule, "use distinct end markers for the root rule diagram")
	flags.Bool("bison-c-char-literals", def.Loading.UseCCharLiterals, "treat single quotes in Bison code blocks as C char literals")
	flags.StringP("output", "o", "", "output file name, default is standard output")
	for _, name := range globalFlags {
		_ = a.v.BindPFlag(key(name), flags.Lookup(name))
	}
	a.v.SetEnvPrefix("SYNTAXDOC")
	a.v.AutomaticEnv()

	cmd.AddCommand(a.rulesCmd(), a.diagramCmd(), a.describeCmd())
	cmd.SetOut(out)
	return cmd
}

func key(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if path := a.v.GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}
	if err := a.override(&cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a.ctx = ctxlog.WithLogger(ctx, newLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()))
	a.loader = loader.New(nil, nil)
	a.loader.BaseDir = cfg.BasePath
	return nil
}

// override applies values set with flags or environment variables over config file values.
func (a *app) override(c *config.Config) error {
	v := a.v
	if v.IsSet("base_path") {
		c.BasePath = v.GetString("base_path")
	}
	if v.IsSet("log_level") {
		if err := c.SetLogLevel(v.GetString("log_level")); err != nil {
			return err
		}
	}
	if v.IsSet("log_format") {
		c.LogFormat = v.GetString("log_format")
	}
	if v.IsSet("literal_rendering") {
		if err := c.LiteralRendering.UnmarshalText([]byte(v.GetString("literal_rendering"))); err != nil {
			return err
		}
	}
	if v.IsSet("cc_to_dash") {
		c.DashCase = v.GetBool("cc_to_dash")
	}
	if v.IsSet("root_rule") {
		c.RootRule = v.GetString("root_rule")
	}
	if v.IsSet("mark_root_rule") {
		c.MarkRootRule = v.GetBool("mark_root_rule")
	}
	if v.IsSet("bison_c_char_literals") {
		c.Loading.UseCCharLiterals = v.GetBool("bison_c_char_literals")
	}
	return nil
}

func (a *app) load(name string) (*model.Grammar, error) {
	m := a.loader.Load(a.ctx, a.cfg.Path(name), a.cfg.Loading)
	if m.Grammar == nil {
		return nil, fmt.Errorf("cannot load grammar from %s", m.Path)
	}
	return m.Grammar, nil
}

// rootRule returns configured root rule or nil, a rule that cannot be found is reported and ignored.
func (a *app) rootRule(scope *model.Grammar) *model.Rule {
	if a.cfg.RootRule == "" {
		return nil
	}
	r, e := a.loader.RootRule(a.ctx, scope, a.cfg.RootRule, a.cfg.Loading)
	if e != nil {
		ctxlog.FromContext(a.ctx).Warn(e.Message, "code", e.Code)
		return nil
	}
	return r
}

func (a *app) synthesizer(root *model.Rule) *diagram.Synthesizer {
	return &diagram.Synthesizer{
		Lookup: a.loader.Registry().LookupRule,
		Options: diagram.Options{
			LiteralRendering: a.cfg.LiteralRendering,
			DashCase:         a.cfg.DashCase,
			RootRule:         root,
			MarkRootRule:     a.cfg.MarkRootRule,
		},
	}
}

func (a *app) write(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	data = append(data, '\n')

	if name := a.v.GetString("output"); name != "" {
		if err := os.WriteFile(name, data, 0o666); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}
	_, err = a.out.Write(data)
	return err
}
