// Package config loads syntaxdoc settings from an HCL file.
//
// All attributes are optional:
//
//	base_path             = "grammars"
//	log_level             = "debug"     # debug, info, warn, error
//	log_format            = "json"      # text, json
//	literal_rendering     = "contents"  # name, contents, contents-unquoted
//	cc_to_dash            = true
//	root_rule             = "Expr.expr"
//	mark_root_rule        = true
//	bison_c_char_literals = true
//
//	autodoc {
//	  lexer_rules    = true
//	  parser_rules   = true
//	  fragments      = false
//	  undocumented   = false
//	  honor_sections = true
//	  grouping       = "parser-first"  # mixed, lexer-first, parser-first
//	  ordering       = "by-source"     # by-source, by-name
//	}
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/ava12/syntaxdoc/autodoc"
	"github.com/ava12/syntaxdoc/diagram"
	"github.com/ava12/syntaxdoc/model"
)

// Config holds resolved settings.
type Config struct {
	// BasePath is the directory grammar paths are relative to.
	BasePath  string
	LogLevel  slog.Level
	LogFormat string

	LiteralRendering diagram.LiteralRendering
	DashCase         bool
	// RootRule is the root rule specification, see loader.Loader.RootRule.
	RootRule     string
	MarkRootRule bool

	Loading model.LoadingOptions
	Autodoc autodoc.Options
}

func Default() Config {
	return Config{
		BasePath:         ".",
		LogLevel:         slog.LevelInfo,
		LogFormat:        "text",
		LiteralRendering: diagram.LiteralContents,
		MarkRootRule:     true,
		Loading:          model.DefaultLoadingOptions(),
		Autodoc:          autodoc.DefaultOptions(),
	}
}

type fileRoot struct {
	BasePath           *string `hcl:"base_path,optional"`
	LogLevel           *string `hcl:"log_level,optional"`
	LogFormat          *string `hcl:"log_format,optional"`
	LiteralRendering   *string `hcl:"literal_rendering,optional"`
	CCToDash           *bool   `hcl:"cc_to_dash,optional"`
	RootRule           *string `hcl:"root_rule,optional"`
	MarkRootRule       *bool   `hcl:"mark_root_rule,optional"`
	BisonCCharLiterals *bool   `hcl:"bison_c_char_literals,optional"`

	Autodoc *autodocBlock `hcl:"autodoc,block"`
}

type autodocBlock struct {
	LexerRules    *bool   `hcl:"lexer_rules,optional"`
	ParserRules   *bool   `hcl:"parser_rules,optional"`
	Fragments     *bool   `hcl:"fragments,optional"`
	Undocumented  *bool   `hcl:"undocumented,optional"`
	HonorSections *bool   `hcl:"honor_sections,optional"`
	Grouping      *string `hcl:"grouping,optional"`
	Ordering      *string `hcl:"ordering,optional"`
}

// Load reads a config file. Relative base path is resolved against the file directory.
func Load(path string) (Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	c, err := Parse(path, src)
	if err != nil {
		return c, err
	}
	if !filepath.IsAbs(c.BasePath) {
		c.BasePath = filepath.Join(filepath.Dir(path), c.BasePath)
	}
	return c, nil
}

// Parse decodes config text over the defaults and validates the result.
func Parse(filename string, src []byte) (Config, error) {
	c := Default()

	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return c, fmt.Errorf("failed to parse config file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(f.Body, nil, &root)
	if diags.HasErrors() {
		return c, fmt.Errorf("failed to decode config file %s: %w", filename, diags)
	}

	if err := c.apply(&root); err != nil {
		return c, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return c, c.Validate()
}

func (c *Config) apply(root *fileRoot) error {
	setString(&c.BasePath, root.BasePath)
	setString(&c.LogFormat, root.LogFormat)
	setString(&c.RootRule, root.RootRule)
	setBool(&c.DashCase, root.CCToDash)
	setBool(&c.MarkRootRule, root.MarkRootRule)
	setBool(&c.Loading.UseCCharLiterals, root.BisonCCharLiterals)

	if root.LogLevel != nil {
		if err := c.SetLogLevel(*root.LogLevel); err != nil {
			return err
		}
	}
	if root.LiteralRendering != nil {
		if err := c.LiteralRendering.UnmarshalText([]byte(*root.LiteralRendering)); err != nil {
			return err
		}
	}

	a := root.Autodoc
	if a == nil {
		return nil
	}
	setBool(&c.Autodoc.LexerRules, a.LexerRules)
	setBool(&c.Autodoc.ParserRules, a.ParserRules)
	setBool(&c.Autodoc.Fragments, a.Fragments)
	setBool(&c.Autodoc.Undocumented, a.Undocumented)
	setBool(&c.Autodoc.HonorSections, a.HonorSections)
	if a.Grouping != nil {
		if err := c.Autodoc.Grouping.UnmarshalText([]byte(*a.Grouping)); err != nil {
			return err
		}
	}
	if a.Ordering != nil {
		if err := c.Autodoc.Ordering.UnmarshalText([]byte(*a.Ordering)); err != nil {
			return err
		}
	}
	return nil
}

// SetLogLevel parses level name: debug, info, warn, or error.
func (c *Config) SetLogLevel(name string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("bad log level: %w", err)
	}
	c.LogLevel = level
	return nil
}

// Validate checks values not covered by typed fields.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q, expecting text or json", c.LogFormat)
	}
	if c.BasePath == "" {
		return fmt.Errorf("base path cannot be empty")
	}
	return nil
}

// Path resolves a grammar path against the base path.
func (c *Config) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.BasePath, name)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
