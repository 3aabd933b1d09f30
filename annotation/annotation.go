// Package annotation classifies grammar comments and extracts documentation and control directives from them.
//
// Comment classes are:
//   - documentation: block comments starting with /** (but not /**/);
//   - control: line comments starting with //@, e.g. //@ doc:importance 2;
//   - section: line comments starting with ///, standalone prose between rules;
//   - plain: everything else, ignored.
package annotation

import (
	"strconv"
	"strings"

	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/lexer"
	"github.com/ava12/syntaxdoc/model"
)

type CommentKind int

const (
	PlainComment CommentKind = iota
	DocComment
	ControlComment
	SectionComment
)

// Classify detects comment class by its text.
func Classify(text string) CommentKind {
	switch {
	case strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/**/"):
		return DocComment
	case strings.HasPrefix(text, "//@"):
		return ControlComment
	case strings.HasPrefix(text, "///"):
		return SectionComment
	default:
		return PlainComment
	}
}

// DocLines extracts documentation text from a doc comment token.
// Comment delimiters and leading asterisks are removed, common indentation is stripped.
// Each line keeps its source line number.
func DocLines(tok *lexer.Token) []model.DocLine {
	text := strings.ReplaceAll(tok.Text(), "\r\n", "\n")
	if len(text) < 5 || Classify(text) != DocComment {
		return nil
	}

	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return []model.DocLine{{Line: tok.Line(), Text: strings.TrimSpace(text[3 : len(text)-2])}}
	}

	first := strings.TrimSpace(lines[0][3:])
	rest := lines[1:]
	last := len(rest) - 1
	rest[last] = strings.TrimRight(strings.TrimSuffix(rest[last], "*/"), " \t")
	if strings.TrimSpace(rest[last]) == "" {
		rest = rest[:last]
	}

	starred := len(rest) > 0
	for _, l := range rest {
		if !strings.HasPrefix(strings.TrimLeft(l, " \t"), "*") {
			starred = false
			break
		}
	}
	if starred {
		for i, l := range rest {
			rest[i] = strings.TrimLeft(l, " \t")[1:]
		}
	}
	rest = dedent(rest)

	res := make([]model.DocLine, 0, len(rest)+1)
	if first != "" {
		res = append(res, model.DocLine{Line: tok.Line(), Text: first})
	}
	for i, l := range rest {
		res = append(res, model.DocLine{Line: tok.Line() + i + 1, Text: l})
	}
	return res
}

func dedent(lines []string) []string {
	prefix := ""
	first := true
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			lines[i] = ""
			continue
		}

		indent := l[:len(l)-len(strings.TrimLeft(l, " \t"))]
		if first {
			prefix = indent
			first = false
			continue
		}
		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}

	if prefix == "" {
		return lines
	}
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(l, prefix)
	}
	return lines
}

// DocString extracts documentation text of a doc comment as a single string.
func DocString(tok *lexer.Token) string {
	return model.DocText(DocLines(tok))
}

// SectionLine extracts text of a section comment.
func SectionLine(tok *lexer.Token) model.DocLine {
	return model.DocLine{Line: tok.Line(), Text: strings.TrimSpace(strings.TrimLeft(tok.Text(), "/"))}
}

// Info is the result of processing comments attached to a declaration.
type Info struct {
	Importance           int
	Inline               bool
	NoDoc                bool
	NoDiagram            bool
	KeepDiagramRecursive bool
	CSSClass             string
	Name                 string
	Docs                 []model.DocLine

	// Content is a lexer pattern supplied by the content command, ContentToken is the command comment.
	Content      string
	ContentToken *lexer.Token
}

// HasContent reports whether the content command was used.
func (i *Info) HasContent() bool {
	return i.ContentToken != nil
}

// Apply copies flags and documentation to the rule. Content is not copied.
func (i *Info) Apply(r *model.Rule) {
	r.Importance = i.Importance
	r.Inline = i.Inline
	r.NoDoc = i.NoDoc
	r.NoDiagram = i.NoDiagram
	r.KeepDiagramRecursive = i.KeepDiagramRecursive
	r.CSSClass = i.CSSClass
	r.DisplayName = i.Name
	r.Documentation = i.Docs
}

// Extract processes doc and control comments attached to a declaration.
// If allowCommands is false (grammar header and inline docs), every control comment yields a warning.
// Other comment classes are skipped. Returned diagnostics contain warnings only.
func Extract(comments []*lexer.Token, allowCommands bool) (Info, syntaxdoc.Diagnostics) {
	info := Info{Importance: model.DefaultImportance}
	var diags syntaxdoc.Diagnostics

	for _, tok := range comments {
		switch Classify(tok.Text()) {
		case DocComment:
			info.Docs = append(info.Docs, DocLines(tok)...)

		case ControlComment:
			d, e := ParseDirective(tok.Text())
			if e != nil {
				diags.Add(invalidDirectiveError(tok, e))
				continue
			}
			if !allowCommands || d.IsToken() {
				diags.Add(misplacedDirectiveError(tok))
				continue
			}
			diags.Add(info.apply(tok, d)...)
		}
	}

	return info, diags
}

func (i *Info) apply(tok *lexer.Token, d *Directive) []*syntaxdoc.Error {
	cmd := d.Command()
	arg := strings.TrimSpace(d.Arg)

	switch cmd {
	case "nodoc", "no-doc":
		i.NoDoc = true
	case "inline":
		i.Inline = true
	case "nodiagram", "no-diagram":
		i.NoDiagram = true
	case "keep-diagram-recursive":
		i.KeepDiagramRecursive = true
	case "unimportant":
		i.Importance = 0

	case "importance":
		if arg == "" {
			return []*syntaxdoc.Error{missingArgumentError(tok, cmd)}
		}
		v, e := strconv.Atoi(arg)
		if e != nil {
			return []*syntaxdoc.Error{invalidArgumentError(tok, cmd, "requires an integer argument")}
		}
		if v < 0 {
			return []*syntaxdoc.Error{invalidArgumentError(tok, cmd, "should not be negative")}
		}
		i.Importance = v
		return nil

	case "name":
		if arg == "" {
			return []*syntaxdoc.Error{missingArgumentError(tok, cmd)}
		}
		i.Name = arg
		return nil

	case "css-class":
		if arg == "" {
			return []*syntaxdoc.Error{missingArgumentError(tok, cmd)}
		}
		i.CSSClass = arg
		return nil

	case "content":
		if arg == "" {
			return []*syntaxdoc.Error{missingArgumentError(tok, cmd)}
		}
		i.Content = arg
		i.ContentToken = tok
		return nil

	default:
		return []*syntaxdoc.Error{unknownDirectiveError(tok, cmd)}
	}

	if arg != "" {
		return []*syntaxdoc.Error{ignoredArgumentError(tok, cmd)}
	}
	return nil
}

// TokenDirective returns token name from a //@ %token directive.
func TokenDirective(tok *lexer.Token) (string, bool) {
	d, e := ParseDirective(tok.Text())
	if e != nil || !d.IsToken() {
		return "", false
	}
	name := strings.TrimSpace(d.Arg)
	return name, name != ""
}

// Pending accumulates comments between declarations.
type Pending struct {
	comments []*lexer.Token
	section  []model.DocLine
}

// Add records a comment token, plain comments are dropped.
func (p *Pending) Add(tok *lexer.Token) {
	switch Classify(tok.Text()) {
	case DocComment, ControlComment:
		p.comments = append(p.comments, tok)
	case SectionComment:
		p.section = append(p.section, SectionLine(tok))
	}
}

// Comments returns and forgets accumulated doc and control comments.
func (p *Pending) Comments() []*lexer.Token {
	res := p.comments
	p.comments = nil
	return res
}

// Peek returns accumulated doc and control comments without forgetting them.
func (p *Pending) Peek() []*lexer.Token {
	return p.comments
}

// Section returns and forgets accumulated section lines as a section, or nil if there are none.
func (p *Pending) Section(file string) *model.Section {
	if len(p.section) == 0 {
		return nil
	}
	res := &model.Section{Docs: p.section, Position: model.Position{File: file, Line: p.section[0].Line, Col: 1}}
	p.section = nil
	return res
}
