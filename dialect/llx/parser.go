package llx

import (
	"regexp"
	"strings"

	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/annotation"
	"github.com/ava12/syntaxdoc/dialect"
	"github.com/ava12/syntaxdoc/lexer"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/source"
)

// Error codes specific to llx grammars:
const (
	UnknownDirectiveError = syntaxdoc.SyntaxErrors + 20 + iota
	UnknownTemplateError
	BadRegexpError
)

const (
	asideDir    = "!aside"
	caselessDir = "!caseless"
	errorDir    = "!error"
	externDir   = "!extern"
	groupDir    = "!group"
	literalDir  = "!literal"
	reservedDir = "!reserved"
)

const (
	// AsideClass is the CSS class assigned to tokens listed in !aside directives.
	AsideClass = "aside"

	endOfInput = "end of input"
)

type flagEntry struct {
	dir string
	tok *lexer.Token
}

type parser struct {
	s         *dialect.Scanner
	g         *model.Grammar
	templates map[string]string
	flags     []flagEntry
}

func parse(src *source.Source) (*model.Grammar, syntaxdoc.Diagnostics) {
	s := dialect.NewScanner(llxLexer, src, commentTokType)
	s.Translate = translateComment
	p := &parser{
		s:         s,
		g:         model.NewGrammar(src.Stem(), src.Name()),
		templates: make(map[string]string),
	}

	for !p.s.Peek().IsEof() {
		if e := p.parseStatement(); e != nil {
			p.s.Error(e)
			p.recover()
		}
	}
	p.applyFlags()
	return p.g, p.s.Diags
}

// recover skips tokens up to and including the next semicolon unless it is the last fetched token.
func (p *parser) recover() {
	p.s.SetBodyMode(false)
	if last := p.s.Last(); last == nil || !isOp(last, ";") {
		for {
			tok := p.s.Next()
			if tok.IsEof() || isOp(tok, ";") {
				break
			}
		}
	}
	p.s.Pending.Comments()
}

func (p *parser) expectOp(text string) (*lexer.Token, *syntaxdoc.Error) {
	tok := p.s.Next()
	if !isOp(tok, text) {
		return nil, dialect.UnexpectedTokenErr(tok, "\""+text+"\"")
	}
	return tok, nil
}

func (p *parser) parseStatement() *syntaxdoc.Error {
	tok := p.s.Next()
	switch tok.Type() {
	case dirTokType:
		p.s.Pending.Comments()
		return p.parseDirective(tok)
	case templateTokType:
		p.s.Pending.Comments()
		return p.parseTemplate(tok)
	case tokenNameTokType:
		return p.parseToken(tok)
	case nameTokType:
		return p.parseNode(tok)
	case opTokType:
		if tok.Text() == "@" {
			p.s.Pending.Comments()
			return p.skipLayer()
		}
	}
	return dialect.UnexpectedTokenErr(tok, "definition")
}

func (p *parser) parseDirective(dir *lexer.Token) *syntaxdoc.Error {
	var expected int
	switch dir.Text() {
	case asideDir, caselessDir, errorDir, externDir, groupDir:
		expected = tokenNameTokType
	case reservedDir:
		expected = stringTokType
	case literalDir:
		expected = -1
	default:
		return syntaxdoc.FormatErrorPos(dir, UnknownDirectiveError, "unknown directive %q", dir.Text())
	}

	for {
		tok := p.s.Next()
		if isOp(tok, ";") {
			return nil
		}
		if expected < 0 && (tok.Type() == stringTokType || tok.Type() == tokenNameTokType) {
			continue
		}
		if tok.Type() != expected || tok.Text() == "$" {
			return dialect.UnexpectedTokenErr(tok, "directive argument")
		}
		if expected == tokenNameTokType {
			p.flags = append(p.flags, flagEntry{dir.Text(), tok})
		}
	}
}

// skipLayer skips a layer definition, "@" is already fetched.
func (p *parser) skipLayer() *syntaxdoc.Error {
	for {
		tok := p.s.Next()
		if tok.IsEof() {
			return dialect.EofErr(tok)
		}
		if isOp(tok, ";") {
			return nil
		}
	}
}

func (p *parser) parseTemplate(name *lexer.Token) *syntaxdoc.Error {
	re, e := p.parseRegexp()
	if e != nil {
		return e
	}
	p.templates[name.Text()[2:]] = re
	return nil
}

// parseRegexp parses "= regexp-or-template... ;" sequence and returns the joined pattern.
func (p *parser) parseRegexp() (string, *syntaxdoc.Error) {
	if _, e := p.expectOp("="); e != nil {
		return "", e
	}

	var (
		sb    strings.Builder
		first *lexer.Token
	)
	for {
		tok := p.s.Next()
		switch {
		case tok.Type() == regexpTokType:
			text := tok.Text()
			sb.WriteString(text[1 : len(text)-1])
		case tok.Type() == nameTokType:
			tpl, has := p.templates[tok.Text()]
			if !has {
				return "", syntaxdoc.FormatErrorPos(tok, UnknownTemplateError, "unknown template %q", tok.Text())
			}
			sb.WriteString(tpl)
		case isOp(tok, ";") && first != nil:
			re := sb.String()
			if _, err := regexp.Compile(re); err != nil {
				return "", syntaxdoc.FormatErrorPos(first, BadRegexpError, "bad regexp: %s", err.Error())
			}
			return re, nil
		default:
			return "", dialect.UnexpectedTokenErr(tok, "regexp")
		}
		if first == nil {
			first = tok
		}
	}
}

func (p *parser) parseToken(name *lexer.Token) *syntaxdoc.Error {
	if name.Text() == "$" {
		return dialect.UnexpectedTokenErr(name, "token name")
	}
	comments := p.s.Pending.Comments()
	section := p.s.Pending.Section(name.SourceName())

	re, e := p.parseRegexp()
	if e != nil {
		return e
	}

	r := model.NewRule(model.LexerRule, name.Text(), dialect.Span(name, p.s.Last()))
	r.Content = model.NewCharSet("/" + re + "/")
	info := p.annotations(comments)
	info.Apply(r)
	if info.HasContent() {
		content, diags := ParseContent(name.SourceName(), info.Content, info.ContentToken.Line())
		if content == nil || diags.HasErrors() {
			p.s.Error(dialect.BadContentErr(info.ContentToken, info.Content))
		} else {
			r.Content = content
		}
	}
	p.add(r, name, section)
	return nil
}

func (p *parser) parseNode(name *lexer.Token) *syntaxdoc.Error {
	comments := p.s.Pending.Comments()
	section := p.s.Pending.Section(name.SourceName())

	if _, e := p.expectOp("="); e != nil {
		return e
	}
	p.s.SetBodyMode(true)
	content, e := p.parseGroup()
	if e != nil {
		return e
	}
	p.s.SetBodyMode(false)
	end, e := p.expectOp(";")
	if e != nil {
		return e
	}

	r := model.NewRule(model.ParserRule, name.Text(), dialect.Span(name, end))
	r.Content = content
	info := p.annotations(comments)
	info.Apply(r)
	if info.HasContent() {
		p.s.Error(dialect.MisplacedContentErr(info.ContentToken))
	}
	p.add(r, name, section)
	return nil
}

func (p *parser) annotations(comments []*lexer.Token) annotation.Info {
	info, diags := annotation.Extract(comments, true)
	p.s.Diags.Add(diags...)
	return info
}

func (p *parser) add(r *model.Rule, nameTok *lexer.Token, section *model.Section) {
	if !p.g.AddRule(r) {
		p.s.Error(dialect.DuplicateRuleErr(nameTok, r.Name))
		return
	}
	if section != nil {
		r.Section = section
		p.g.Sections = append(p.g.Sections, section)
	}
}

// docs consumes comments met in a rule body, doc comments are returned as doc elements.
func (p *parser) docs() []model.Content {
	var res []model.Content
	for {
		tok := p.s.Peek()
		if !p.s.IsComment(tok) {
			return res
		}
		p.s.Next()
		if annotation.Classify(tok.Text()) == annotation.DocComment {
			res = append(res, model.NewDoc(annotation.DocString(tok)))
		}
	}
}

// parseGroup parses comma-separated list of variants.
func (p *parser) parseGroup() (model.Content, *syntaxdoc.Error) {
	var items []model.Content
	for {
		item, e := p.parseVariants()
		if e != nil {
			return nil, e
		}
		items = append(items, item)
		items = append(items, p.docs()...)

		if !isOp(p.s.Peek(), ",") {
			return dialect.Sequence(items), nil
		}
		p.s.Next()
	}
}

func (p *parser) parseVariants() (model.Content, *syntaxdoc.Error) {
	var items []model.Content
	for {
		docs := p.docs()
		item, e := p.parseItem()
		if e != nil {
			return nil, e
		}
		if len(docs) > 0 {
			item = model.Seq(append(docs, item)...)
		}
		items = append(items, item)

		if !isOp(p.s.Peek(), "|") {
			return model.NewAlternative(items...), nil
		}
		p.s.Next()
	}
}

func (p *parser) parseItem() (model.Content, *syntaxdoc.Error) {
	tok := p.s.Next()
	switch tok.Type() {
	case nameTokType:
		return model.NewReference(tok.Text()), nil
	case tokenNameTokType:
		if tok.Text() == "$" {
			return model.NewDoc(endOfInput), nil
		}
		return model.NewReference(tok.Text()), nil
	case stringTokType:
		return model.NewLiteral(tok.Text()), nil
	}

	var closing string
	switch {
	case isOp(tok, "("):
		closing = ")"
	case isOp(tok, "["):
		closing = "]"
	case isOp(tok, "{"):
		closing = "}"
	default:
		return nil, dialect.UnexpectedTokenErr(tok, "group item")
	}

	content, e := p.parseGroup()
	if e != nil {
		return nil, e
	}
	if _, e = p.expectOp(closing); e != nil {
		return nil, e
	}

	switch closing {
	case "]":
		return model.NewOptional(content), nil
	case "}":
		return model.NewZeroPlus(content), nil
	default:
		return content, nil
	}
}

// applyFlags applies token directives, undefined external tokens are declared.
func (p *parser) applyFlags() {
	for _, f := range p.flags {
		name := f.tok.Text()
		r := p.g.Lookup(name)
		if r == nil {
			if f.dir != externDir {
				continue
			}
			r = model.NewRule(model.LexerRule, name, dialect.Span(f.tok, f.tok))
			p.g.AddRule(r)
		}

		switch f.dir {
		case asideDir:
			if r.CSSClass == "" {
				r.CSSClass = AsideClass
			}
		case errorDir:
			r.NoDoc = true
		}
	}
}
