package antlr4

import (
	"strings"
	"unicode/utf8"

	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/annotation"
	"github.com/ava12/syntaxdoc/dialect"
	"github.com/ava12/syntaxdoc/lexer"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/source"
)

type builder struct {
	src   *source.Source
	g     *model.Grammar
	diags syntaxdoc.Diagnostics
}

func build(spec *grammarSpec, src *source.Source) (*model.Grammar, syntaxdoc.Diagnostics) {
	name := src.Stem()
	if spec.name != nil {
		name = spec.name.Text()
	}

	b := &builder{src: src, g: model.NewGrammar(name, src.Name())}
	b.g.Type = spec.gtype

	info, diags := annotation.Extract(spec.comments, false)
	b.diags.Add(diags...)
	b.g.Docs = info.Docs

	for _, tok := range spec.imports {
		b.g.AddImport(tok.Text())
	}

	defined := make(map[string]bool, len(spec.rules))
	for _, r := range spec.rules {
		defined[r.name.Text()] = true
	}
	for _, t := range spec.tokens {
		if !defined[t.name.Text()] {
			b.addToken(t)
		}
	}

	for _, r := range spec.rules {
		b.addRule(r)
	}

	return b.g, b.diags
}

func (b *builder) add(r *model.Rule, nameTok *lexer.Token, section *model.Section) {
	if !b.g.AddRule(r) {
		b.diags.Add(dialect.DuplicateRuleErr(nameTok, r.Name))
		return
	}

	if section != nil {
		r.Section = section
		b.g.Sections = append(b.g.Sections, section)
	}
	if r.IsLiteral {
		b.g.AddAlias(r.Literal(), r)
	}
}

func (b *builder) annotations(comments []*lexer.Token) annotation.Info {
	info, diags := annotation.Extract(comments, true)
	b.diags.Add(diags...)
	return info
}

// lexerContent replaces content with the one supplied by content directive, if any.
func (b *builder) lexerContent(r *model.Rule, info *annotation.Info) {
	if info.HasContent() {
		content, diags := ParseLexerPattern(b.src.Name(), info.Content, info.ContentToken.Line())
		if content == nil || diags.HasErrors() {
			b.diags.Add(dialect.BadContentErr(info.ContentToken, info.Content))
		} else {
			r.Content = content
		}
	}

	_, r.IsLiteral = r.Content.(*model.Literal)
}

func (b *builder) addToken(t *tokenSpec) {
	r := model.NewRule(model.LexerRule, t.name.Text(), dialect.Span(t.name, t.name))
	info := b.annotations(t.comments)
	info.Apply(r)
	b.lexerContent(r, &info)
	b.add(r, t.name, t.section)
}

func (b *builder) addRule(spec *ruleSpec) {
	kind := model.ParserRule
	if spec.isLexer() {
		kind = model.LexerRule
	}

	r := model.NewRule(kind, spec.name.Text(), dialect.Span(spec.name, spec.end))
	r.IsFragment = spec.fragment
	r.Content = b.altList(spec.body, spec.isLexer())

	info := b.annotations(spec.comments)
	info.Apply(r)
	if spec.isLexer() {
		b.lexerContent(r, &info)
	} else if info.HasContent() {
		b.diags.Add(dialect.MisplacedContentErr(info.ContentToken))
	}

	b.add(r, spec.name, spec.section)
}

func (b *builder) altList(l *altList, lexerRule bool) model.Content {
	items := make([]model.Content, len(l.alts))
	for i, alt := range l.alts {
		items[i] = b.alternative(alt, lexerRule)
	}

	if lexerRule {
		if cs := foldCharSet(items); cs != nil {
			return cs
		}
	}
	return model.NewAlternative(items...)
}

func (b *builder) alternative(alt *alternative, lexerRule bool) model.Content {
	items := make([]model.Content, len(alt.elements))
	for i, el := range alt.elements {
		items[i] = b.element(el, lexerRule)
	}
	return dialect.Sequence(items)
}

func (b *builder) element(el *element, lexerRule bool) model.Content {
	var res model.Content

	switch el.kind {
	case emptyElem:
		return model.Empty

	case docElem:
		return model.NewDoc(annotation.DocString(el.tok))

	case refElem:
		res = model.NewReference(el.tok.Text())

	case literalElem:
		switch {
		case !lexerRule:
			res = model.NewReference(el.tok.Text())
		case el.tok.Text() == "''":
			res = model.Empty
		default:
			res = model.NewLiteral(el.tok.Text())
		}

	case rangeElem:
		res = model.NewRange(el.tok.Text(), el.end.Text())

	case charSetElem:
		if el.tok.Text() == "[]" {
			res = model.Empty
		} else {
			res = model.NewCharSet(el.tok.Text())
		}

	case wildcardElem:
		res = model.AnyChar

	case blockElem:
		res = b.altList(el.block, lexerRule)
	}

	if el.negated {
		res = model.NewNegation(res)
	}

	switch el.suffix {
	case "?":
		return model.NewOptional(res)
	case "*":
		return model.NewZeroPlus(res)
	case "+":
		return model.NewOnePlus(res)
	default:
		return res
	}
}

// foldCharSet turns alternative of two or more single-char literals into a char set.
// Returns nil if items do not qualify.
func foldCharSet(items []model.Content) model.Content {
	if len(items) < 2 {
		return nil
	}

	var sb strings.Builder
	sb.WriteByte('[')
	for _, item := range items {
		l, ok := item.(*model.Literal)
		if !ok {
			return nil
		}
		ch, ok := charSetChar(l.Text)
		if !ok {
			return nil
		}
		sb.WriteString(ch)
	}
	sb.WriteByte(']')
	return model.NewCharSet(sb.String())
}

func charSetChar(literal string) (string, bool) {
	if len(literal) < 3 {
		return "", false
	}

	body := literal[1 : len(literal)-1]
	switch {
	case body == `\'`:
		return "'", true
	case strings.HasPrefix(body, `\u`):
		return body, len(body) == 6
	case strings.HasPrefix(body, `\`):
		return body, len(body) == 2
	case utf8.RuneCountInString(body) != 1:
		return "", false
	case body == "]" || body == "-":
		return `\` + body, true
	default:
		return body, true
	}
}
