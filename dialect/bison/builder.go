package bison

import (
	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/annotation"
	"github.com/ava12/syntaxdoc/dialect"
	"github.com/ava12/syntaxdoc/dialect/antlr4"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/source"
)

type builder struct {
	src   *source.Source
	g     *model.Grammar
	diags syntaxdoc.Diagnostics
}

func build(spec *grammarSpec, src *source.Source) (*model.Grammar, syntaxdoc.Diagnostics) {
	b := &builder{src: src, g: model.NewGrammar(src.Stem(), src.Name())}
	b.g.Type = model.ParserGrammar

	info, diags := annotation.Extract(spec.docs, false)
	b.diags.Add(diags...)
	b.g.Docs = info.Docs

	for _, decl := range spec.tokens {
		b.addTokens(decl)
	}
	for _, r := range spec.rules {
		b.addRule(r)
	}

	return b.g, b.diags
}

func (b *builder) addSection(r *model.Rule, section *model.Section) {
	if section != nil && r.Section == nil {
		r.Section = section
		b.g.Sections = append(b.g.Sections, section)
	}
}

// addTokens declares lexer rules. Annotations apply to the first token of a declaration only,
// names already defined are skipped.
func (b *builder) addTokens(decl *tokenDecl) {
	info, diags := annotation.Extract(decl.comments, true)
	b.diags.Add(diags...)
	section := decl.section

	for _, entry := range decl.entries {
		name := entry.name.Text()
		if b.g.Lookup(name) != nil {
			continue
		}

		r := model.NewRule(model.LexerRule, name, dialect.Span(entry.name, entry.alias))
		info.Apply(r)
		r.Content = b.tokenContent(entry, &info)
		_, r.IsLiteral = r.Content.(*model.Literal)

		b.g.AddRule(r)
		b.addSection(r, section)
		if entry.alias != nil {
			b.g.AddAlias(entry.alias.Text(), r)
		}
		if r.IsLiteral {
			b.g.AddAlias(r.Literal(), r)
		}

		info = annotation.Info{Importance: info.Importance, Inline: info.Inline, NoDoc: info.NoDoc,
			NoDiagram: info.NoDiagram, KeepDiagramRecursive: info.KeepDiagramRecursive}
		section = nil
	}
}

func (b *builder) tokenContent(entry tokenEntry, info *annotation.Info) model.Content {
	if info.HasContent() {
		content, diags := antlr4.ParseLexerPattern(b.src.Name(), info.Content, info.ContentToken.Line())
		if content != nil && !diags.HasErrors() {
			return content
		}
		b.diags.Add(dialect.BadContentErr(info.ContentToken, info.Content))
		return nil
	}

	name := entry.name.Text()
	switch {
	case isQuoted(name):
		return model.NewLiteral(name)
	case entry.alias != nil && info.Name == "":
		return model.NewLiteral(entry.alias.Text())
	default:
		return nil
	}
}

// addRule adds a parser rule. Rules sharing a name are merged into a single alternative.
func (b *builder) addRule(spec *ruleSpec) {
	name := spec.name.Text()
	content := b.alternatives(spec.alts)

	info, diags := annotation.Extract(spec.comments, true)
	b.diags.Add(diags...)
	if info.HasContent() {
		b.diags.Add(dialect.MisplacedContentErr(info.ContentToken))
	}

	if r := b.g.Lookup(name); r != nil {
		if r.IsLexer() {
			b.diags.Add(dialect.DuplicateRuleErr(spec.name, name))
			return
		}

		r.Content = model.NewAlternative(r.Content, content)
		if len(info.Docs) > 0 {
			r.Documentation = append(r.Documentation, info.Docs...)
		}
		if spec.end != nil {
			end := dialect.Span(spec.end, spec.end)
			r.Position.EndLine, r.Position.EndCol = end.EndLine, end.EndCol
		}
		b.addSection(r, spec.section)
		return
	}

	r := model.NewRule(model.ParserRule, name, dialect.Span(spec.name, spec.end))
	info.Apply(r)
	r.Content = content
	b.g.AddRule(r)
	b.addSection(r, spec.section)
}

func (b *builder) alternatives(alts [][]*element) model.Content {
	items := make([]model.Content, len(alts))
	for i, alt := range alts {
		elements := make([]model.Content, len(alt))
		for j, el := range alt {
			elements[j] = b.element(el)
		}
		items[i] = dialect.Sequence(elements)
	}
	return model.NewAlternative(items...)
}

func (b *builder) element(el *element) model.Content {
	switch el.kind {
	case refElem:
		return model.NewReference(el.tok.Text())
	case literalElem:
		return model.NewLiteral(el.tok.Text())
	case docElem:
		return model.NewDoc(annotation.DocString(el.tok))
	default:
		return model.Empty
	}
}
