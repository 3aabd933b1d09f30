package bison

import (
	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/annotation"
	"github.com/ava12/syntaxdoc/dialect"
	"github.com/ava12/syntaxdoc/lexer"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/source"
)

// Raw parse tree.

type grammarSpec struct {
	docs   []*lexer.Token
	tokens []*tokenDecl
	rules  []*ruleSpec
}

// tokenDecl is a %token or %epp declaration, or a //@ %token pseudo-declaration.
type tokenDecl struct {
	directive *lexer.Token
	entries   []tokenEntry
	comments  []*lexer.Token
	section   *model.Section
}

type tokenEntry struct {
	name  *lexer.Token
	alias *lexer.Token
}

type ruleSpec struct {
	name     *lexer.Token
	end      *lexer.Token
	comments []*lexer.Token
	section  *model.Section
	alts     [][]*element
}

type elementKind int

const (
	// actions, predicates, and %-modifiers
	emptyElem elementKind = iota
	refElem
	literalElem
	docElem
)

type element struct {
	kind elementKind
	tok  *lexer.Token
}

type parser struct {
	s        *dialect.Scanner
	chars    lexer.CharLiterals
	spec     *grammarSpec
	docsDone bool
}

func parse(src *source.Source, opts model.LoadingOptions) (*grammarSpec, syntaxdoc.Diagnostics) {
	p := &parser{
		s:     dialect.NewScanner(bisonLexer, src, commentTokType),
		chars: lexer.StringLikeChars,
		spec:  &grammarSpec{},
	}
	if opts.UseCCharLiterals {
		p.chars = lexer.CLikeChars
	}

	if p.parsePrologue() {
		p.parseRules()
	}
	return p.spec, p.s.Diags
}

// parsePrologue parses declarations section. Returns true if rules section follows.
func (p *parser) parsePrologue() bool {
	for {
		tok := p.s.Next()
		switch {
		case tok.IsEof():
			p.finishPrologue()
			p.s.Error(dialect.UnexpectedTokenErr(tok, "\"%%\""))
			return false

		case isDirective(tok, separatorDir):
			p.finishPrologue()
			return true

		case isDirective(tok, prologueDir):
			p.s.SkipUntil(tok, prologueClose)

		case isDirective(tok, tokenDir) || isDirective(tok, eppDir):
			p.parseTokenDecl(tok)

		case tok.Type() == directiveTokType:
			p.skipDirective()

		default:
			p.s.Error(dialect.UnexpectedTokenErr(tok, "declaration"))
		}
	}
}

func (p *parser) finishPrologue() {
	comments := p.takeComments()
	if !p.docsDone {
		p.docsDone = true
		p.spec.docs = comments
	}
}

// takeComments returns pending comments. //@ %token pseudo-declarations are extracted on the way,
// comments preceding them are attached to them.
func (p *parser) takeComments() []*lexer.Token {
	var res []*lexer.Token
	for _, c := range p.s.Pending.Comments() {
		if annotation.Classify(c.Text()) != annotation.ControlComment {
			res = append(res, c)
			continue
		}

		d, e := annotation.ParseDirective(c.Text())
		if e != nil || !d.IsToken() {
			res = append(res, c)
			continue
		}

		name, ok := annotation.TokenDirective(c)
		if !ok {
			p.s.Error(dialect.BadTokenDirectiveErr(c))
			continue
		}
		decl := lexer.NewToken(nameTokType, nameTok, name, c.Pos(), c.End())
		p.declare(c, []tokenEntry{{name: decl}}, res)
		res = nil
	}
	return res
}

func (p *parser) declare(directive *lexer.Token, entries []tokenEntry, comments []*lexer.Token) {
	if !p.docsDone {
		p.docsDone = true
		if len(comments) > 0 && annotation.Classify(comments[0].Text()) == annotation.DocComment {
			p.spec.docs = comments[:1]
			comments = comments[1:]
		}
	}

	p.spec.tokens = append(p.spec.tokens, &tokenDecl{
		directive: directive,
		entries:   entries,
		comments:  comments,
		section:   p.s.Pending.Section(directive.SourceName()),
	})
}

// parseTokenDecl parses %token [<tag>] NAME [number] ["alias"] ... list.
func (p *parser) parseTokenDecl(directive *lexer.Token) {
	comments := p.takeComments()
	var entries []tokenEntry

	for {
		tok := p.s.Peek()
		switch tok.Type() {
		case tagTokType, intTokType:
			p.s.Next()

		case nameTokType, literalTokType:
			p.s.Next()
			entry := tokenEntry{name: tok}
			if p.s.Peek().Type() == intTokType {
				p.s.Next()
			}
			if tok.Type() == nameTokType && p.s.Peek().Type() == literalTokType {
				entry.alias = p.s.Next()
			}
			entries = append(entries, entry)

		default:
			if len(entries) == 0 {
				p.s.Error(dialect.UnexpectedTokenErr(tok, "token name"))
			}
			p.declare(directive, entries, comments)
			return
		}
	}
}

// skipDirective skips arguments of a declaration, including code blocks.
func (p *parser) skipDirective() {
	for {
		tok := p.s.Peek()
		if tok.IsEof() || tok.Type() == directiveTokType {
			return
		}

		p.s.Next()
		if isOp(tok, "{") {
			p.s.SkipBlock(tok, p.chars)
		}
	}
}

func (p *parser) parseRules() {
	var next *lexer.Token
	for {
		tok := next
		if tok == nil {
			tok = p.s.Next()
		}
		next = nil

		switch {
		case tok.IsEof() || isDirective(tok, separatorDir):
			return

		case tok.Type() == nameTokType:
			var e *syntaxdoc.Error
			next, e = p.parseRule(tok)
			if e != nil {
				p.s.Error(e)
				next = p.recover()
			}

		default:
			p.s.Error(dialect.UnexpectedTokenErr(tok, "rule"))
			next = p.recover()
		}
	}
}

// recover skips tokens up to the end of current rule. Returns the next rule head,
// the end of rules section, or nil.
func (p *parser) recover() *lexer.Token {
	p.s.SetBodyMode(false)
	p.s.Pending.Comments()
	if last := p.s.Last(); last != nil && isOp(last, ";") {
		return nil
	}

	for {
		tok := p.s.Next()
		switch {
		case tok.IsEof() || isDirective(tok, separatorDir):
			return tok
		case isOp(tok, ";"):
			return nil
		case isOp(tok, "{"):
			p.s.SkipBlock(tok, p.chars)
		case tok.Type() == nameTokType && p.isRuleHead():
			return tok
		}
	}
}

// isRuleHead reports whether the name just fetched starts a rule. Named reference is skipped.
func (p *parser) isRuleHead() bool {
	if p.s.Peek().Type() == bracketTokType {
		p.s.Next()
	}
	return isOp(p.s.Peek(), ":")
}

// parseRule parses a rule, the name is already fetched.
// Returns the next token that cannot belong to the rule, i.e. the next rule head or the end of section,
// or nil if the rule is terminated with a semicolon.
func (p *parser) parseRule(name *lexer.Token) (*lexer.Token, *syntaxdoc.Error) {
	r := &ruleSpec{
		name:     name,
		comments: p.s.Pending.Comments(),
		section:  p.s.Pending.Section(name.SourceName()),
	}

	if p.s.Peek().Type() == bracketTokType {
		p.s.Next()
	}
	if tok := p.s.Next(); !isOp(tok, ":") {
		return nil, dialect.UnexpectedTokenErr(tok, "\":\"")
	}

	p.s.SetBodyMode(true)
	defer p.s.SetBodyMode(false)

	for {
		alt, end, e := p.parseAlternative()
		if e != nil {
			return nil, e
		}
		r.alts = append(r.alts, alt)

		switch {
		case isOp(end, "|"):
			continue
		case isOp(end, ";"):
			r.end = end
			p.spec.rules = append(p.spec.rules, r)
			return nil, nil
		default:
			p.spec.rules = append(p.spec.rules, r)
			return end, nil
		}
	}
}

// parseAlternative returns alternative elements and the token that terminated it:
// "|", ";", the next rule head, "%%", or EoF.
func (p *parser) parseAlternative() ([]*element, *lexer.Token, *syntaxdoc.Error) {
	var res []*element
	var trailing []*lexer.Token

	flush := func() {
		for _, c := range trailing {
			if annotation.Classify(c.Text()) == annotation.DocComment {
				res = append(res, &element{kind: docElem, tok: c})
			}
		}
		trailing = nil
	}

	for {
		tok := p.s.Next()
		switch {
		case p.s.IsComment(tok):
			trailing = append(trailing, tok)
			continue

		case isOp(tok, "|") || isOp(tok, ";") || tok.IsEof() || isDirective(tok, separatorDir):
			flush()
			return res, tok, nil

		case tok.Type() == nameTokType:
			if p.isRuleHead() {
				for _, c := range trailing {
					p.s.Pending.Add(c)
				}
				return res, tok, nil
			}
			flush()
			res = append(res, &element{kind: refElem, tok: tok})
			continue
		}

		flush()
		switch {
		case tok.Type() == literalTokType:
			res = append(res, &element{kind: literalElem, tok: tok})
			if p.s.Peek().Type() == bracketTokType {
				p.s.Next()
			}

		case isOp(tok, "{"):
			p.s.SkipBlock(tok, p.chars)

		case tok.Type() == tagTokType:

		case isDirective(tok, predicateDir):
			open := p.s.Next()
			if !isOp(open, "{") {
				return nil, nil, dialect.UnexpectedTokenErr(open, "\"{\"")
			}
			p.s.SkipBlock(open, p.chars)

		case isDirective(tok, emptyDir):
		case isDirective(tok, precDir):
			if arg := p.s.Next(); arg.Type() != nameTokType && arg.Type() != literalTokType {
				return nil, nil, dialect.UnexpectedTokenErr(arg, "symbol")
			}

		case isDirective(tok, dprecDir) || isDirective(tok, expectDir) || isDirective(tok, expectRrDir):
			if arg := p.s.Next(); arg.Type() != intTokType {
				return nil, nil, dialect.UnexpectedTokenErr(arg, "number")
			}

		case isDirective(tok, mergeDir):
			if arg := p.s.Next(); arg.Type() != tagTokType {
				return nil, nil, dialect.UnexpectedTokenErr(arg, "tag")
			}

		default:
			return nil, nil, dialect.UnexpectedTokenErr(tok, "")
		}
	}
}
