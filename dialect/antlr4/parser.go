package antlr4

import (
	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/annotation"
	"github.com/ava12/syntaxdoc/dialect"
	"github.com/ava12/syntaxdoc/lexer"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/source"
)

type parser struct {
	s    *dialect.Scanner
	spec *grammarSpec
}

func parse(src *source.Source) (*grammarSpec, syntaxdoc.Diagnostics) {
	p := &parser{
		s:    dialect.NewScanner(antlrLexer, src, commentTokType),
		spec: &grammarSpec{},
	}
	p.parseGrammar()
	return p.spec, p.s.Diags
}

func (p *parser) parseGrammar() {
	if e := p.parseHeader(); e != nil {
		p.s.Error(e)
		p.recover()
	}

	for !p.s.Peek().IsEof() {
		if e := p.parseStatement(); e != nil {
			p.s.Error(e)
			p.recover()
		}
	}
}

// recover skips tokens up to and including the next semicolon unless it is the last fetched token.
// Comments met on the way are dropped.
func (p *parser) recover() {
	p.s.SetBodyMode(false)
	if last := p.s.Last(); last == nil || !isOp(last, ";") {
		for {
			tok := p.s.Next()
			if tok.IsEof() || isOp(tok, ";") {
				break
			}
			if isOp(tok, "{") {
				p.s.SkipBlock(tok, lexer.CLikeChars)
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

func (p *parser) expectName() (*lexer.Token, *syntaxdoc.Error) {
	tok := p.s.Next()
	if tok.Type() != nameTokType {
		return nil, dialect.UnexpectedTokenErr(tok, "name")
	}
	return tok, nil
}

// skipBlockAfter skips a code block that must follow.
func (p *parser) skipBlockAfter() *syntaxdoc.Error {
	tok, e := p.expectOp("{")
	if e != nil {
		return e
	}
	p.s.SkipBlock(tok, lexer.CLikeChars)
	return nil
}

func (p *parser) parseHeader() *syntaxdoc.Error {
	tok := p.s.Next()
	p.spec.comments = p.s.Pending.Comments()
	p.s.Pending.Section("")

	switch {
	case isName(tok, "lexer"):
		p.spec.gtype = model.LexerGrammar
		tok = p.s.Next()
	case isName(tok, "parser"):
		p.spec.gtype = model.ParserGrammar
		tok = p.s.Next()
	}
	if !isName(tok, "grammar") {
		return dialect.UnexpectedTokenErr(tok, "\"grammar\"")
	}

	name, e := p.expectName()
	if e != nil {
		return e
	}
	p.spec.name = name

	_, e = p.expectOp(";")
	return e
}

func (p *parser) parseStatement() *syntaxdoc.Error {
	tok := p.s.Next()
	if tok.Type() == nameTokType && isOp(p.s.Peek(), "{") {
		switch tok.Text() {
		case "options":
			p.s.Pending.Comments()
			return p.parseOptions(true)
		case "tokens":
			p.s.Pending.Comments()
			return p.parseTokens()
		case "channels":
			p.s.Pending.Comments()
			return p.skipBlockAfter()
		}
	}

	switch {
	case isOp(tok, "@"):
		p.s.Pending.Comments()
		return p.parseNamedAction()
	case isName(tok, "import"):
		p.s.Pending.Comments()
		return p.parseImports()
	case isName(tok, "mode"):
		p.s.Pending.Comments()
		if _, e := p.expectName(); e != nil {
			return e
		}
		_, e := p.expectOp(";")
		return e
	case tok.Type() == nameTokType:
		return p.parseRule(tok)
	default:
		return dialect.UnexpectedTokenErr(tok, "rule")
	}
}

// parseOptions parses an options block. If topLevel is set, tokenVocab option is recorded as import.
func (p *parser) parseOptions(topLevel bool) *syntaxdoc.Error {
	if _, e := p.expectOp("{"); e != nil {
		return e
	}

	for {
		tok := p.s.Next()
		if isOp(tok, "}") {
			return nil
		}
		if tok.Type() != nameTokType {
			return dialect.UnexpectedTokenErr(tok, "option name")
		}
		if _, e := p.expectOp("="); e != nil {
			return e
		}

		value := p.s.Next()
		if topLevel && tok.Text() == "tokenVocab" && value.Type() == nameTokType {
			p.spec.imports = append(p.spec.imports, value)
		}
		for !isOp(value, ";") {
			switch {
			case value.IsEof():
				return dialect.EofErr(value)
			case isOp(value, "{"):
				p.s.SkipBlock(value, lexer.CLikeChars)
			case isOp(value, "}"):
				return dialect.UnexpectedTokenErr(value, "\";\"")
			}
			value = p.s.Next()
		}
	}
}

func (p *parser) parseImports() *syntaxdoc.Error {
	for {
		name, e := p.expectName()
		if e != nil {
			return e
		}
		tok := p.s.Next()
		if isOp(tok, "=") {
			if name, e = p.expectName(); e != nil {
				return e
			}
			tok = p.s.Next()
		}
		p.spec.imports = append(p.spec.imports, name)

		switch {
		case isOp(tok, ";"):
			return nil
		case !isOp(tok, ","):
			return dialect.UnexpectedTokenErr(tok, "\",\" or \";\"")
		}
	}
}

func (p *parser) parseTokens() *syntaxdoc.Error {
	p.s.Next()
	for {
		tok := p.s.Next()
		comments := p.s.Pending.Comments()
		section := p.s.Pending.Section(tok.SourceName())
		if isOp(tok, "}") {
			return nil
		}
		if tok.Type() != nameTokType {
			return dialect.UnexpectedTokenErr(tok, "token name")
		}
		p.spec.tokens = append(p.spec.tokens, &tokenSpec{name: tok, comments: comments, section: section})

		tok = p.s.Peek()
		switch {
		case isOp(tok, ","):
			p.s.Next()
		case !isOp(tok, "}"):
			return dialect.UnexpectedTokenErr(p.s.Next(), "\",\" or \"}\"")
		}
	}
}

// parseNamedAction parses @name { ... } or @scope::name { ... }, "@" is already fetched.
func (p *parser) parseNamedAction() *syntaxdoc.Error {
	if _, e := p.expectName(); e != nil {
		return e
	}
	if isOp(p.s.Peek(), "::") {
		p.s.Next()
		if _, e := p.expectName(); e != nil {
			return e
		}
	}
	return p.skipBlockAfter()
}

func (p *parser) parseRule(name *lexer.Token) *syntaxdoc.Error {
	r := &ruleSpec{
		comments: p.s.Pending.Comments(),
		section:  p.s.Pending.Section(name.SourceName()),
	}
	if isName(name, "fragment") {
		r.fragment = true
		var e *syntaxdoc.Error
		if name, e = p.expectName(); e != nil {
			return e
		}
	}
	r.name = name

	if e := p.parseRuleHeader(r.isLexer()); e != nil {
		return e
	}

	p.s.SetBodyMode(true)
	body, e := p.parseAltList(r.isLexer())
	p.s.SetBodyMode(false)
	if e != nil {
		return e
	}
	r.body = body

	if r.end, e = p.expectOp(";"); e != nil {
		return e
	}
	if e = p.parseExceptions(); e != nil {
		return e
	}

	p.spec.rules = append(p.spec.rules, r)
	return nil
}

// parseRuleHeader skips everything between rule name and colon.
func (p *parser) parseRuleHeader(lexerRule bool) *syntaxdoc.Error {
	for {
		tok := p.s.Next()
		switch {
		case isOp(tok, ":"):
			return nil

		case !lexerRule && tok.Type() == charSetTokType:

		case isName(tok, "returns") || isName(tok, "locals"):
			if args := p.s.Next(); args.Type() != charSetTokType {
				return dialect.UnexpectedTokenErr(args, "arguments")
			}

		case isName(tok, "throws"):
			for {
				if _, e := p.expectName(); e != nil {
					return e
				}
				if !isOp(p.s.Peek(), ",") {
					break
				}
				p.s.Next()
			}

		case isName(tok, "options"):
			if e := p.parseOptions(false); e != nil {
				return e
			}

		case isOp(tok, "@"):
			if e := p.parseNamedAction(); e != nil {
				return e
			}

		default:
			return dialect.UnexpectedTokenErr(tok, "\":\"")
		}
	}
}

func (p *parser) parseExceptions() *syntaxdoc.Error {
	for {
		tok := p.s.Peek()
		switch {
		case isName(tok, "catch"):
			p.s.Next()
			if args := p.s.Next(); args.Type() != charSetTokType {
				return dialect.UnexpectedTokenErr(args, "arguments")
			}
		case isName(tok, "finally"):
			p.s.Next()
		default:
			return nil
		}

		if e := p.skipBlockAfter(); e != nil {
			return e
		}
	}
}

func (p *parser) parseAltList(lexerRule bool) (*altList, *syntaxdoc.Error) {
	res := &altList{}
	for {
		alt, e := p.parseAlternative(lexerRule)
		if e != nil {
			return nil, e
		}
		res.alts = append(res.alts, alt)

		if !isOp(p.s.Peek(), "|") {
			return res, nil
		}
		p.s.Next()
	}
}

func isAltEnd(tok *lexer.Token) bool {
	return tok.IsEof() || isOp(tok, "|") || isOp(tok, ")") || isOp(tok, ";")
}

func (p *parser) parseAlternative(lexerRule bool) (*alternative, *syntaxdoc.Error) {
	res := &alternative{}
	p.skipElementOptions()

	for {
		tok := p.s.Peek()
		switch {
		case isAltEnd(tok):
			return res, nil

		case isOp(tok, "#"):
			p.s.Next()
			if _, e := p.expectName(); e != nil {
				return nil, e
			}

		case isOp(tok, "->"):
			p.s.Next()
			if e := p.parseLexerCommands(); e != nil {
				return nil, e
			}
			res.elements = append(res.elements, &element{kind: emptyElem, tok: tok})

		default:
			el, e := p.parseElement(lexerRule)
			if e != nil {
				return nil, e
			}
			res.elements = append(res.elements, el)
		}
	}
}

func (p *parser) parseLexerCommands() *syntaxdoc.Error {
	for {
		if _, e := p.expectName(); e != nil {
			return e
		}
		if isOp(p.s.Peek(), "(") {
			p.s.Next()
			arg := p.s.Next()
			if arg.Type() != nameTokType && arg.Type() != intTokType {
				return dialect.UnexpectedTokenErr(arg, "command argument")
			}
			if _, e := p.expectOp(")"); e != nil {
				return e
			}
		}

		if !isOp(p.s.Peek(), ",") {
			return nil
		}
		p.s.Next()
	}
}

func (p *parser) skipElementOptions() {
	if tok := p.s.Peek(); isOp(tok, "<") {
		p.s.Next()
		p.s.SkipBlock(tok, lexer.CLikeChars)
	}
}

func (p *parser) parseElement(lexerRule bool) (*element, *syntaxdoc.Error) {
	tok := p.s.Next()

	if p.s.IsComment(tok) {
		if annotation.Classify(tok.Text()) == annotation.DocComment {
			return &element{kind: docElem, tok: tok}, nil
		}
		return &element{kind: emptyElem, tok: tok}, nil
	}

	if isOp(tok, "{") {
		p.s.SkipBlock(tok, lexer.CLikeChars)
		if isOp(p.s.Peek(), "?") {
			p.s.Next()
		}
		return &element{kind: emptyElem, tok: tok}, nil
	}

	if tok.Type() == nameTokType {
		if next := p.s.Peek(); isOp(next, "=") || isOp(next, "+=") {
			p.s.Next()
			tok = p.s.Next()
		}
	}

	el, e := p.parseAtom(tok, lexerRule)
	if e != nil {
		return nil, e
	}

	next := p.s.Peek()
	if isOp(next, "?") || isOp(next, "*") || isOp(next, "+") {
		p.s.Next()
		el.suffix = next.Text()
		if isOp(p.s.Peek(), "?") {
			p.s.Next()
		}
	}
	return el, nil
}

func (p *parser) parseAtom(tok *lexer.Token, lexerRule bool) (*element, *syntaxdoc.Error) {
	var res *element

	switch {
	case tok.Type() == literalTokType:
		res = &element{kind: literalElem, tok: tok}
		if isOp(p.s.Peek(), "..") {
			p.s.Next()
			end := p.s.Next()
			if end.Type() != literalTokType {
				return nil, dialect.UnexpectedTokenErr(end, "literal")
			}
			res = &element{kind: rangeElem, tok: tok, end: end}
		}

	case tok.Type() == charSetTokType:
		res = &element{kind: charSetElem, tok: tok}

	case tok.Type() == nameTokType:
		res = &element{kind: refElem, tok: tok}
		if !lexerRule && p.s.Peek().Type() == charSetTokType {
			p.s.Next()
		}

	case isOp(tok, "."):
		res = &element{kind: wildcardElem, tok: tok}

	case isOp(tok, "~"):
		var e *syntaxdoc.Error
		if res, e = p.parseAtom(p.s.Next(), lexerRule); e != nil {
			return nil, e
		}
		res.negated = true
		return res, nil

	case isOp(tok, "("):
		block, e := p.parseBlock(lexerRule)
		if e != nil {
			return nil, e
		}
		return &element{kind: blockElem, tok: tok, block: block}, nil

	default:
		return nil, dialect.UnexpectedTokenErr(tok, "element")
	}

	p.skipElementOptions()
	return res, nil
}

// parseBlock parses parenthesized block, "(" is already fetched.
func (p *parser) parseBlock(lexerRule bool) (*altList, *syntaxdoc.Error) {
	tok := p.s.Peek()
	if isName(tok, "options") || isOp(tok, "@") || isOp(tok, ":") {
		for !isOp(tok, ":") {
			p.s.Next()
			var e *syntaxdoc.Error
			if isOp(tok, "@") {
				e = p.parseNamedAction()
			} else if isName(tok, "options") {
				e = p.parseOptions(false)
			} else {
				e = dialect.UnexpectedTokenErr(tok, "\":\"")
			}
			if e != nil {
				return nil, e
			}
			tok = p.s.Peek()
		}
		p.s.Next()
	}

	res, e := p.parseAltList(lexerRule)
	if e != nil {
		return nil, e
	}
	if _, e = p.expectOp(")"); e != nil {
		return nil, e
	}
	return res, nil
}
