package dialect

import (
	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/annotation"
	"github.com/ava12/syntaxdoc/lexer"
	"github.com/ava12/syntaxdoc/model"
	"github.com/ava12/syntaxdoc/source"
)

// Scanner fetches significant tokens for dialect parsers.
// Comment tokens are collected into Pending, lexical errors are recorded into Diags and skipped.
// In body mode doc, control, and section comments are returned as tokens and plain comments are dropped.
type Scanner struct {
	Pending annotation.Pending
	Diags   syntaxdoc.Diagnostics

	// Translate, if set, converts comment tokens of dialects using other comment markers
	// to the //-style annotation syntax before they are classified.
	Translate func(tok *lexer.Token) *lexer.Token

	stream      *lexer.Stream
	commentType int
	body        bool
	peeked      *lexer.Token
	last        *lexer.Token
}

// NewScanner creates a scanner. Tokens of commentType are treated as comments.
func NewScanner(l *lexer.Lexer, src *source.Source, commentType int) *Scanner {
	return &Scanner{stream: lexer.NewStream(l, src), commentType: commentType}
}

func (s *Scanner) Source() *source.Source {
	return s.stream.Source()
}

// SetBodyMode switches body mode. A peeked token is refetched in the new mode.
func (s *Scanner) SetBodyMode(on bool) {
	if s.body == on {
		return
	}
	s.body = on
	if s.peeked != nil {
		s.stream.Seek(s.peeked.Offset())
		s.peeked = nil
	}
}

// IsComment reports whether the token is a comment.
func (s *Scanner) IsComment(tok *lexer.Token) bool {
	return tok.Type() == s.commentType
}

// Next fetches next significant token. Returns EoF token at the end of source.
func (s *Scanner) Next() *lexer.Token {
	if s.peeked != nil {
		s.last = s.peeked
		s.peeked = nil
		return s.last
	}

	for {
		tok, e := s.stream.Next()
		if e != nil {
			s.Diags.Add(asError(e))
			continue
		}

		if tok.Type() != s.commentType {
			s.last = tok
			return tok
		}
		if s.Translate != nil {
			tok = s.Translate(tok)
		}

		if !s.body {
			s.Pending.Add(tok)
		} else if annotation.Classify(tok.Text()) != annotation.PlainComment {
			s.last = tok
			return tok
		}
	}
}

// Peek fetches next significant token without consuming it.
func (s *Scanner) Peek() *lexer.Token {
	if s.peeked == nil {
		last := s.last
		s.peeked = s.Next()
		s.last = last
	}
	return s.peeked
}

// Last returns the last fetched token or nil.
func (s *Scanner) Last() *lexer.Token {
	return s.last
}

// SkipBlock skips a code block opened by the opener token, which must be the last fetched token.
func (s *Scanner) SkipBlock(opener *lexer.Token, chars lexer.CharLiterals) {
	s.peeked = nil
	if e := s.stream.SkipBlock(opener, chars); e != nil {
		s.Diags.Add(asError(e))
	}
}

// SkipUntil skips raw text up to and including marker. from must be the last fetched token.
func (s *Scanner) SkipUntil(from *lexer.Token, marker string) {
	s.peeked = nil
	if e := s.stream.SkipUntil(from, marker); e != nil {
		s.Diags.Add(asError(e))
	}
}

// Error records an error diagnostic.
func (s *Scanner) Error(e *syntaxdoc.Error) {
	s.Diags.Add(e)
}

func asError(e error) *syntaxdoc.Error {
	if se, ok := e.(*syntaxdoc.Error); ok {
		return se
	}
	return syntaxdoc.FormatError(UnexpectedTokenError, "%s", e.Error())
}

// Span returns position spanning tokens from and to. to may be nil.
func Span(from, to *lexer.Token) model.Position {
	res := model.Position{File: from.SourceName(), Line: from.Line(), Col: from.Col()}
	if to != nil {
		res.EndLine = to.Line()
		res.EndCol = to.Col() + len([]rune(to.Text()))
	}
	return res
}
