package lexer

import (
	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/source"
)

// Stream fetches tokens from a single source and supports one-token lookahead and rewinding.
// Stream is not safe for concurrent use.
type Stream struct {
	lexer  *Lexer
	src    *source.Source
	offset int
	peeked *Token
	next   int
}

// NewStream creates token stream positioned at the start of src.
func NewStream(l *Lexer, src *source.Source) *Stream {
	return &Stream{lexer: l, src: src}
}

// Source returns stream source.
func (s *Stream) Source() *source.Source {
	return s.src
}

// Offset returns byte offset of the next lexeme.
func (s *Stream) Offset() int {
	return s.offset
}

// Seek moves stream to byte offset.
func (s *Stream) Seek(offset int) {
	s.offset = offset
	s.peeked = nil
}

// Next fetches next token. Lexical errors are returned along with a nil token,
// the stream is advanced past the offending lexeme.
func (s *Stream) Next() (*Token, error) {
	if s.peeked != nil {
		tok := s.peeked
		s.peeked = nil
		s.offset = s.next
		return tok, nil
	}

	tok, next, e := s.lexer.Next(s.src, s.offset)
	s.offset = next
	return tok, e
}

// Peek fetches next token without consuming it.
func (s *Stream) Peek() (*Token, error) {
	if s.peeked != nil {
		return s.peeked, nil
	}

	tok, next, e := s.lexer.Next(s.src, s.offset)
	if e != nil {
		s.offset = next
		return nil, e
	}

	s.peeked = tok
	s.next = next
	return tok, nil
}

// SkipBlock skips a bracketed code block whose opening bracket is the token opener.
// Stream is positioned just past the closing bracket or at the end of source.
func (s *Stream) SkipBlock(opener *Token, chars CharLiterals) error {
	end, ok := ScanBlock(s.src.Content(), opener.Offset(), chars)
	s.Seek(end)
	if !ok {
		return syntaxdoc.FormatErrorPos(opener, UnterminatedBlockError, "unterminated %q block", opener.Text())
	}
	return nil
}

// SkipUntil positions stream just past the marker text.
func (s *Stream) SkipUntil(from *Token, marker string) error {
	end, ok := ScanUntil(s.src.Content(), from.End(), marker)
	s.Seek(end)
	if !ok {
		return syntaxdoc.FormatErrorPos(from, UnterminatedBlockError, "missing %q after %q", marker, from.Text())
	}
	return nil
}
