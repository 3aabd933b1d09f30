package lexer

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/ava12/syntaxdoc"
	"github.com/ava12/syntaxdoc/internal/test"
	"github.com/ava12/syntaxdoc/source"
)

var (
	tokenRe      *regexp.Regexp
	tokenTypes   []TokenType
	tokenSamples []byte
)

func init() {
	tokenRe = regexp.MustCompile("(?s:[\\s]+|(\\d+)|([a-z_][a-z0-9_]*)|('.*?')|('.{0,10}))")
	tokenTypes = []TokenType{{1, "number"}, {2, "name"}, {3, "string"}}
	tokenSamples = []byte("123 foo 'bar'")
}

func stream(src string) *Stream {
	return NewStream(New(tokenRe, tokenTypes), source.New("", []byte(src)))
}

func TestEmpty(t *testing.T) {
	sources := []string{"", " ", "  ", " \t\r\n "}
	for _, src := range sources {
		tok, e := stream(src).Next()
		if e != nil {
			t.Fatalf("source %q: unexpected error %s", src, e)
		}
		if tok.Type() != EofTokenType || tok.TypeName() != EofTokenName || !tok.IsEof() {
			t.Fatalf("source %q: unexpected token %s", src, tok.TypeName())
		}
	}
}

func TestTokenSamples(t *testing.T) {
	s := stream(string(tokenSamples))
	for _, tokType := range tokenTypes {
		tok, e := s.Next()
		if tok == nil || e != nil {
			t.Fatalf("expecting %q token, got error %v", tokType.TypeName, e)
		}
		if tok.TypeName() != tokType.TypeName || tok.Type() != tokType.Type {
			t.Fatalf("expecting %q (%d) token, got %q (%d)", tokType.TypeName, tokType.Type, tok.TypeName(), tok.Type())
		}
	}
	tok, e := s.Next()
	if tok == nil || e != nil {
		t.Fatalf("expecting EoF, got %v, %v", tok, e)
	}
	if tok.TypeName() != EofTokenName {
		t.Fatalf("expecting EoF, got %q", tok.TypeName())
	}
}

func TestBrokenToken(t *testing.T) {
	tok, e := stream("\n  '*  *").Next()
	if tok != nil {
		t.Fatalf("expected error, got %q token", tok.TypeName())
	}
	ee, f := e.(*syntaxdoc.Error)
	if !f || ee.Code != BadTokenError {
		t.Fatalf("expected BadTokenError, got %v", e)
	}
	if ee.Line != 2 || ee.Col != 3 {
		t.Fatalf("expected error at line 2, col 3, got %d, %d", ee.Line, ee.Col)
	}
	if !strings.Contains(ee.Message, "\"'*  *\"") {
		t.Fatalf("expected broken token in error message, got %q", ee.Message)
	}
}

func TestTokenTypes(t *testing.T) {
	re := regexp.MustCompile("(\\d+)|\\s+|(\\w+)|#.*\\n|([+-])")
	types := []TokenType{{0, "num"}, {2, "name"}, {4, "op"}}
	src := "1 + foo"
	expected := []int{0, 2, 1}

	s := NewStream(New(re, types), source.New("", []byte(src)))
	for i, n := range expected {
		tok, e := s.Next()
		if e != nil {
			t.Fatalf("sample #%d: unexpected error: %s", i, e.Error())
		}
		if tok.Type() != types[n].Type || tok.TypeName() != types[n].TypeName {
			t.Fatalf(
				"sample #%d: expecting token %q (%d), got %q (%d)",
				i,
				types[n].TypeName,
				types[n].Type,
				tok.TypeName(),
				tok.Type(),
			)
		}
	}
}

func TestErrorPos(t *testing.T) {
	re := regexp.MustCompile("(\\s+)|(\\w+)|(<\\w+>)|(<.+)")
	types := []TokenType{
		{0, "space"},
		{1, "word"},
		{2, "tag"},
		{ErrorTokenType, ""},
	}
	samples := []struct {
		src            string
		err, line, col int
	}{
		{"foo\n<bar> &baz", WrongCharError, 2, 7},
		{"foo\n <bar\nbaz", BadTokenError, 2, 2},
	}
	l := New(re, types)
	for i, sample := range samples {
		s := NewStream(l, source.New("src", []byte(sample.src)))
		tok, e := s.Next()
		for e == nil && !tok.IsEof() {
			tok, e = s.Next()
		}

		if e == nil {
			t.Errorf("sample %d: expecting an error, got EoF", i)
			continue
		}

		ee, f := e.(*syntaxdoc.Error)
		if !f {
			t.Errorf("sample %d: expecting *syntaxdoc.Error, got: %s", i, e)
			continue
		}

		tail := fmt.Sprintf("line %d col %d", sample.line, sample.col)
		if ee.Code != sample.err || !strings.HasSuffix(ee.Message, tail) {
			t.Errorf("sample %d: expecting err %d at line %d col %d, got: %s", i, sample.err, sample.line, sample.col, ee.Message)
		}
	}
}

func TestRecoverAfterWrongChar(t *testing.T) {
	s := stream("foo ~ bar")
	tok, e := s.Next()
	test.Assert(t, e == nil && tok.Text() == "foo", "expecting foo, got %v, %v", tok, e)
	_, e = s.Next()
	test.ExpectErrorCode(t, WrongCharError, e)
	tok, e = s.Next()
	test.Assert(t, e == nil && tok.Text() == "bar", "expecting bar, got %v, %v", tok, e)
}

func TestPeek(t *testing.T) {
	s := stream("foo bar")
	tok, _ := s.Peek()
	test.Expect(t, tok.Text() == "foo", "foo", tok.Text())
	tok, _ = s.Peek()
	test.Expect(t, tok.Text() == "foo", "foo", tok.Text())
	tok, _ = s.Next()
	test.Expect(t, tok.Text() == "foo", "foo", tok.Text())
	test.ExpectInt(t, 3, s.Offset())
	tok, _ = s.Next()
	test.Expect(t, tok.Text() == "bar", "bar", tok.Text())
	test.ExpectInt(t, 4, tok.Offset())
	test.ExpectInt(t, 7, tok.End())
}

func TestScanBlock(t *testing.T) {
	samples := []struct {
		src   string
		chars CharLiterals
		end   int
		ok    bool
	}{
		{"{}", CLikeChars, 2, true},
		{"{ a { b } c } tail", CLikeChars, 13, true},
		{"{ \"}\" } tail", CLikeChars, 7, true},
		{"{ '}' } tail", CLikeChars, 7, true},
		{"{ '\\'' } tail", CLikeChars, 8, true},
		{"{ it's } tail", CLikeChars, 8, true},
		{"{ it's } tail", StringLikeChars, 13, false},
		{"{ 'a}b' } tail", StringLikeChars, 9, true},
		{"{ // }\n } tail", CLikeChars, 9, true},
		{"{ /* } */ } tail", CLikeChars, 11, true},
		{"{ /* } ", CLikeChars, 7, false},
		{"{ {", CLikeChars, 3, false},
		{"( (a) )", CLikeChars, 7, true},
		{"[ ']' ]", CLikeChars, 7, true},
	}

	for i, s := range samples {
		end, ok := ScanBlock([]byte(s.src), 0, s.chars)
		if end != s.end || ok != s.ok {
			t.Errorf("sample #%d %q: expecting %d, %v, got %d, %v", i, s.src, s.end, s.ok, end, ok)
		}
	}
}

func TestScanUntil(t *testing.T) {
	content := []byte("%{ int x; %} rest")
	end, ok := ScanUntil(content, 2, "%}")
	test.Assert(t, ok && end == 12, "expecting 12, got %d, %v", end, ok)
	end, ok = ScanUntil(content, 12, "%}")
	test.Assert(t, !ok && end == len(content), "expecting failure, got %d, %v", end, ok)
}

func TestStreamSkipBlock(t *testing.T) {
	re := regexp.MustCompile("\\s+|(\\w+)|([{}])")
	l := New(re, []TokenType{{0, "word"}, {1, "brace"}})

	s := NewStream(l, source.New("", []byte("a { b { c } } d")))
	_, _ = s.Next()
	opener, _ := s.Next()
	test.Assert(t, s.SkipBlock(opener, CLikeChars) == nil, "unexpected error")
	tok, _ := s.Next()
	test.Expect(t, tok.Text() == "d", "d", tok.Text())

	s = NewStream(l, source.New("", []byte("a { b")))
	_, _ = s.Next()
	opener, _ = s.Next()
	test.ExpectErrorCode(t, UnterminatedBlockError, s.SkipBlock(opener, CLikeChars))
	tok, _ = s.Next()
	test.Assert(t, tok.IsEof(), "expecting EoF, got %v", tok)
}
