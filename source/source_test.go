package source

import (
	"testing"
)

type result struct {
	pos, line, col int
}

func TestSourceLineCol(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 1, 1},
			{100, 1, 1},
		},
		"\n": {
			{0, 1, 1},
			{1, 2, 1},
			{100, 2, 1},
		},
		"0\n2\n4\n6789abcde\ng\ni\n": {
			{4, 3, 1},
			{5, 3, 2},
			{6, 4, 1},
			{7, 4, 2},
			{14, 4, 9},
			{19, 6, 2},
			{20, 7, 1},
			{9, 4, 4},
			{5, 3, 2},
		},
		"фы\nz": {
			{2, 1, 2},
			{4, 1, 3},
			{5, 2, 1},
		},
	}

	for text, results := range samples {
		source := New("", []byte(text))
		for _, res := range results {
			l, c := source.LineCol(res.pos)
			if l != res.line || c != res.col {
				t.Errorf("sample %q: expected %v, got line: %d, col: %d", text, res, l, c)
			}
		}
	}
}

func TestSourcePos(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 0, 1},
			{0, 1, 0},
			{0, 1, 1},
			{0, 1, 2},
			{0, 2, 1},
		},
		"\n": {
			{0, 1, 1},
			{1, 1, 2},
			{1, 2, 1},
			{1, 3, 1},
		},
		"hello\nworld\n": {
			{0, 1, 1},
			{1, 1, 2},
			{6, 2, 1},
			{7, 2, 2},
			{12, 2, 10},
			{12, 3, 1},
			{12, 4, 1},
		},
	}

	for text, results := range samples {
		source := New("", []byte(text))
		for _, res := range results {
			p := source.Pos(res.line, res.col)
			if p != res.pos {
				t.Errorf("sample %q: expected %v, got pos: %d", text, res, p)
			}
		}
	}
}

func TestLineOffset(t *testing.T) {
	s := NewAt("doc.rst", []byte("a\nb"), 10)
	l, c := s.LineCol(2)
	if l != 12 || c != 1 {
		t.Fatalf("expecting line 12 col 1, got %d, %d", l, c)
	}
	if p := s.Pos(12, 1); p != 2 {
		t.Fatalf("expecting pos 2, got %d", p)
	}
}

func TestStem(t *testing.T) {
	samples := map[string]string{
		"/a/b/Calc.g4": "Calc",
		"parse.tab.y":  "parse.tab",
		"noext":        "noext",
	}
	for name, expected := range samples {
		if got := New(name, nil).Stem(); got != expected {
			t.Errorf("%q: expecting %q, got %q", name, expected, got)
		}
	}
}
