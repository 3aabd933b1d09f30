// Package source defines grammar source text with line and column lookup.
package source

import (
	"bytes"
	"path/filepath"
	"sort"
	"unicode/utf8"
)

// Source is an immutable named text. It is safe for concurrent use.
type Source struct {
	name       string
	content    []byte
	lineStarts []int
	lineOffset int
}

// New creates new Source. name is usually a file path, it is used in diagnostics.
func New(name string, content []byte) *Source {
	return NewAt(name, content, 0)
}

// NewAt creates new Source whose first line is reported as line lineOffset+1.
// It is used for fragments embedded into other files (e.g. content directives).
func NewAt(name string, content []byte, lineOffset int) *Source {
	s := &Source{name: name, content: content, lineOffset: lineOffset}
	lineCnt := bytes.Count(content, []byte("\n")) + 1
	s.lineStarts = make([]int, lineCnt)
	j := 1
	for i := 0; i < len(content) && j < lineCnt; i++ {
		if content[i] == '\n' {
			s.lineStarts[j] = i + 1
			j++
		}
	}

	return s
}

// Name returns source name.
func (s *Source) Name() string {
	return s.name
}

// Stem returns base name of the source without extension.
func (s *Source) Stem() string {
	base := filepath.Base(s.name)
	return base[:len(base)-len(filepath.Ext(base))]
}

// Content returns source text. Callers must not modify it.
func (s *Source) Content() []byte {
	return s.content
}

// Len returns content length in bytes.
func (s *Source) Len() int {
	return len(s.content)
}

// LineCol converts byte offset to 1-based line and column (in runes).
// Offsets outside of content are clamped.
func (s *Source) LineCol(pos int) (line, col int) {
	if pos < 0 {
		pos = 0
	} else if pos > len(s.content) {
		pos = len(s.content)
	}

	lineIndex := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1 + s.lineOffset, utf8.RuneCount(s.content[lineStart:pos]) + 1
}

// Pos converts 1-based line and column (in bytes) to byte offset.
// Returns 0 for non-positive line or col, content length for positions beyond the end.
func (s *Source) Pos(line, col int) int {
	line -= s.lineOffset
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.content)
	if line > len(s.lineStarts) {
		return l
	}

	res := s.lineStarts[line-1] + col - 1
	if res > l {
		return l
	} else {
		return res
	}
}

// Pos is a position inside a source, it implements syntaxdoc.SourcePos.
type Pos struct {
	src            *Source
	pos, line, col int
}

// NewPos creates position for byte offset pos.
func NewPos(s *Source, pos int) Pos {
	res := Pos{src: s, pos: pos}
	if s != nil {
		res.line, res.col = s.LineCol(pos)
	}
	return res
}

func (p Pos) Source() *Source {
	return p.src
}

func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.Name()
}

func (p Pos) Pos() int {
	return p.pos
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}
