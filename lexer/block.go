package lexer

import (
	"bytes"
	"unicode/utf8"
)

// CharLiterals selects how a single quote is treated inside code blocks.
type CharLiterals int

const (
	// CLikeChars treats 'x' and '\...' as character literals, other single quotes as ordinary chars.
	CLikeChars CharLiterals = iota

	// StringLikeChars treats single-quoted text as a string literal.
	StringLikeChars
)

func closingBracket(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '<':
		return '>'
	default:
		return '}'
	}
}

// ScanBlock finds the end of a bracketed block of target language code.
// content[pos] must be the opening bracket. String literals, char literals, and comments are skipped,
// nested brackets of the same kind are balanced.
// Returns offset just past the closing bracket and true, or content length and false if the block is unterminated.
func ScanBlock(content []byte, pos int, chars CharLiterals) (int, bool) {
	open := content[pos]
	closing := closingBracket(open)
	depth := 0
	n := len(content)
	for i := pos; i < n; {
		c := content[i]
		switch {
		case c == open:
			depth++
			i++
		case c == closing:
			depth--
			i++
			if depth == 0 {
				return i, true
			}
		case c == '"':
			i = skipQuoted(content, i, '"')
		case c == '\'':
			if chars == StringLikeChars {
				i = skipQuoted(content, i, '\'')
			} else {
				i = skipCChar(content, i)
			}
		case c == '/' && i+1 < n && content[i+1] == '/':
			nl := bytes.IndexByte(content[i:], '\n')
			if nl < 0 {
				return n, false
			}
			i += nl + 1
		case c == '/' && i+1 < n && content[i+1] == '*':
			end := bytes.Index(content[i+2:], []byte("*/"))
			if end < 0 {
				return n, false
			}
			i += end + 4
		default:
			i++
		}
	}
	return n, false
}

// ScanUntil returns offset just past the first occurrence of marker at or after pos,
// or content length and false if there is none.
func ScanUntil(content []byte, pos int, marker string) (int, bool) {
	if pos > len(content) {
		return len(content), false
	}
	i := bytes.Index(content[pos:], []byte(marker))
	if i < 0 {
		return len(content), false
	}
	return pos + i + len(marker), true
}

// skipQuoted skips quoted text starting at content[i]; an unescaped newline terminates the literal.
func skipQuoted(content []byte, i int, quote byte) int {
	for i++; i < len(content); i++ {
		switch content[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		case '\n':
			return i
		}
	}
	return len(content)
}

func skipCChar(content []byte, i int) int {
	n := len(content)
	if i+1 < n && content[i+1] == '\\' {
		return skipQuoted(content, i, '\'')
	}

	if i+1 < n && content[i+1] != '\n' {
		_, size := utf8.DecodeRune(content[i+1:])
		if i+1+size < n && content[i+1+size] == '\'' {
			return i + 2 + size
		}
	}
	return i + 1
}
