package diagram

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// LiteralRendering selects how literal tokens are shown in diagrams.
type LiteralRendering int

const (
	// LiteralContentsUnquoted shows literal text without quotes, escapes evaluated.
	LiteralContentsUnquoted LiteralRendering = iota
	// LiteralContents shows literal text in single quotes, escapes evaluated.
	LiteralContents
	// LiteralName shows token names for literal tokens.
	LiteralName
)

var literalRenderingNames = [...]string{"contents-unquoted", "contents", "name"}

func (lr LiteralRendering) String() string {
	if lr < 0 || int(lr) >= len(literalRenderingNames) {
		return literalRenderingNames[0]
	}
	return literalRenderingNames[lr]
}

func (lr LiteralRendering) MarshalText() ([]byte, error) {
	return []byte(lr.String()), nil
}

func (lr *LiteralRendering) UnmarshalText(text []byte) error {
	v, e := ParseLiteralRendering(string(text))
	if e == nil {
		*lr = v
	}
	return e
}

// ParseLiteralRendering converts a mode name. Empty string means the default mode.
func ParseLiteralRendering(name string) (LiteralRendering, error) {
	if name == "" {
		return LiteralContentsUnquoted, nil
	}
	for i, n := range literalRenderingNames {
		if n == name {
			return LiteralRendering(i), nil
		}
	}
	return LiteralContentsUnquoted, badLiteralRenderingError(name)
}

// DashCase converts CamelCase or snake_case identifier to dash-case.
// A dash replaces every underscore and is inserted (not at the ends of the name)
// before an upper case letter that follows a non-upper case character,
// before the last letter of an upper case run followed by a lower case letter,
// and between a letter and a non-letter. Only ASCII letters are recognized.
func DashCase(name string) string {
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '_' {
			sb.WriteByte('-')
			continue
		}
		if i > 0 && needsDash(name, i) {
			sb.WriteByte('-')
		}
		sb.WriteByte(c)
	}
	return strings.ToLower(sb.String())
}

func needsDash(name string, i int) bool {
	prev, c := name[i-1], name[i]
	switch {
	case isUpper(prev) && isUpper(c) && i+1 < len(name) && isLower(name[i+1]):
		return true
	case isLetter(prev) && !isLetter(c) && c != '_':
		return true
	default:
		return isUpper(c) && !isUpper(prev) && prev != '_'
	}
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isLower(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func isLetter(c byte) bool {
	return isUpper(c) || isLower(c)
}

// isTokenName reports whether an unresolved name looks like a token: upper case or quoted.
func isTokenName(name string) bool {
	return name != "" && (isUpper(name[0]) || name[0] == '\'' || name[0] == '"')
}

// Unquote evaluates a single-quoted literal. Other texts and literals with broken escapes are returned as is.
func Unquote(text string) (string, bool) {
	if len(text) < 2 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return text, false
	}

	body := text[1 : len(text)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, true
	}

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return text, false
		}

		switch c = body[i]; c {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\\', '\'', '"':
			sb.WriteByte(c)
		case 'x', 'u', 'U':
			r, size := hexEscape(body[i:])
			if size == 0 {
				return text, false
			}
			sb.WriteRune(r)
			i += size - 1
		default:
			sb.WriteByte('\\')
			sb.WriteByte(c)
		}
	}
	return sb.String(), true
}

// hexEscape decodes \xHH, \uHHHH, \u{H...}, and \UHHHHHHHH escapes, s starts with the escape letter.
// Returns the rune and the number of bytes consumed, 0 on error.
func hexEscape(s string) (rune, int) {
	digits := map[byte]int{'x': 2, 'u': 4, 'U': 8}[s[0]]
	start, end := 1, 1+digits
	if s[0] == 'u' && len(s) > 1 && s[1] == '{' {
		close := strings.IndexByte(s, '}')
		if close < 0 {
			return 0, 0
		}
		start, end = 2, close
	}
	if end > len(s) || end <= start {
		return 0, 0
	}

	v, e := strconv.ParseUint(s[start:end], 16, 32)
	if e != nil || !utf8.ValidRune(rune(v)) {
		return 0, 0
	}
	if s[start-1] == '{' {
		end++
	}
	return rune(v), end
}
