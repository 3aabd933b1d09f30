package annotation

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	plexer "github.com/alecthomas/participle/v2/lexer"
)

// Directive is a parsed control comment: either //@ doc:<command> [argument]
// or //@ %token <name>.
type Directive struct {
	Head *directiveHead `parser:"Marker @@"`
	Arg  string         `parser:"@Text?"`
}

type directiveHead struct {
	Token   bool   `parser:"  @TokenKw"`
	Command string `parser:"| Doc Colon @Command"`
}

// IsToken reports whether the directive is a %token pseudo-declaration.
func (d *Directive) IsToken() bool {
	return d.Head != nil && d.Head.Token
}

// Command returns lower-case directive command, or empty string for %token directives.
func (d *Directive) Command() string {
	if d.Head == nil {
		return ""
	}
	return strings.ToLower(d.Head.Command)
}

var directiveLexer = plexer.MustStateful(plexer.Rules{
	"Root": {
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "Marker", Pattern: `//@`},
		{Name: "TokenKw", Pattern: `%token\b`, Action: plexer.Push("Rest")},
		{Name: "Doc", Pattern: `doc\b`},
		{Name: "Colon", Pattern: `:`},
		{Name: "Command", Pattern: `[a-zA-Z0-9_-]+`, Action: plexer.Push("Rest")},
	},
	"Rest": {
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "Text", Pattern: `\S(?:.*\S)?`},
	},
})

var directiveParser = participle.MustBuild[Directive](
	participle.Lexer(directiveLexer),
	participle.Elide("Whitespace"),
)

// ParseDirective parses text of a single control comment.
func ParseDirective(text string) (*Directive, error) {
	text = strings.TrimRight(text, "\r\n")
	return directiveParser.ParseString("", text)
}
