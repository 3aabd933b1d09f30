package diagram

import (
	"fmt"

	"github.com/ava12/syntaxdoc"
)

// Description diagnostics. A malformed node is replaced with a terminal showing the problem,
// so only MalformedDescriptionError leaves the whole description unusable.
const (
	MalformedDescriptionError = syntaxdoc.DiagramErrors + iota
	UnknownNodeError
	InvalidNodeError
	InvalidAttributeError
	UnknownAttributeError
)

func malformedDescriptionError(name string, line, col int, msg string) *syntaxdoc.Error {
	return syntaxdoc.NewError(MalformedDescriptionError, "malformed diagram description: "+msg, name, line, col)
}

func unknownNodeError(name string, line, col int, kind string) *syntaxdoc.Error {
	return syntaxdoc.NewError(UnknownNodeError, fmt.Sprintf("unknown diagram node %q", kind), name, line, col)
}

func invalidNodeError(name string, line, col int, msg string) *syntaxdoc.Error {
	return syntaxdoc.NewError(InvalidNodeError, msg, name, line, col)
}

func invalidAttributeError(name string, line, col int, attr, msg string) *syntaxdoc.Error {
	return syntaxdoc.NewError(InvalidAttributeError, fmt.Sprintf("attribute %q %s", attr, msg), name, line, col).Warning()
}

func unknownAttributeError(name string, line, col int, attr string) *syntaxdoc.Error {
	return syntaxdoc.NewError(UnknownAttributeError, fmt.Sprintf("unknown attribute %q", attr), name, line, col).Warning()
}

func badLiteralRenderingError(name string) error {
	return fmt.Errorf("unknown literal rendering mode %q, expecting one of %q, %q, %q",
		name, literalRenderingNames[0], literalRenderingNames[1], literalRenderingNames[2])
}
