package loader

import (
	"github.com/ava12/syntaxdoc"
)

// Error codes used by loader:
const (
	// ReadError indicates that a grammar file cannot be read.
	ReadError = syntaxdoc.FileErrors + iota

	// UnknownDialectError indicates that no dialect adapter claims the file extension.
	UnknownDialectError
)

func readError(path string, e error) *syntaxdoc.Error {
	return syntaxdoc.NewError(ReadError, "cannot read grammar file: "+e.Error(), path, 0, 0)
}

func unknownDialectError(path string) *syntaxdoc.Error {
	return syntaxdoc.NewError(UnknownDialectError, "cannot determine grammar dialect by file extension", path, 0, 0)
}
