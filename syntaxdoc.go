/*
Package syntaxdoc extracts documentation and railroad diagrams from formal grammars.

Consists of subpackages:
  - source: source text with line/column index;
  - lexer: regular expression based lexical analyzer used by dialect parsers;
  - model: dialect-agnostic grammar model (grammars, rules, rule content AST);
  - annotation: documentation and control comments attached to declarations;
  - dialect: dialect adapter contract and extension table, with dialect/antlr4, dialect/bison, and dialect/llx adapters;
  - xref: grammar registry, cross-reference resolution and reachability;
  - loader: memoized, concurrency-safe loading of grammar files;
  - diagram: diagram graph synthesis from rule content or ad-hoc descriptions;
  - autodoc: ordering and filtering of rules for documentation listings;
  - config: HCL configuration file;
  - cmd/syntaxdoc: console utility printing listings and diagram graphs as JSON.

Typical usage is:

1. Create a loader with loader.New(nil, nil): default dialect adapters and a fresh xref.Registry.

2. Load grammar files; every file is parsed at most once, failures are reported
as diagnostics and produce empty or partial models.

3. List rules with autodoc and synthesize diagrams with diagram.Synthesizer,
passing the registry as the reference resolver.

4. Feed resulting diagram graphs to an external renderer.
*/
package syntaxdoc

import (
	"errors"
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	FileErrors       = 1   // used by loader
	LexicalErrors    = 101 // used by lexer
	SyntaxErrors     = 201 // used by dialect parsers
	AnnotationErrors = 301 // used by annotation and model builders
	ResolveErrors    = 401 // used by xref and loader
	DiagramErrors    = 501 // used by diagram
)

// Severity tells whether a diagnostic describes a failure or a recoverable oddity.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Error is the diagnostic type used by syntaxdoc subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Severity is SeverityError unless the problem was recovered from.
	Severity Severity

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos and lexer.Token implement this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 {
		if col != 0 {
			msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
		} else {
			msg += fmt.Sprintf(" in %s at line %d", name, line)
		}
	}
	return &Error{Code: code, Message: msg, SourceName: name, Line: line, Col: col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// Warning marks the error as a warning and returns it.
func (e *Error) Warning() *Error {
	e.Severity = SeverityWarning
	return e
}

// IsWarning reports whether the error is a warning.
func (e *Error) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}

// Diagnostics is an ordered list of errors and warnings collected while processing a unit
// (a file, a rule, a diagram). A non-empty list does not mean that processing failed.
type Diagnostics []*Error

// Add appends non-nil errors.
func (d *Diagnostics) Add(errs ...*Error) {
	for _, e := range errs {
		if e != nil {
			*d = append(*d, e)
		}
	}
}

// HasErrors reports whether the list contains anything but warnings.
func (d Diagnostics) HasErrors() bool {
	for _, e := range d {
		if !e.IsWarning() {
			return true
		}
	}
	return false
}

// Errors returns diagnostics of SeverityError only.
func (d Diagnostics) Errors() Diagnostics {
	var res Diagnostics
	for _, e := range d {
		if !e.IsWarning() {
			res = append(res, e)
		}
	}
	return res
}

// Err joins all diagnostics into a single error, or returns nil for an empty list.
func (d Diagnostics) Err() error {
	if len(d) == 0 {
		return nil
	}
	errs := make([]error, len(d))
	for i, e := range d {
		errs[i] = e
	}
	return errors.Join(errs...)
}
