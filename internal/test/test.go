package test

import (
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/ava12/syntaxdoc"
)

func fatalf(t *testing.T, message string, params ...any) {
	t.Helper()
	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}
	_, thisFile, _, _ := runtime.Caller(0)
	file := thisFile
	line := 0
	for i := 2; file == thisFile; i++ {
		_, file, line, _ = runtime.Caller(i)
	}
	t.Fatalf("%s at %s:%d", message, file, line)
}

func Assert(t *testing.T, cond bool, message string, params ...any) {
	t.Helper()
	if !cond {
		fatalf(t, message, params...)
	}
}

func Expect(t *testing.T, cond bool, expected, got any) {
	t.Helper()
	if !cond {
		fatalf(t, "expecting %v, got %v", expected, got)
	}
}

func ExpectBool(t *testing.T, expected, got bool) {
	t.Helper()
	Expect(t, expected == got, expected, got)
}

func ExpectInt(t *testing.T, expected, got int) {
	t.Helper()
	Expect(t, expected == got, expected, got)
}

func ExpectErrorCode(t *testing.T, expected int, e error) {
	t.Helper()
	var ee *syntaxdoc.Error
	if errors.As(e, &ee) && ee.Code == expected {
		return
	}

	fatalf(t, "expecting error code %d, got %v", expected, e)
}

// ExpectDiagnostic fails unless diagnostics contain an entry with given code and severity.
func ExpectDiagnostic(t *testing.T, d syntaxdoc.Diagnostics, code int, severity syntaxdoc.Severity) *syntaxdoc.Error {
	t.Helper()
	for _, e := range d {
		if e.Code == code && e.Severity == severity {
			return e
		}
	}

	fatalf(t, "expecting %s with code %d, got %v", severity, code, d)
	return nil
}

// ExpectNoErrors fails if diagnostics contain anything but warnings.
func ExpectNoErrors(t *testing.T, d syntaxdoc.Diagnostics) {
	t.Helper()
	if d.HasErrors() {
		fatalf(t, "unexpected errors: %v", d.Errors())
	}
}
