package dejson

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/reoring/dejson/i18n"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidPrototype = "invalid_prototype"
	CodeUnsupportedType  = "unsupported_type"
	CodeUnexpectedEOF    = "unexpected_eof"
	CodeTokenMismatch    = "token_mismatch"
	CodeKeyNotFound      = "key_not_found"
	CodeIndexOutOfRange  = "index_out_of_range"
	CodeOverflow         = "overflow"
	CodeInvalidFormat    = "invalid_format"
	CodeSyntax           = "syntax_error"
	CodeDepthExceeded    = "depth_exceeded"
	CodeInvalidArgument  = "invalid_argument"
)

// Error is the single error type produced by this package.
type Error struct {
	Code    string // One of the codes listed above.
	Path    string // JSON Pointer of the offending value (for example: /points/2/x).
	Message string
	Offset  int64 // Byte offset in the input source (-1 when unknown).
	// Params carries structured parameters (e.g., {"index": 3}) for i18n and
	// observability.
	Params map[string]any
	Cause  error // Optional: underlying error.
}

// Sentinels for errors.Is. Matching is by Code only.
var (
	ErrInvalidPrototype = &Error{Code: CodeInvalidPrototype}
	ErrUnsupportedType  = &Error{Code: CodeUnsupportedType}
	ErrUnexpectedEOF    = &Error{Code: CodeUnexpectedEOF}
	ErrTokenMismatch    = &Error{Code: CodeTokenMismatch}
	ErrKeyNotFound      = &Error{Code: CodeKeyNotFound}
	ErrIndexOutOfRange  = &Error{Code: CodeIndexOutOfRange}
	ErrOverflow         = &Error{Code: CodeOverflow}
	ErrInvalidFormat    = &Error{Code: CodeInvalidFormat}
	ErrSyntax           = &Error{Code: CodeSyntax}
	ErrDepthExceeded    = &Error{Code: CodeDepthExceeded}
	ErrInvalidArgument  = &Error{Code: CodeInvalidArgument}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if e.Path != "" {
		return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, msg)
	}
	return e.Code + ": " + msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// AsError extracts an *Error from err using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// newError builds an *Error whose message is rendered from the i18n
// catalogue with data.
func newError(code string, data map[string]string) *Error {
	return &Error{Code: code, Message: i18n.T(code, data), Offset: -1}
}

func errMismatch(expected, actual string) *Error {
	e := newError(CodeTokenMismatch, map[string]string{"expected": expected, "actual": actual})
	e.Params = map[string]any{"expected": expected, "actual": actual}
	return e
}

func errPrototype(reason string) *Error {
	return newError(CodeInvalidPrototype, map[string]string{"reason": reason})
}

func errUnsupported(typ string) *Error {
	e := newError(CodeUnsupportedType, map[string]string{"type": typ})
	e.Params = map[string]any{"type": typ}
	return e
}

func errArgument(reason string) *Error {
	return newError(CodeInvalidArgument, map[string]string{"reason": reason})
}

func errIndex(index, n int) *Error {
	e := newError(CodeIndexOutOfRange, map[string]string{"index": strconv.Itoa(index), "len": strconv.Itoa(n)})
	e.Params = map[string]any{"index": index, "len": n}
	return e
}

func errNumber(code, value, typ string, cause error) *Error {
	e := newError(code, map[string]string{"value": value, "type": typ})
	e.Params = map[string]any{"value": value, "type": typ}
	e.Cause = cause
	return e
}

// withPath prefixes the path of a package error with a JSON Pointer segment
// so nested failures report their full location. Other errors are returned
// unchanged.
func withPath(err error, segment string) error {
	if e, ok := err.(*Error); ok {
		e.Path = segment + e.Path
	}
	return err
}
