package dejson

import (
	"errors"
	"io"
	"strconv"

	eng "github.com/reoring/dejson/internal/engine"
	"github.com/reoring/dejson/internal/stream"
	"github.com/reoring/dejson/source/gojson"
	"github.com/reoring/dejson/source/lenient"
)

// TokenClass classifies the token under a Cursor.
type TokenClass int

const (
	TokenEOF TokenClass = iota
	TokenArray
	TokenEndArray
	TokenObject
	TokenEndObject
	TokenMember
	TokenString
	TokenNumber
	TokenBoolean
	TokenNull
)

func (c TokenClass) String() string {
	switch c {
	case TokenArray:
		return "array"
	case TokenEndArray:
		return "end of array"
	case TokenObject:
		return "object"
	case TokenEndObject:
		return "end of object"
	case TokenMember:
		return "member"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenBoolean:
		return "boolean"
	case TokenNull:
		return "null"
	case TokenEOF:
		return "end of input"
	}
	return "token(" + strconv.Itoa(int(c)) + ")"
}

func classOf(k eng.Kind) TokenClass {
	switch k {
	case eng.KindBeginObject:
		return TokenObject
	case eng.KindEndObject:
		return TokenEndObject
	case eng.KindBeginArray:
		return TokenArray
	case eng.KindEndArray:
		return TokenEndArray
	case eng.KindKey:
		return TokenMember
	case eng.KindString:
		return TokenString
	case eng.KindNumber:
		return TokenNumber
	case eng.KindBool:
		return TokenBoolean
	default:
		return TokenNull
	}
}

// Number is the literal text of a JSON number.
type Number string

func (n Number) String() string { return string(n) }

// Float64 parses the literal as a float64.
func (n Number) Float64() (float64, error) { return strconv.ParseFloat(string(n), 64) }

// Int64 parses the literal as an int64. Exponent or fraction forms fail.
func (n Number) Int64() (int64, error) { return strconv.ParseInt(string(n), 10, 64) }

// Cursor is a forward-only pull reader over JSON tokens with one token of
// lookahead. A Cursor is not safe for concurrent use.
type Cursor struct {
	src eng.TokenSource
	cur eng.Token
	has bool
	eof bool
	err error
}

func newCursor(src eng.TokenSource) *Cursor { return &Cursor{src: src} }

// NewTextCursor returns a Cursor over text using the syntax and depth limit
// from opts.
func NewTextCursor(text string, opts ...Option) *Cursor {
	o := buildOptions(opts)
	var src eng.TokenSource
	if o.Syntax == SyntaxStrict {
		src = gojson.NewString(text)
	} else {
		src = lenient.NewString(text)
	}
	return newCursor(enforce(src, o))
}

// NewReaderCursor returns a Cursor over r using the syntax and depth limit
// from opts.
func NewReaderCursor(r io.Reader, opts ...Option) *Cursor {
	o := buildOptions(opts)
	var src eng.TokenSource
	if o.Syntax == SyntaxStrict {
		src = gojson.NewReader(r)
	} else {
		src = lenient.NewReader(r)
	}
	return newCursor(enforce(src, o))
}

func enforce(src eng.TokenSource, o Options) eng.TokenSource {
	return eng.WrapWithEnforcement(src, eng.EnforceOptions{
		MaxDepth: o.MaxDepth,
		IssueSink: func(si eng.SimpleIssue) {
			o.Logger.Warn("depth limit exceeded", Fields{"at": si.Path, "max_depth": o.MaxDepth})
		},
	})
}

func (c *Cursor) fill() error {
	if c.err != nil {
		return c.err
	}
	if c.has || c.eof {
		return nil
	}
	tok, err := c.src.NextToken()
	if err == io.EOF {
		c.eof = true
		return nil
	}
	if err != nil {
		c.err = c.sourceError(err)
		return c.err
	}
	c.cur, c.has = tok, true
	return nil
}

// sourceError converts token source failures into *Error values.
func (c *Cursor) sourceError(err error) error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		e := newError(CodeDepthExceeded, nil)
		e.Offset = c.src.Location()
		e.Params = map[string]any{"at": ie.Path}
		e.Cause = err
		return e
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		e := newError(CodeUnexpectedEOF, nil)
		e.Cause = err
		return e
	}
	var se *lenient.SyntaxError
	if errors.As(err, &se) {
		e := newError(CodeSyntax, map[string]string{"detail": se.Msg})
		e.Offset = se.Offset
		e.Cause = err
		return e
	}
	var ge *gojson.SyntaxError
	if errors.As(err, &ge) {
		e := newError(CodeSyntax, map[string]string{"detail": ge.Msg})
		e.Offset = ge.Offset
		e.Cause = err
		return e
	}
	e := newError(CodeSyntax, map[string]string{"detail": err.Error()})
	e.Offset = c.src.Location()
	e.Cause = err
	return e
}

// MoveToContent positions the cursor on the next token and reports whether
// one exists.
func (c *Cursor) MoveToContent() (bool, error) {
	if err := c.fill(); err != nil {
		return false, err
	}
	return c.has, nil
}

// Peek returns the class of the current token without consuming it.
func (c *Cursor) Peek() (TokenClass, error) {
	if err := c.fill(); err != nil {
		return TokenEOF, err
	}
	if !c.has {
		return TokenEOF, nil
	}
	return classOf(c.cur.Kind), nil
}

// Offset returns the byte offset of the current token, or -1 when unknown.
func (c *Cursor) Offset() int64 {
	if c.has {
		return c.cur.Offset
	}
	return c.src.Location()
}

// expect positions on a token of class want and returns it consumed.
func (c *Cursor) expect(want TokenClass) (eng.Token, error) {
	got, err := c.Peek()
	if err != nil {
		return eng.Token{}, err
	}
	if got == TokenEOF && want != TokenEOF {
		e := newError(CodeUnexpectedEOF, nil)
		e.Offset = c.src.Location()
		e.Params = map[string]any{"expected": want.String()}
		return eng.Token{}, e
	}
	if got != want {
		return eng.Token{}, c.mismatch(want.String())
	}
	tok := c.cur
	c.has = false
	return tok, nil
}

func (c *Cursor) mismatch(expected string) *Error {
	got, _ := c.Peek()
	e := errMismatch(expected, got.String())
	e.Offset = c.Offset()
	return e
}

// ReadToken consumes the current token, failing unless it has class want.
func (c *Cursor) ReadToken(want TokenClass) error {
	_, err := c.expect(want)
	return err
}

// ReadMember consumes a member name.
func (c *Cursor) ReadMember() (string, error) {
	tok, err := c.expect(TokenMember)
	return tok.String, err
}

// ReadString consumes a string value.
func (c *Cursor) ReadString() (string, error) {
	tok, err := c.expect(TokenString)
	return tok.String, err
}

// ReadBoolean consumes a boolean value.
func (c *Cursor) ReadBoolean() (bool, error) {
	tok, err := c.expect(TokenBoolean)
	return tok.Bool, err
}

// ReadNumber consumes a number and returns its literal text.
func (c *Cursor) ReadNumber() (Number, error) {
	tok, err := c.expect(TokenNumber)
	return Number(tok.Number), err
}

// ReadNull consumes a null literal.
func (c *Cursor) ReadNull() error {
	_, err := c.expect(TokenNull)
	return err
}

// Read advances past the current token whatever its class.
func (c *Cursor) Read() error {
	got, err := c.Peek()
	if err != nil {
		return err
	}
	if got == TokenEOF {
		return newError(CodeUnexpectedEOF, nil)
	}
	c.has = false
	return nil
}

// subtree detaches the current token and returns a view over the rest of
// its subtree. A member token includes its value.
func (c *Cursor) subtree(allowMember bool) (*stream.PreloadedSource, error) {
	got, err := c.Peek()
	if err != nil {
		return nil, err
	}
	switch got {
	case TokenEOF:
		return nil, newError(CodeUnexpectedEOF, nil)
	case TokenEndArray, TokenEndObject:
		return nil, c.mismatch("value")
	case TokenMember:
		if !allowMember {
			return nil, c.mismatch("value")
		}
	}
	first := c.cur
	c.has = false
	return stream.NewPreloadedSource(c.src, first), nil
}

// Skip discards the current value, or the current member and its value.
func (c *Cursor) Skip() error {
	sub, err := c.subtree(true)
	if err != nil {
		return err
	}
	if err := sub.Drain(); err != nil {
		c.err = c.sourceError(err)
		return c.err
	}
	return nil
}

// Capture consumes the current value and returns a private copy of its
// tokens.
func (c *Cursor) Capture() (Buffer, error) {
	sub, err := c.subtree(false)
	if err != nil {
		return Buffer{}, err
	}
	toks, err := sub.Collect()
	if err != nil {
		c.err = c.sourceError(err)
		return Buffer{}, c.err
	}
	return Buffer{toks: toks}, nil
}

// expectEOF fails with TokenMismatch when input remains.
func (c *Cursor) expectEOF() error {
	got, err := c.Peek()
	if err != nil {
		return err
	}
	if got != TokenEOF {
		return c.mismatch(TokenEOF.String())
	}
	return nil
}
