// Package gojson provides a strict RFC 8259 token source backed by
// github.com/goccy/go-json.
//
// go-json's Decoder.Token skips ',' and ':' wherever they appear, so the
// source checks the bytes between tokens itself. The whole input is held in
// memory for that; NewReader reads r to the end on the first NextToken.
// Whitespace-separated top-level values are accepted one after another.
package gojson

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/dejson/internal/engine"
	"github.com/reoring/dejson/source/lenient"
)

// SyntaxError reports input that is not RFC 8259 JSON.
type SyntaxError struct {
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Msg)
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
	empty        bool
}

type source struct {
	r   io.Reader
	buf []byte
	dec *j.Decoder

	stack      []frame
	end        int // end of the last token in buf
	lastOffset int64
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	return &source{r: r, lastOffset: -1}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource {
	s := &source{lastOffset: -1}
	s.reset(b)
	return s
}

// NewString wraps a string into an engine.TokenSource for JSON using go-json.
func NewString(s string) eng.TokenSource { return NewBytes([]byte(s)) }

func (s *source) reset(b []byte) {
	s.buf = b
	s.dec = j.NewDecoder(bytes.NewReader(b))
	s.dec.UseNumber()
}

func (s *source) NextToken() (eng.Token, error) {
	if s.dec == nil {
		b, err := io.ReadAll(s.r)
		if err != nil {
			return eng.Token{}, err
		}
		s.reset(b)
	}

	start, err := s.checkGap()
	if err != nil {
		return eng.Token{}, err
	}
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	s.end = int(s.dec.InputOffset())
	s.lastOffset = int64(start)
	off := s.lastOffset

	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true, empty: true})
			return eng.Token{Kind: eng.KindBeginObject, Offset: off}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray, empty: true})
			return eng.Token{Kind: eng.KindBeginArray, Offset: off}, nil
		case '}':
			s.pop()
			return eng.Token{Kind: eng.KindEndObject, Offset: off}, nil
		case ']':
			s.pop()
			return eng.Token{Kind: eng.KindEndArray, Offset: off}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				top.empty = false
				return eng.Token{Kind: eng.KindKey, String: v, Offset: off}, nil
			}
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindString, String: v, Offset: off}, nil
	case bool:
		s.valueDone()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: off}, nil
	case j.Number:
		if !lenient.IsNumber(string(v)) {
			return eng.Token{}, s.errorf(start, "invalid number %q", string(v))
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: off}, nil
	case float64:
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: off}, nil
	}
	s.valueDone()
	return eng.Token{Kind: eng.KindNull, Offset: off}, nil
}

// checkGap validates the separators between the last token and the next one
// and returns the offset where the next token starts.
func (s *source) checkGap() (int, error) {
	var sep byte
	sepAt := -1
	i := s.end
scan:
	for ; i < len(s.buf); i++ {
		switch c := s.buf[i]; c {
		case ' ', '\t', '\n', '\r':
		case ',', ':':
			if sep != 0 {
				return i, s.errorf(i, "unexpected %q", c)
			}
			sep, sepAt = c, i
		default:
			break scan
		}
	}
	if i == len(s.buf) {
		switch {
		case sep != 0:
			return sepAt, s.errorf(sepAt, "unexpected %q", sep)
		case len(s.stack) > 0:
			return i, io.ErrUnexpectedEOF
		}
		return i, io.EOF
	}

	next := s.buf[i]
	if want := s.separatorBefore(next); sep != want {
		if sep == 0 {
			return i, s.errorf(i, "expected %q before %q", want, next)
		}
		return sepAt, s.errorf(sepAt, "unexpected %q", sep)
	}

	n := len(s.stack)
	switch next {
	case '}':
		if n == 0 || s.stack[n-1].kind != kindObject || !s.stack[n-1].expectingKey {
			return i, s.errorf(i, "unexpected '}'")
		}
	case ']':
		if n == 0 || s.stack[n-1].kind != kindArray {
			return i, s.errorf(i, "unexpected ']'")
		}
	case '"':
	default:
		if n > 0 && s.stack[n-1].kind == kindObject && s.stack[n-1].expectingKey {
			return i, s.errorf(i, "expected member name, found %q", next)
		}
	}
	return i, nil
}

func (s *source) separatorBefore(next byte) byte {
	n := len(s.stack)
	if n == 0 {
		return 0
	}
	top := s.stack[n-1]
	switch {
	case top.kind == kindObject && !top.expectingKey:
		return ':'
	case top.empty, next == '}', next == ']':
		return 0
	}
	return ','
}

func (s *source) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

func (s *source) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		top.empty = false
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *source) errorf(at int, format string, a ...any) error {
	return &SyntaxError{Offset: int64(at), Msg: fmt.Sprintf(format, a...)}
}

func (s *source) Location() int64 { return s.lastOffset }
