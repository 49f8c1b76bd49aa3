// Package lenient scans relaxed JSON text into engine tokens.
//
// Accepted beyond RFC 8259:
//   - member names and string values written as bare words (foo: bar)
//   - single-quoted strings ('foo\nbar')
//   - '=' or '=>' as the name separator
//   - trailing commas in objects and arrays
//   - // line comments and /* block */ comments
//
// Bare words spelling true, false or null are literals and bare words that
// match the JSON number grammar are numbers; everything else is a string.
package lenient

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	eng "github.com/reoring/dejson/internal/engine"
)

// SyntaxError reports malformed input at a byte offset.
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

type state int

const (
	stValue       state = iota // a value, or ']' inside an array
	stKey                      // a member name (or '}') is expected
	stSeparator                // ':' '=' '=>' is expected
	stCommaOrEnd               // ',' or the container closer is expected
)

type frame struct {
	kind  containerKind
	state state
}

type source struct {
	r      io.Reader
	data   []byte
	loaded bool
	pos    int
	stack  []frame
	last   int64
}

// NewBytes wraps a byte slice into an engine.TokenSource.
func NewBytes(b []byte) eng.TokenSource { return &source{data: b, loaded: true, last: -1} }

// NewString wraps a string into an engine.TokenSource.
func NewString(s string) eng.TokenSource { return NewBytes([]byte(s)) }

// NewReader wraps an io.Reader into an engine.TokenSource. The reader is
// consumed in full on the first call to NextToken.
func NewReader(r io.Reader) eng.TokenSource { return &source{r: r, last: -1} }

func (s *source) Location() int64 { return s.last }

func (s *source) NextToken() (eng.Token, error) {
	if !s.loaded {
		data, err := io.ReadAll(s.r)
		if err != nil {
			return eng.Token{}, err
		}
		s.data, s.loaded = data, true
	}
	for {
		if err := s.skipInsignificant(); err != nil {
			return eng.Token{}, err
		}
		if s.pos >= len(s.data) {
			if len(s.stack) > 0 {
				return eng.Token{}, io.ErrUnexpectedEOF
			}
			return eng.Token{}, io.EOF
		}
		tok, again, err := s.step()
		if err != nil {
			return eng.Token{}, err
		}
		if !again {
			s.last = tok.Offset
			return tok, nil
		}
	}
}

// step consumes one syntactic element. again is true when the element was
// punctuation that produces no token.
func (s *source) step() (tok eng.Token, again bool, err error) {
	off := int64(s.pos)
	c := s.data[s.pos]
	top := s.top()
	if top == nil {
		return s.value(off)
	}
	switch top.state {
	case stKey:
		if c == '}' {
			return s.close(off, kindObject)
		}
		name, err := s.name()
		if err != nil {
			return eng.Token{}, false, err
		}
		top.state = stSeparator
		return eng.Token{Kind: eng.KindKey, String: name, Offset: off}, false, nil
	case stSeparator:
		switch c {
		case ':':
			s.pos++
		case '=':
			s.pos++
			if s.pos < len(s.data) && s.data[s.pos] == '>' {
				s.pos++
			}
		default:
			return eng.Token{}, false, s.errorf("expected ':' after member name, found %q", c)
		}
		top.state = stValue
		return eng.Token{}, true, nil
	case stCommaOrEnd:
		switch c {
		case ',':
			s.pos++
			if top.kind == kindObject {
				top.state = stKey
			} else {
				top.state = stValue
			}
			return eng.Token{}, true, nil
		case '}':
			return s.close(off, kindObject)
		case ']':
			return s.close(off, kindArray)
		}
		return eng.Token{}, false, s.errorf("expected ',' or container end, found %q", c)
	default: // stValue
		if top.kind == kindArray && c == ']' {
			return s.close(off, kindArray)
		}
		return s.value(off)
	}
}

func (s *source) top() *frame {
	if n := len(s.stack); n > 0 {
		return &s.stack[n-1]
	}
	return nil
}

func (s *source) close(off int64, want containerKind) (eng.Token, bool, error) {
	top := s.top()
	if top == nil || top.kind != want {
		return eng.Token{}, false, s.errorf("unexpected %q", s.data[s.pos])
	}
	s.pos++
	s.stack = s.stack[:len(s.stack)-1]
	s.valueDone()
	if want == kindObject {
		return eng.Token{Kind: eng.KindEndObject, Offset: off}, false, nil
	}
	return eng.Token{Kind: eng.KindEndArray, Offset: off}, false, nil
}

func (s *source) valueDone() {
	if top := s.top(); top != nil {
		top.state = stCommaOrEnd
	}
}

func (s *source) value(off int64) (eng.Token, bool, error) {
	c := s.data[s.pos]
	switch c {
	case '{':
		s.pos++
		s.stack = append(s.stack, frame{kind: kindObject, state: stKey})
		return eng.Token{Kind: eng.KindBeginObject, Offset: off}, false, nil
	case '[':
		s.pos++
		s.stack = append(s.stack, frame{kind: kindArray, state: stValue})
		return eng.Token{Kind: eng.KindBeginArray, Offset: off}, false, nil
	case '"', '\'':
		str, err := s.quoted(c)
		if err != nil {
			return eng.Token{}, false, err
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindString, String: str, Offset: off}, false, nil
	case '}', ']', ',', ':', '=':
		return eng.Token{}, false, s.errorf("unexpected %q", c)
	}
	word := s.bare()
	if word == "" {
		return eng.Token{}, false, s.errorf("unexpected %q", c)
	}
	s.valueDone()
	switch word {
	case "true":
		return eng.Token{Kind: eng.KindBool, Bool: true, Offset: off}, false, nil
	case "false":
		return eng.Token{Kind: eng.KindBool, Bool: false, Offset: off}, false, nil
	case "null":
		return eng.Token{Kind: eng.KindNull, Offset: off}, false, nil
	}
	if IsNumber(word) {
		return eng.Token{Kind: eng.KindNumber, Number: word, Offset: off}, false, nil
	}
	return eng.Token{Kind: eng.KindString, String: word, Offset: off}, false, nil
}

func (s *source) name() (string, error) {
	c := s.data[s.pos]
	if c == '"' || c == '\'' {
		return s.quoted(c)
	}
	word := s.bare()
	if word == "" {
		return "", s.errorf("expected member name, found %q", c)
	}
	return word, nil
}

const delimiters = ",:[]{}\"'=;/#"

func (s *source) bare() string {
	start := s.pos
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if isSpace(c) || strings.IndexByte(delimiters, c) >= 0 {
			break
		}
		s.pos++
	}
	return string(s.data[start:s.pos])
}

func (s *source) quoted(q byte) (string, error) {
	s.pos++ // opening quote
	var b bytes.Buffer
	for {
		if s.pos >= len(s.data) {
			return "", io.ErrUnexpectedEOF
		}
		c := s.data[s.pos]
		switch {
		case c == q:
			s.pos++
			return b.String(), nil
		case c == '\\':
			s.pos++
			if s.pos >= len(s.data) {
				return "", io.ErrUnexpectedEOF
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case '"', '\'', '\\', '/':
				b.WriteByte(e)
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				r, err := s.unicodeEscape()
				if err != nil {
					return "", err
				}
				b.WriteRune(r)
			default:
				return "", s.errorf("invalid escape '\\%c'", e)
			}
		default:
			r, size := utf8.DecodeRune(s.data[s.pos:])
			b.WriteRune(r)
			s.pos += size
		}
	}
}

func (s *source) unicodeEscape() (rune, error) {
	r1, err := s.hex4()
	if err != nil {
		return 0, err
	}
	if !utf16.IsSurrogate(r1) {
		return r1, nil
	}
	if s.pos+1 < len(s.data) && s.data[s.pos] == '\\' && s.data[s.pos+1] == 'u' {
		save := s.pos
		s.pos += 2
		r2, err := s.hex4()
		if err == nil {
			if r := utf16.DecodeRune(r1, r2); r != utf8.RuneError {
				return r, nil
			}
		}
		s.pos = save
	}
	return utf8.RuneError, nil
}

func (s *source) hex4() (rune, error) {
	if s.pos+4 > len(s.data) {
		return 0, io.ErrUnexpectedEOF
	}
	v, err := strconv.ParseUint(string(s.data[s.pos:s.pos+4]), 16, 32)
	if err != nil {
		return 0, s.errorf("invalid unicode escape")
	}
	s.pos += 4
	return rune(v), nil
}

func (s *source) skipInsignificant() error {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isSpace(c):
			s.pos++
		case c == '/' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '/':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' {
				s.pos++
			}
		case c == '/' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '*':
			end := bytes.Index(s.data[s.pos+2:], []byte("*/"))
			if end < 0 {
				return io.ErrUnexpectedEOF
			}
			s.pos += end + 4
		default:
			return nil
		}
	}
	return nil
}

func (s *source) errorf(format string, a ...any) error {
	return &SyntaxError{Offset: int64(s.pos), Msg: fmt.Sprintf(format, a...)}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' }

// IsNumber reports whether s matches the JSON number grammar.
func IsNumber(s string) bool {
	i, n := 0, len(s)
	if i < n && s[i] == '-' {
		i++
	}
	if i >= n {
		return false
	}
	switch {
	case s[i] == '0':
		i++
	case s[i] >= '1' && s[i] <= '9':
		for i < n && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}
	if i < n && s[i] == '.' {
		i++
		if i >= n || !isDigit(s[i]) {
			return false
		}
		for i < n && isDigit(s[i]) {
			i++
		}
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= n || !isDigit(s[i]) {
			return false
		}
		for i < n && isDigit(s[i]) {
			i++
		}
	}
	return i == n
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
