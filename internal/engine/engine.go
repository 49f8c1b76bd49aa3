package engine

import (
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "begin-object"
	case KindEndObject:
		return "end-object"
	case KindBeginArray:
		return "begin-array"
	case KindEndArray:
		return "end-array"
	case KindKey:
		return "member"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Token represents a streaming token with approximate input offset.
// String carries key and string payloads; Number keeps the literal text.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// SameContent reports whether two tokens carry the same kind and payload,
// ignoring offsets.
func (t Token) SameContent(o Token) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindKey, KindString:
		return t.String == o.String
	case KindNumber:
		return t.Number == o.Number
	case KindBool:
		return t.Bool == o.Bool
	}
	return true
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// SliceSource replays a fixed token sequence and then reports io.EOF.
type SliceSource struct {
	tokens []Token
	idx    int
}

// NewSliceSource returns a source over toks. The slice is not copied.
func NewSliceSource(toks []Token) *SliceSource { return &SliceSource{tokens: toks} }

func (s *SliceSource) NextToken() (Token, error) {
	if s.idx >= len(s.tokens) {
		return Token{}, io.EOF
	}
	t := s.tokens[s.idx]
	s.idx++
	return t, nil
}

func (s *SliceSource) Location() int64 {
	if s.idx > 0 && s.idx <= len(s.tokens) {
		return s.tokens[s.idx-1].Offset
	}
	return -1
}

// IsBegin reports whether k opens a container.
func IsBegin(k Kind) bool { return k == KindBeginObject || k == KindBeginArray }

// IsEnd reports whether k closes a container.
func IsEnd(k Kind) bool { return k == KindEndObject || k == KindEndArray }

// Render writes toks as compact JSON text. The sequence is expected to be
// one well-formed value; separators are derived from token kinds.
func Render(toks []Token) string {
	var b strings.Builder
	prevOpensOrKey := true
	for _, t := range toks {
		if !prevOpensOrKey && !IsEnd(t.Kind) {
			b.WriteByte(',')
		}
		switch t.Kind {
		case KindBeginObject:
			b.WriteByte('{')
		case KindEndObject:
			b.WriteByte('}')
		case KindBeginArray:
			b.WriteByte('[')
		case KindEndArray:
			b.WriteByte(']')
		case KindKey:
			b.WriteString(quote(t.String))
			b.WriteByte(':')
		case KindString:
			b.WriteString(quote(t.String))
		case KindNumber:
			b.WriteString(t.Number)
		case KindBool:
			b.WriteString(strconv.FormatBool(t.Bool))
		case KindNull:
			b.WriteString("null")
		}
		prevOpensOrKey = IsBegin(t.Kind) || t.Kind == KindKey
	}
	return b.String()
}

func quote(s string) string {
	out, err := j.MarshalNoEscape(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(out)
}
