package dejson

import (
	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"

	eng "github.com/reoring/dejson/internal/engine"
)

// Buffer is an immutable captured copy of one JSON value's tokens. The zero
// value is the empty Buffer.
type Buffer struct {
	toks []eng.Token
}

// Cursor returns a fresh Cursor over the captured tokens.
func (b Buffer) Cursor() *Cursor { return newCursor(eng.NewSliceSource(b.toks)) }

func (b Buffer) IsEmpty() bool { return len(b.toks) == 0 }
func (b Buffer) IsNull() bool  { return len(b.toks) == 1 && b.toks[0].Kind == eng.KindNull }

// IsScalar reports whether the value is a string, number or boolean.
func (b Buffer) IsScalar() bool {
	if len(b.toks) != 1 {
		return false
	}
	switch b.toks[0].Kind {
	case eng.KindString, eng.KindNumber, eng.KindBool:
		return true
	}
	return false
}

func (b Buffer) IsBoolean() bool { return b.isScalarKind(eng.KindBool) }
func (b Buffer) IsNumber() bool  { return b.isScalarKind(eng.KindNumber) }
func (b Buffer) IsString() bool  { return b.isScalarKind(eng.KindString) }

func (b Buffer) IsStructured() bool { return len(b.toks) > 0 && eng.IsBegin(b.toks[0].Kind) }
func (b Buffer) IsObject() bool     { return len(b.toks) > 0 && b.toks[0].Kind == eng.KindBeginObject }
func (b Buffer) IsArray() bool      { return len(b.toks) > 0 && b.toks[0].Kind == eng.KindBeginArray }

func (b Buffer) isScalarKind(k eng.Kind) bool { return len(b.toks) == 1 && b.toks[0].Kind == k }

// String renders the captured value as compact JSON text. The empty Buffer
// renders as "".
func (b Buffer) String() string { return eng.Render(b.toks) }

// Equal reports whether both buffers hold the same token sequence.
func (b Buffer) Equal(o Buffer) bool {
	if len(b.toks) != len(o.toks) {
		return false
	}
	for i := range b.toks {
		if !b.toks[i].SameContent(o.toks[i]) {
			return false
		}
	}
	return true
}

// Hash returns a content hash consistent with Equal.
func (b Buffer) Hash() uint64 {
	d := xxhash.New()
	var kind [1]byte
	for _, t := range b.toks {
		kind[0] = byte(t.Kind)
		_, _ = d.Write(kind[:])
		switch t.Kind {
		case eng.KindKey, eng.KindString:
			_, _ = d.WriteString(t.String)
		case eng.KindNumber:
			_, _ = d.WriteString(t.Number)
		case eng.KindBool:
			if t.Bool {
				_, _ = d.Write([]byte{1})
			} else {
				_, _ = d.Write([]byte{0})
			}
		}
		_, _ = d.Write([]byte{0xff})
	}
	return d.Sum64()
}

// wireToken is the CBOR form of one token. Text carries the key, string or
// number payload.
type wireToken struct {
	_    struct{} `cbor:",toarray"`
	Kind uint8
	Text string
	Bool bool
}

var (
	bufferEnc cbor.EncMode
	bufferDec cbor.DecMode
)

func init() {
	var err error
	if bufferEnc, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if bufferDec, err = (cbor.DecOptions{}).DecMode(); err != nil {
		panic(err)
	}
}

// MarshalBinary encodes the captured tokens as deterministic CBOR.
func (b Buffer) MarshalBinary() ([]byte, error) {
	wire := make([]wireToken, len(b.toks))
	for i, t := range b.toks {
		w := wireToken{Kind: uint8(t.Kind), Bool: t.Bool}
		switch t.Kind {
		case eng.KindKey, eng.KindString:
			w.Text = t.String
		case eng.KindNumber:
			w.Text = t.Number
		}
		wire[i] = w
	}
	return bufferEnc.Marshal(wire)
}

// UnmarshalBinary replaces b with the tokens encoded in data. The data must
// hold exactly one well-formed value (or nothing, for the empty Buffer).
func (b *Buffer) UnmarshalBinary(data []byte) error {
	var wire []wireToken
	if err := bufferDec.Unmarshal(data, &wire); err != nil {
		e := errArgument("malformed buffer encoding")
		e.Cause = err
		return e
	}
	toks := make([]eng.Token, len(wire))
	for i, w := range wire {
		if w.Kind > uint8(eng.KindNull) {
			return errArgument("unknown token kind")
		}
		t := eng.Token{Kind: eng.Kind(w.Kind), Offset: -1}
		switch t.Kind {
		case eng.KindKey, eng.KindString:
			t.String = w.Text
		case eng.KindNumber:
			t.Number = w.Text
		case eng.KindBool:
			t.Bool = w.Bool
		}
		toks[i] = t
	}
	if !wellFormed(toks) {
		return errArgument("buffer does not hold a single value")
	}
	b.toks = toks
	return nil
}

// wellFormed reports whether toks is empty or exactly one balanced value with
// members only directly inside objects.
func wellFormed(toks []eng.Token) bool {
	if len(toks) == 0 {
		return true
	}
	type frame struct {
		object    bool
		wantValue bool // object: a member name was just read
	}
	var stack []frame
	for i, t := range toks {
		if i > 0 && len(stack) == 0 {
			return false
		}
		var top *frame
		if n := len(stack); n > 0 {
			top = &stack[n-1]
		}
		if t.Kind == eng.KindKey {
			if top == nil || !top.object || top.wantValue {
				return false
			}
			top.wantValue = true
			continue
		}
		if eng.IsEnd(t.Kind) {
			if top == nil || top.object != (t.Kind == eng.KindEndObject) || top.wantValue {
				return false
			}
			stack = stack[:len(stack)-1]
			if n := len(stack); n > 0 {
				stack[n-1].wantValue = false
			}
			continue
		}
		// a value
		if top != nil && top.object && !top.wantValue {
			return false
		}
		if eng.IsBegin(t.Kind) {
			stack = append(stack, frame{object: t.Kind == eng.KindBeginObject})
			continue
		}
		if top != nil {
			top.wantValue = false
		}
	}
	return len(stack) == 0
}
