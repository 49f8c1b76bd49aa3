package dejson

import (
	"iter"
	"strconv"
	"strings"
)

// Member is one name/value pair of an Object.
type Member struct {
	Name  string
	Value Buffer
}

// Object is an immutable, ordered view over the members of a JSON object.
// Name lookups are case-insensitive and return the first match in source
// order; positional access preserves source order and duplicates.
type Object struct {
	members []Member
}

// ImportObject reads text holding one JSON object (or null, which yields a
// nil *Object).
func ImportObject(text string, opts ...Option) (*Object, error) {
	c := NewTextCursor(text, opts...)
	o, err := importObject(c)
	if err != nil {
		return nil, err
	}
	if err := c.expectEOF(); err != nil {
		return nil, err
	}
	return o, nil
}

// ObjectFromBuffer views a captured object (or null) as an *Object.
func ObjectFromBuffer(b Buffer) (*Object, error) {
	c := b.Cursor()
	o, err := importObject(c)
	if err != nil {
		return nil, err
	}
	if err := c.expectEOF(); err != nil {
		return nil, err
	}
	return o, nil
}

// NewObject builds an Object from members. Every member needs a non-empty
// value.
func NewObject(members ...Member) (*Object, error) {
	for i, m := range members {
		if m.Value.IsEmpty() {
			e := errArgument("JSON object member (#" + strconv.Itoa(i+1) + ") value must be defined.")
			e.Params = map[string]any{"position": i + 1, "name": m.Name}
			return nil, e
		}
	}
	return &Object{members: append([]Member(nil), members...)}, nil
}

func importObject(c *Cursor) (*Object, error) {
	ok, err := c.MoveToContent()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newError(CodeUnexpectedEOF, nil)
	}
	if cls, _ := c.Peek(); cls == TokenNull {
		return nil, c.ReadNull()
	}
	if err := c.ReadToken(TokenObject); err != nil {
		return nil, err
	}
	o := &Object{}
	for {
		cls, err := c.Peek()
		if err != nil {
			return nil, err
		}
		if cls == TokenEndObject {
			break
		}
		name, err := c.ReadMember()
		if err != nil {
			return nil, err
		}
		v, err := c.Capture()
		if err != nil {
			return nil, withPath(err, pointerSegment(name))
		}
		o.members = append(o.members, Member{Name: name, Value: v})
	}
	if err := c.ReadToken(TokenEndObject); err != nil {
		return nil, err
	}
	return o, nil
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.members) }

// At returns the member at position i.
func (o *Object) At(i int) (Member, error) {
	if i < 0 || i >= len(o.members) {
		return Member{}, errIndex(i, len(o.members))
	}
	return o.members[i], nil
}

// IndexOf returns the position of the first member whose name equals name
// ignoring case, or -1.
func (o *Object) IndexOf(name string) int {
	for i, m := range o.members {
		if strings.EqualFold(m.Name, name) {
			return i
		}
	}
	return -1
}

// Find returns the value of the first member matching name ignoring case.
func (o *Object) Find(name string) (Buffer, bool) {
	if i := o.IndexOf(name); i >= 0 {
		return o.members[i].Value, true
	}
	return Buffer{}, false
}

// Get is like Find but fails with KeyNotFound when no member matches.
func (o *Object) Get(name string) (Buffer, error) {
	if v, ok := o.Find(name); ok {
		return v, nil
	}
	e := newError(CodeKeyNotFound, map[string]string{"name": name})
	e.Params = map[string]any{"name": name}
	return Buffer{}, e
}

func (o *Object) Contains(name string) bool { return o.IndexOf(name) >= 0 }

// Names returns member names in source order.
func (o *Object) Names() []string {
	out := make([]string, len(o.members))
	for i, m := range o.members {
		out[i] = m.Name
	}
	return out
}

// Values returns member values in source order.
func (o *Object) Values() []Buffer {
	out := make([]Buffer, len(o.members))
	for i, m := range o.members {
		out[i] = m.Value
	}
	return out
}

// Members returns a copy of the members in source order.
func (o *Object) Members() []Member { return append([]Member(nil), o.members...) }

// All iterates over members in source order.
func (o *Object) All() iter.Seq2[string, Buffer] {
	return func(yield func(string, Buffer) bool) {
		for _, m := range o.members {
			if !yield(m.Name, m.Value) {
				return
			}
		}
	}
}

// Equal reports whether both views hold the same names and values in the
// same order. Names compare exactly.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if len(o.members) != len(other.members) {
		return false
	}
	for i, m := range o.members {
		if m.Name != other.members[i].Name || !m.Value.Equal(other.members[i].Value) {
			return false
		}
	}
	return true
}
