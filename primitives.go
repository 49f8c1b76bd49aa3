package dejson

import (
	"errors"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Primitive is a registered scalar decoder.
type Primitive struct {
	name     string
	typ      reflect.Type
	nullable bool
	decode   func(c *Cursor, dst reflect.Value) error
}

// Name returns the textual type name, suffixed with "?" when nullable.
func (p *Primitive) Name() string { return p.name }

// Type returns the Go type produced by the decoder.
func (p *Primitive) Type() reflect.Type { return p.typ }

// Nullable reports whether JSON null is accepted (yielding a nil pointer).
func (p *Primitive) Nullable() bool { return p.nullable }

// Decode reads one value from c.
func (p *Primitive) Decode(c *Cursor) (any, error) {
	v := reflect.New(p.typ).Elem()
	if err := p.decode(c, v); err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Registry maps Go types and type names to primitive decoders. A Registry is
// read-only once shared; Register is meant for setup.
type Registry struct {
	byType map[reflect.Type]*Primitive
	byName map[string]*Primitive
	frozen bool
}

var builtins = sync.OnceValue(func() *Registry {
	r := &Registry{byType: map[reflect.Type]*Primitive{}, byName: map[string]*Primitive{}}
	Register(r, "bool", (*Cursor).ReadBoolean)
	Register(r, "int32", readInt32)
	Register(r, "int64", readInt64)
	Register(r, "float32", readFloat32)
	Register(r, "float64", readFloat64)
	Register(r, "string", (*Cursor).ReadString)
	Register(r, "datetime", readDateTime)
	Register(r, "datetimeoffset", readTime)
	r.frozen = true
	return r
})

// Primitives returns the process-wide built-in registry.
func Primitives() *Registry { return builtins() }

// NewRegistry returns a registry holding a copy of the built-in decoders.
func NewRegistry() *Registry {
	b := builtins()
	r := &Registry{byType: make(map[reflect.Type]*Primitive, len(b.byType)), byName: make(map[string]*Primitive, len(b.byName))}
	for k, v := range b.byType {
		r.byType[k] = v
	}
	for k, v := range b.byName {
		r.byName[k] = v
	}
	return r
}

// Register adds a strict decoder for T under name and a nullable one for *T
// under name+"?". Registering on the registry returned by Primitives panics;
// use NewRegistry for a modifiable copy.
func Register[T any](r *Registry, name string, read func(*Cursor) (T, error)) {
	if r.frozen {
		panic("dejson: Register on the built-in registry (" + strconv.Quote(name) + ")")
	}
	strict := &Primitive{
		name: name,
		typ:  reflect.TypeFor[T](),
		decode: func(c *Cursor, dst reflect.Value) error {
			v, err := read(c)
			if err != nil {
				return err
			}
			dst.Set(reflect.ValueOf(&v).Elem())
			return nil
		},
	}
	ptr := reflect.TypeFor[*T]()
	nullable := &Primitive{
		name:     name + "?",
		typ:      ptr,
		nullable: true,
		decode: func(c *Cursor, dst reflect.Value) error {
			ok, err := c.MoveToContent()
			if err != nil {
				return err
			}
			if !ok {
				return newError(CodeUnexpectedEOF, nil)
			}
			if cls, _ := c.Peek(); cls == TokenNull {
				if err := c.ReadNull(); err != nil {
					return err
				}
				dst.Set(reflect.Zero(ptr))
				return nil
			}
			v, err := read(c)
			if err != nil {
				return err
			}
			dst.Set(reflect.ValueOf(&v))
			return nil
		},
	}
	r.byType[strict.typ], r.byName[strict.name] = strict, strict
	r.byType[ptr], r.byName[nullable.name] = nullable, nullable
}

// Lookup returns the decoder registered for t.
func (r *Registry) Lookup(t reflect.Type) (*Primitive, error) {
	if p, ok := r.byType[t]; ok {
		return p, nil
	}
	return nil, errUnsupported(t.String())
}

// LookupName returns the decoder registered under name ("int32", "int32?", ...).
func (r *Registry) LookupName(name string) (*Primitive, error) {
	if p, ok := r.byName[strings.TrimSpace(name)]; ok {
		return p, nil
	}
	return nil, errUnsupported(name)
}

// Names lists the registered type names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func readInt32(c *Cursor) (int32, error) {
	n, err := c.ReadNumber()
	if err != nil {
		return 0, err
	}
	v, err := coerceInt(n, 32, "int32")
	return int32(v), err
}

func readInt64(c *Cursor) (int64, error) {
	n, err := c.ReadNumber()
	if err != nil {
		return 0, err
	}
	return coerceInt(n, 64, "int64")
}

// coerceInt converts a number literal to a signed integer of the given width.
// Integral literals in fraction or exponent form are accepted.
func coerceInt(n Number, bits int, typ string) (int64, error) {
	v, err := strconv.ParseInt(string(n), 10, bits)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, errNumber(CodeOverflow, string(n), typ, err)
	}
	f, _, perr := big.ParseFloat(string(n), 10, 256, big.ToNearestEven)
	if perr != nil {
		return 0, errNumber(CodeInvalidFormat, string(n), typ, perr)
	}
	if !f.IsInt() {
		return 0, errNumber(CodeInvalidFormat, string(n), typ, nil)
	}
	i, acc := f.Int64()
	lo, hi := int64(math.MinInt64), int64(math.MaxInt64)
	if bits == 32 {
		lo, hi = math.MinInt32, math.MaxInt32
	}
	if acc != big.Exact || i < lo || i > hi {
		return 0, errNumber(CodeOverflow, string(n), typ, nil)
	}
	if f.Sign() != 0 {
		// f is rounded to 256 bits; confirm the literal itself is integral.
		r, ok := new(big.Rat).SetString(string(n))
		if !ok || !r.IsInt() {
			return 0, errNumber(CodeInvalidFormat, string(n), typ, nil)
		}
	}
	return i, nil
}

func readFloat32(c *Cursor) (float32, error) {
	n, err := c.ReadNumber()
	if err != nil {
		return 0, err
	}
	v, err := coerceFloat(n, 32, "float32")
	return float32(v), err
}

func readFloat64(c *Cursor) (float64, error) {
	n, err := c.ReadNumber()
	if err != nil {
		return 0, err
	}
	return coerceFloat(n, 64, "float64")
}

func coerceFloat(n Number, bits int, typ string) (float64, error) {
	v, err := strconv.ParseFloat(string(n), bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, errNumber(CodeOverflow, string(n), typ, err)
		}
		return 0, errNumber(CodeInvalidFormat, string(n), typ, err)
	}
	return v, nil
}

// DateTimeKind tells whether a DateTime was converted to local time.
type DateTimeKind int

const (
	DateTimeUnspecified DateTimeKind = iota // No offset in the input; wall clock kept.
	DateTimeLocal                           // Offset in the input; converted to time.Local.
)

func (k DateTimeKind) String() string {
	if k == DateTimeLocal {
		return "local"
	}
	return "unspecified"
}

// DateTime is a point in time without a preserved offset.
type DateTime struct {
	time.Time
	Kind DateTimeKind
}

type dateLayout struct {
	layout    string
	hasOffset bool
}

// dateLayouts is the ordered list tried by the date-time decoders.
var dateLayouts = func() []dateLayout {
	var out []dateLayout
	add := func(l string) {
		out = append(out, dateLayout{l + "Z07:00", true}, dateLayout{l, false})
	}
	for _, digits := range []int{7, 4, 3, 2, 1, 0, 5, 6, 8, 9} {
		l := "2006-01-02T15:04:05"
		if digits > 0 {
			l += "." + strings.Repeat("0", digits)
		}
		add(l)
	}
	add("2006-01-02T15:04")
	return append(out, dateLayout{"2006-01-02", false})
}()

// parseDateTime returns the first layout match. Inputs without an offset are
// read in time.Local.
func parseDateTime(s string) (t time.Time, hasOffset bool, ok bool) {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		var err error
		if l.hasOffset {
			t, err = time.Parse(l.layout, s)
		} else {
			t, err = time.ParseInLocation(l.layout, s, time.Local)
		}
		if err == nil {
			return t, l.hasOffset, true
		}
	}
	return time.Time{}, false, false
}

func readDateTime(c *Cursor) (DateTime, error) {
	s, err := c.ReadString()
	if err != nil {
		return DateTime{}, err
	}
	t, hasOffset, ok := parseDateTime(s)
	if !ok {
		return DateTime{}, errNumber(CodeInvalidFormat, strconv.Quote(s), "datetime", nil)
	}
	if hasOffset {
		return DateTime{Time: t.In(time.Local), Kind: DateTimeLocal}, nil
	}
	return DateTime{Time: t, Kind: DateTimeUnspecified}, nil
}

func readTime(c *Cursor) (time.Time, error) {
	s, err := c.ReadString()
	if err != nil {
		return time.Time{}, err
	}
	t, _, ok := parseDateTime(s)
	if !ok {
		return time.Time{}, errNumber(CodeInvalidFormat, strconv.Quote(s), "datetimeoffset", nil)
	}
	return t, nil
}
