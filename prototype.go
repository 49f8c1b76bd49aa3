package dejson

import (
	"reflect"
	"strconv"
	"strings"

	eng "github.com/reoring/dejson/internal/engine"
)

// PrototypeKind tags the variants of a Prototype.
type PrototypeKind int

const (
	PrototypeScalar PrototypeKind = iota
	PrototypeObject
	PrototypeArray
	PrototypePassthrough
)

// PassthroughForm selects what a passthrough node captures.
type PassthroughForm int

const (
	PassthroughBuffer PassthroughForm = iota // Any value as a Buffer.
	PassthroughObject                        // An object (or null) as an *Object.
)

// Prototype is the analysed, immutable form of a shape. Every node carries
// the Go type its decoder produces.
type Prototype struct {
	kind     PrototypeKind
	typ      reflect.Type
	prim     *Primitive
	fields   []PrototypeField
	elem     *Prototype
	form     PassthroughForm
	nullable bool
}

// PrototypeField is one member of an object prototype.
type PrototypeField struct {
	Name      string
	Prototype *Prototype
	index     []int // struct field index path; nil for records
}

func (p *Prototype) Kind() PrototypeKind   { return p.kind }
func (p *Prototype) Type() reflect.Type    { return p.typ }
func (p *Prototype) Primitive() *Primitive { return p.prim }
func (p *Prototype) Elem() *Prototype      { return p.elem }
func (p *Prototype) Form() PassthroughForm { return p.form }

// Nullable reports whether JSON null is accepted for this node.
func (p *Prototype) Nullable() bool {
	if p.kind == PrototypeScalar {
		return p.prim.Nullable()
	}
	return p.nullable || (p.kind == PrototypePassthrough && p.form == PassthroughObject)
}

// Fields returns the members of an object prototype in declaration order.
func (p *Prototype) Fields() []PrototypeField { return append([]PrototypeField(nil), p.fields...) }

var (
	bufferType    = reflect.TypeFor[Buffer]()
	objectPtrType = reflect.TypeFor[*Object]()
	recordPtrType = reflect.TypeFor[*Record]()
)

// Analyze validates s and resolves its scalar types against the registry
// selected by opts.
func Analyze(s Shape, opts ...Option) (*Prototype, error) {
	o := buildOptions(opts)
	return analyzeShape(s, o.Registry)
}

// AnalyzeType derives a prototype from a Go type. Structs are objects,
// slices are arrays, Buffer and *Object are passthrough and *struct is a
// nullable object.
func AnalyzeType(t reflect.Type, opts ...Option) (*Prototype, error) {
	o := buildOptions(opts)
	a := typeAnalyzer{reg: o.Registry, naming: o.FieldNaming, visiting: map[reflect.Type]bool{}}
	return a.analyze(t)
}

func analyzeShape(s Shape, reg *Registry) (*Prototype, error) {
	switch s.kind {
	case ShapeScalar:
		var (
			prim *Primitive
			err  error
		)
		if s.goType != nil {
			prim, err = reg.Lookup(s.goType)
		} else {
			prim, err = reg.LookupName(s.typeName)
		}
		if err != nil {
			return nil, err
		}
		return &Prototype{kind: PrototypeScalar, typ: prim.Type(), prim: prim}, nil
	case ShapeObject:
		if len(s.fields) == 0 {
			return nil, errPrototype("object shape declares no members")
		}
		p := &Prototype{kind: PrototypeObject, typ: recordPtrType, fields: make([]PrototypeField, len(s.fields))}
		seen := make(map[string]bool, len(s.fields))
		for i, f := range s.fields {
			if seen[f.Name] {
				return nil, withPath(errPrototype("member "+strconv.Quote(f.Name)+" declared twice"), pointerSegment(f.Name))
			}
			seen[f.Name] = true
			fp, err := analyzeShape(f.Shape, reg)
			if err != nil {
				return nil, withPath(err, pointerSegment(f.Name))
			}
			p.fields[i] = PrototypeField{Name: f.Name, Prototype: fp}
		}
		return p, nil
	case ShapeArray:
		if s.elem == nil {
			return nil, errPrototype("array shape has no element")
		}
		ep, err := analyzeShape(*s.elem, reg)
		if err != nil {
			return nil, withPath(err, "/0")
		}
		return arrayPrototype(ep), nil
	case ShapeBuffer:
		return &Prototype{kind: PrototypePassthrough, typ: bufferType, form: PassthroughBuffer}, nil
	case ShapeObjectView:
		return &Prototype{kind: PrototypePassthrough, typ: objectPtrType, form: PassthroughObject}, nil
	}
	return nil, errPrototype("empty shape")
}

func arrayPrototype(elem *Prototype) *Prototype {
	return &Prototype{kind: PrototypeArray, typ: reflect.SliceOf(elem.typ), elem: elem}
}

type typeAnalyzer struct {
	reg      *Registry
	naming   FieldNaming
	visiting map[reflect.Type]bool
}

func (a *typeAnalyzer) analyze(t reflect.Type) (*Prototype, error) {
	switch t {
	case bufferType:
		return &Prototype{kind: PrototypePassthrough, typ: t, form: PassthroughBuffer}, nil
	case objectPtrType:
		return &Prototype{kind: PrototypePassthrough, typ: t, form: PassthroughObject}, nil
	}
	if prim, err := a.reg.Lookup(t); err == nil {
		return &Prototype{kind: PrototypeScalar, typ: t, prim: prim}, nil
	}
	switch t.Kind() {
	case reflect.Struct:
		return a.analyzeStruct(t)
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct {
			sp, err := a.analyzeStruct(t.Elem())
			if err != nil {
				return nil, err
			}
			np := *sp
			np.typ, np.nullable = t, true
			return &np, nil
		}
	case reflect.Slice:
		ep, err := a.analyze(t.Elem())
		if err != nil {
			return nil, withPath(err, "/0")
		}
		p := arrayPrototype(ep)
		p.typ = t
		return p, nil
	}
	return nil, errUnsupported(t.String())
}

func (a *typeAnalyzer) analyzeStruct(t reflect.Type) (*Prototype, error) {
	if a.visiting[t] {
		e := errPrototype("type " + t.String() + " refers to itself")
		e.Params = map[string]any{"type": t.String()}
		return nil, e
	}
	a.visiting[t] = true
	defer delete(a.visiting, t)

	var cands []fieldCandidate
	if err := a.collectFields(t, nil, &cands); err != nil {
		return nil, err
	}
	fields, err := resolveFields(cands)
	if err != nil {
		return nil, err
	}
	p := &Prototype{kind: PrototypeObject, typ: t, fields: fields}
	if len(p.fields) == 0 {
		e := errPrototype("type " + t.String() + " declares no members")
		e.Params = map[string]any{"type": t.String()}
		return nil, e
	}
	return p, nil
}

type fieldCandidate struct {
	PrototypeField
	depth int
}

// collectFields lists the members of t. Fields of untagged embedded structs
// are promoted one level deeper than the embedding field.
func (a *typeAnalyzer) collectFields(t reflect.Type, parent []int, out *[]fieldCandidate) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int(nil), parent...), i)

		if et, ok := a.promoted(sf); ok {
			if a.visiting[et] {
				e := errPrototype("type " + et.String() + " refers to itself")
				e.Params = map[string]any{"type": et.String()}
				return e
			}
			a.visiting[et] = true
			err := a.collectFields(et, index, out)
			delete(a.visiting, et)
			if err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		name := ResolveMemberName(sf, a.naming)
		if name == "-" {
			continue
		}
		fp, err := a.analyze(sf.Type)
		if err != nil {
			return withPath(err, pointerSegment(name))
		}
		*out = append(*out, fieldCandidate{PrototypeField{Name: name, Prototype: fp, index: index}, len(index)})
	}
	return nil
}

// resolveFields keeps the shallowest member of each name. Two members of the
// same name at that depth are rejected.
func resolveFields(cands []fieldCandidate) ([]PrototypeField, error) {
	depth := make(map[string]int, len(cands))
	count := make(map[string]int, len(cands))
	for _, c := range cands {
		d, ok := depth[c.Name]
		switch {
		case !ok || c.depth < d:
			depth[c.Name], count[c.Name] = c.depth, 1
		case c.depth == d:
			count[c.Name]++
		}
	}
	var fields []PrototypeField
	for _, c := range cands {
		if c.depth != depth[c.Name] {
			continue
		}
		if count[c.Name] > 1 {
			return nil, withPath(errPrototype("member "+strconv.Quote(c.Name)+" declared twice"), pointerSegment(c.Name))
		}
		fields = append(fields, c.PrototypeField)
	}
	return fields, nil
}

// promoted reports the struct type whose fields sf promotes.
func (a *typeAnalyzer) promoted(sf reflect.StructField) (reflect.Type, bool) {
	if !sf.Anonymous || tagName(sf) != "" {
		return nil, false
	}
	t := sf.Type
	if t.Kind() == reflect.Pointer {
		if !sf.IsExported() {
			return nil, false
		}
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == bufferType {
		return nil, false
	}
	if _, err := a.reg.Lookup(sf.Type); err == nil {
		return nil, false
	}
	return t, true
}

// ResolveMemberName applies the repository-wide rule to resolve a struct
// field's JSON member name.
// Priority: dejson:"name" > json tag name > field name under naming; "-"
// disables the field.
func ResolveMemberName(sf reflect.StructField, naming FieldNaming) string {
	if n := tagName(sf); n != "" {
		return n
	}
	return naming.apply(sf.Name)
}

func tagName(sf reflect.StructField) string {
	if dt := sf.Tag.Get("dejson"); dt != "" {
		if i := strings.IndexByte(dt, ','); i >= 0 {
			dt = dt[:i]
		}
		if dt = strings.TrimSpace(dt); dt != "" {
			return dt
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			jt = jt[:i]
		}
		return jt
	}
	return ""
}

func pointerSegment(name string) string { return "/" + eng.EscapePointerToken(name) }
