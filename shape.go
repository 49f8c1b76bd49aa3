package dejson

import (
	"reflect"
	"strconv"
	"strings"
)

// ShapeKind tags the variants of a Shape.
type ShapeKind int

const (
	ShapeInvalid ShapeKind = iota
	ShapeScalar
	ShapeObject
	ShapeArray
	ShapeBuffer
	ShapeObjectView
)

// Shape is a declarative description of the JSON a decoder expects. Shapes
// are values; build them with Type, Scalar, Nullable, ObjectOf, Array, JSON and
// JSONObject, or with the fluent builders in package dsl.
type Shape struct {
	kind     ShapeKind
	typeName string       // scalar by registry name
	goType   reflect.Type // scalar by Go type
	fields   []ShapeField
	elem     *Shape
}

// ShapeField is one named member of an object shape.
type ShapeField struct {
	Name  string
	Shape Shape
}

// Type describes a scalar by its registry name ("int32", "string?", "datetime", ...).
func Type(name string) Shape { return Shape{kind: ShapeScalar, typeName: strings.TrimSpace(name)} }

// Scalar describes a scalar decoded into T.
func Scalar[T any]() Shape { return Shape{kind: ShapeScalar, goType: reflect.TypeFor[T]()} }

// Nullable describes a scalar decoded into *T; JSON null yields nil.
func Nullable[T any]() Shape { return Shape{kind: ShapeScalar, goType: reflect.TypeFor[*T]()} }

// Field pairs a member name with its shape.
func Field(name string, s Shape) ShapeField { return ShapeField{Name: name, Shape: s} }

// ObjectOf describes an object with the given members in declaration order.
func ObjectOf(fields ...ShapeField) Shape {
	return Shape{kind: ShapeObject, fields: append([]ShapeField(nil), fields...)}
}

// Array describes a homogeneous array of elem.
func Array(elem Shape) Shape { return Shape{kind: ShapeArray, elem: &elem} }

// JSON describes any JSON value captured as a Buffer.
func JSON() Shape { return Shape{kind: ShapeBuffer} }

// JSONObject describes a JSON object (or null) captured as an *Object view.
func JSONObject() Shape { return Shape{kind: ShapeObjectView} }

// Kind returns the variant tag.
func (s Shape) Kind() ShapeKind { return s.kind }

// Fields returns the members of an object shape.
func (s Shape) Fields() []ShapeField { return append([]ShapeField(nil), s.fields...) }

// Elem returns the element shape of an array shape.
func (s Shape) Elem() (Shape, bool) {
	if s.elem == nil {
		return Shape{}, false
	}
	return *s.elem, true
}

// String renders a canonical form of the shape, used as its cache identity.
func (s Shape) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s Shape) write(b *strings.Builder) {
	switch s.kind {
	case ShapeScalar:
		if s.goType != nil {
			b.WriteString("go:")
			if p := s.goType.PkgPath(); p != "" {
				b.WriteString(p)
				b.WriteByte('.')
			}
			b.WriteString(s.goType.String())
			return
		}
		b.WriteString(s.typeName)
	case ShapeObject:
		b.WriteByte('{')
		for i, f := range s.fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(f.Name))
			b.WriteByte(':')
			f.Shape.write(b)
		}
		b.WriteByte('}')
	case ShapeArray:
		b.WriteByte('[')
		if s.elem != nil {
			s.elem.write(b)
		}
		b.WriteByte(']')
	case ShapeBuffer:
		b.WriteString("json")
	case ShapeObjectView:
		b.WriteString("jsonobject")
	default:
		b.WriteString("invalid")
	}
}
