package dejson

import (
	"reflect"
	"strconv"
)

// decodeFunc reads one value from c into dst, a settable value of the
// prototype's target type.
type decodeFunc func(c *Cursor, dst reflect.Value) error

// compile turns an analysed prototype into a closure tree. The result holds
// no per-call state and may be shared between goroutines.
func compile(p *Prototype) decodeFunc {
	switch p.kind {
	case PrototypeScalar:
		return p.prim.decode
	case PrototypeArray:
		return compileArray(p, compile(p.elem))
	case PrototypeObject:
		return compileObject(p)
	}
	if p.form == PassthroughObject {
		return decodeObjectView
	}
	return decodeBuffer
}

func decodeBuffer(c *Cursor, dst reflect.Value) error {
	b, err := c.Capture()
	if err != nil {
		return err
	}
	dst.Set(reflect.ValueOf(b))
	return nil
}

func decodeObjectView(c *Cursor, dst reflect.Value) error {
	o, err := importObject(c)
	if err != nil {
		return err
	}
	dst.Set(reflect.ValueOf(o))
	return nil
}

func compileArray(p *Prototype, elem decodeFunc) decodeFunc {
	zero := reflect.Zero(p.elem.typ)
	return func(c *Cursor, dst reflect.Value) error {
		if err := c.ReadToken(TokenArray); err != nil {
			return err
		}
		s := reflect.MakeSlice(p.typ, 0, 4)
		for i := 0; ; i++ {
			cls, err := c.Peek()
			if err != nil {
				return withPath(err, "/"+strconv.Itoa(i))
			}
			if cls == TokenEndArray {
				break
			}
			s = reflect.Append(s, zero)
			if err := elem(c, s.Index(i)); err != nil {
				return withPath(err, "/"+strconv.Itoa(i))
			}
		}
		if err := c.ReadToken(TokenEndArray); err != nil {
			return err
		}
		dst.Set(s)
		return nil
	}
}

type compiledField struct {
	decode decodeFunc
	typ    reflect.Type
	index  []int
}

func compileObject(p *Prototype) decodeFunc {
	fields := make([]compiledField, len(p.fields))
	byName := make(map[string]int, len(p.fields))
	for i, f := range p.fields {
		fields[i] = compiledField{decode: compile(f.Prototype), typ: f.Prototype.typ, index: f.index}
		byName[f.Name] = i
	}
	record := p.typ == recordPtrType

	return func(c *Cursor, dst reflect.Value) error {
		ok, err := c.MoveToContent()
		if err != nil {
			return err
		}
		if !ok {
			return newError(CodeUnexpectedEOF, nil)
		}
		if p.nullable {
			if cls, _ := c.Peek(); cls == TokenNull {
				if err := c.ReadNull(); err != nil {
					return err
				}
				dst.Set(reflect.Zero(p.typ))
				return nil
			}
		}
		if err := c.ReadToken(TokenObject); err != nil {
			return err
		}

		var (
			target reflect.Value
			rec    *Record
		)
		switch {
		case record:
			rec = newRecord(p.fields)
		case p.nullable:
			target = reflect.New(p.typ.Elem()).Elem()
		default:
			target = reflect.New(p.typ).Elem()
		}

		for {
			cls, err := c.Peek()
			if err != nil {
				return err
			}
			if cls == TokenEndObject {
				break
			}
			name, err := c.ReadMember()
			if err != nil {
				return err
			}
			i, known := byName[name]
			if !known {
				if err := c.Skip(); err != nil {
					return withPath(err, pointerSegment(name))
				}
				continue
			}
			f := fields[i]
			if rec != nil {
				v := reflect.New(f.typ).Elem()
				if err := f.decode(c, v); err != nil {
					return withPath(err, pointerSegment(name))
				}
				rec.values[i] = v.Interface()
				continue
			}
			if err := f.decode(c, fieldByIndex(target, f.index)); err != nil {
				return withPath(err, pointerSegment(name))
			}
		}
		if err := c.ReadToken(TokenEndObject); err != nil {
			return err
		}

		switch {
		case record:
			dst.Set(reflect.ValueOf(rec))
		case p.nullable:
			dst.Set(target.Addr())
		default:
			dst.Set(target)
		}
		return nil
	}
}

// fieldByIndex is reflect.Value.FieldByIndex allocating nil embedded
// pointers on the way.
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}
