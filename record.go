package dejson

import (
	"iter"
	"reflect"
)

// Record is the value built for object shapes declared through a Shape
// rather than a Go struct. Fields keep declaration order; fields missing
// from the input hold the zero value of their type.
type Record struct {
	names  []string
	values []any
}

func newRecord(fields []PrototypeField) *Record {
	r := &Record{names: make([]string, len(fields)), values: make([]any, len(fields))}
	for i, f := range fields {
		r.names[i] = f.Name
		r.values[i] = reflect.Zero(f.Prototype.Type()).Interface()
	}
	return r
}

// Len returns the number of declared fields.
func (r *Record) Len() int { return len(r.names) }

// Names returns the declared field names in order.
func (r *Record) Names() []string { return append([]string(nil), r.names...) }

// Get returns the value of the named field. Names match exactly.
func (r *Record) Get(name string) (any, bool) {
	for i, n := range r.names {
		if n == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// At returns the value of the i-th declared field.
func (r *Record) At(i int) (any, error) {
	if i < 0 || i >= len(r.values) {
		return nil, errIndex(i, len(r.values))
	}
	return r.values[i], nil
}

// All iterates over fields in declaration order.
func (r *Record) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for i, n := range r.names {
			if !yield(n, r.values[i]) {
				return
			}
		}
	}
}

// RecordValue returns the named field converted to T.
func RecordValue[T any](r *Record, name string) (T, error) {
	var zero T
	v, ok := r.Get(name)
	if !ok {
		e := newError(CodeKeyNotFound, map[string]string{"name": name})
		e.Params = map[string]any{"name": name}
		return zero, e
	}
	t, ok := v.(T)
	if !ok {
		return zero, errArgument("field " + name + " holds " + reflect.TypeOf(v).String() + ", not " + reflect.TypeFor[T]().String())
	}
	return t, nil
}
