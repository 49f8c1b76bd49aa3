package dsl

import (
	"github.com/reoring/dejson"
)

type objectBuilder struct {
	fields []dejson.ShapeField
	opts   []dejson.Option
}

// Object creates a new object builder.
func Object() *objectBuilder { return &objectBuilder{} }

// Field appends a member. Declaration order is kept.
func (b *objectBuilder) Field(name string, s dejson.Shape) *objectBuilder {
	b.fields = append(b.fields, dejson.Field(name, s))
	return b
}

// Fields appends several members at once.
func (b *objectBuilder) Fields(fields ...dejson.ShapeField) *objectBuilder {
	b.fields = append(b.fields, fields...)
	return b
}

// WithOptions sets the options Build validates against (for example a custom
// registry holding extra scalar names).
func (b *objectBuilder) WithOptions(opts ...dejson.Option) *objectBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build returns the object shape after checking it analyses cleanly.
func (b *objectBuilder) Build() (dejson.Shape, error) {
	s := dejson.ObjectOf(b.fields...)
	if _, err := dejson.Analyze(s, b.opts...); err != nil {
		return dejson.Shape{}, err
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() dejson.Shape {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
