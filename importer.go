package dejson

import (
	"bytes"
	"io"
	"reflect"
)

// Decoder is a compiled decoder for one prototype. It is immutable and safe
// for concurrent use.
type Decoder struct {
	proto  *Prototype
	decode decodeFunc
	opts   Options
}

func newDecoder(p *Prototype, o Options) *Decoder {
	return &Decoder{proto: p, decode: compile(p), opts: o}
}

// Prototype returns the analysed prototype the decoder was compiled from.
func (d *Decoder) Prototype() *Prototype { return d.proto }

// Type returns the Go type of decoded values.
func (d *Decoder) Type() reflect.Type { return d.proto.typ }

// run decodes one value. When whole is set the input must end after it.
func (d *Decoder) run(c *Cursor, whole bool) (reflect.Value, error) {
	ok, err := c.MoveToContent()
	if err != nil {
		return reflect.Value{}, err
	}
	if !ok {
		return reflect.Value{}, newError(CodeUnexpectedEOF, nil)
	}
	v := reflect.New(d.proto.typ).Elem()
	if err := d.decode(c, v); err != nil {
		return reflect.Value{}, err
	}
	if whole {
		if err := c.expectEOF(); err != nil {
			return reflect.Value{}, err
		}
	}
	return v, nil
}

func (d *Decoder) textCursor(text string) *Cursor {
	return NewTextCursor(text, WithSyntax(d.opts.Syntax), WithMaxDepth(d.opts.MaxDepth), WithLogger(d.opts.Logger))
}

func (d *Decoder) readerCursor(r io.Reader) *Cursor {
	return NewReaderCursor(r, WithSyntax(d.opts.Syntax), WithMaxDepth(d.opts.MaxDepth), WithLogger(d.opts.Logger))
}

func unwrap(v reflect.Value, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Import decodes text, which must hold exactly one value.
func (d *Decoder) Import(text string) (any, error) { return unwrap(d.run(d.textCursor(text), true)) }

// ImportBytes decodes b, which must hold exactly one value.
func (d *Decoder) ImportBytes(b []byte) (any, error) {
	return unwrap(d.run(d.readerCursor(bytes.NewReader(b)), true))
}

// ImportReader decodes all of r, which must hold exactly one value.
func (d *Decoder) ImportReader(r io.Reader) (any, error) {
	return unwrap(d.run(d.readerCursor(r), true))
}

// ImportBuffer decodes a previously captured value.
func (d *Decoder) ImportBuffer(b Buffer) (any, error) { return unwrap(d.run(b.Cursor(), true)) }

// ImportCursor decodes the next value from c and leaves c positioned after it.
func (d *Decoder) ImportCursor(c *Cursor) (any, error) { return unwrap(d.run(c, false)) }

// Importer is a typed façade over a Decoder producing T.
type Importer[T any] struct {
	d *Decoder
}

// ImporterOf wraps d, failing with InvalidArgument when d does not produce T.
func ImporterOf[T any](d *Decoder) (*Importer[T], error) {
	if want := reflect.TypeFor[T](); d.Type() != want {
		return nil, errArgument("decoder produces " + d.Type().String() + ", not " + want.String())
	}
	return &Importer[T]{d: d}, nil
}

// For returns the importer for T from cache, compiling it on first use.
func For[T any](cache *Cache) (*Importer[T], error) {
	d, err := cache.CompileType(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return &Importer[T]{d: d}, nil
}

// MustFor is like For but panics on error.
func MustFor[T any](cache *Cache) *Importer[T] {
	im, err := For[T](cache)
	if err != nil {
		panic(err)
	}
	return im
}

// Decoder returns the underlying compiled decoder.
func (im *Importer[T]) Decoder() *Decoder { return im.d }

func typed[T any](v reflect.Value, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	return v.Interface().(T), nil
}

// Import decodes text, which must hold exactly one value.
func (im *Importer[T]) Import(text string) (T, error) {
	return typed[T](im.d.run(im.d.textCursor(text), true))
}

// ImportBytes decodes b, which must hold exactly one value.
func (im *Importer[T]) ImportBytes(b []byte) (T, error) {
	return typed[T](im.d.run(im.d.readerCursor(bytes.NewReader(b)), true))
}

// ImportReader decodes all of r, which must hold exactly one value.
func (im *Importer[T]) ImportReader(r io.Reader) (T, error) {
	return typed[T](im.d.run(im.d.readerCursor(r), true))
}

// ImportBuffer decodes a previously captured value.
func (im *Importer[T]) ImportBuffer(b Buffer) (T, error) {
	return typed[T](im.d.run(b.Cursor(), true))
}

// ImportCursor decodes the next value from c and leaves c positioned after it.
func (im *Importer[T]) ImportCursor(c *Cursor) (T, error) {
	return typed[T](im.d.run(c, false))
}

// ArrayOf returns an importer for JSON arrays whose elements im decodes.
func ArrayOf[T any](im *Importer[T]) *Importer[[]T] {
	p := arrayPrototype(im.d.proto)
	return &Importer[[]T]{d: &Decoder{proto: p, decode: compileArray(p, im.d.decode), opts: im.d.opts}}
}
