// Package dejson compiles shapes into JSON decoders.
//
// - A shape is a Go type (struct, slice, registered scalar) or a Shape value
//   built with ObjectOf/Field/Array/Type, the dsl package or yamlshape
// - Analysis and compilation run once per shape; the resulting Decoder is
//   cached in an application-owned Cache and is safe for concurrent use
// - Decoding pulls tokens from a Cursor over lenient (default) or strict text
// - Buffer captures one value for later decoding; Object is an ordered,
//   case-insensitive view over a captured JSON object
//
// Design policy:
// - Keep only public APIs in the root package; put token plumbing under internal/.
// - Token front ends live under source/, logger adapters under log/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  cache := dejson.NewCache()
//  im := dejson.MustFor[Point](cache)
//  p, err := im.Import(`{ x: 12, y: 34, label: origin }`)
//
//  d, err := cache.Compile(dejson.ObjectOf(dejson.Field("x", dejson.Type("int32"))))
//  v, err := d.Import(`{"x": 1}`)
//  x, err := dejson.RecordValue[int32](v.(*dejson.Record), "x")
//
// Errors are *Error values carrying a code, a JSON Pointer path and the input
// offset. Match them with errors.Is against the Err* sentinels.
package dejson
