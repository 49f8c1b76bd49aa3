// Package dsl provides fluent builders for dejson shapes.
//
// Overview
//   - Builder API: declare the members of a JSON object with Object()/Field()/Build().
//   - Primitives: Bool()/Int32()/Int64()/Float32()/Float64()/String()/DateTime()/DateTimeOffset().
//   - Nullable(s): the null-tolerant variant of a scalar.
//   - ArrayOf(elem): a homogeneous array.
//   - JSON()/JSONObject(): capture a value as a Buffer or an *Object view.
//
// Example (quickstart)
//
//	package main
//
//	import (
//	    "github.com/reoring/dejson"
//	    g "github.com/reoring/dejson/dsl"
//	)
//
//	func main() {
//	    point := g.Object().
//	        Field("x", g.Int32()).
//	        Field("y", g.Int32()).
//	        MustBuild()
//	    shape := g.Object().
//	        Field("name", g.String()).
//	        Field("points", g.ArrayOf(point)).
//	        MustBuild()
//
//	    cache := dejson.NewCache()
//	    d, _ := cache.Compile(shape)
//	    im, _ := dejson.ImporterOf[*dejson.Record](d)
//	    rec, _ := im.Import(`{ name: square, points: [{ x: 0, y: 0 }, { x: 1, y: 1 }] }`)
//	    _ = rec
//	}
package dsl
