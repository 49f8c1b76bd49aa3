package dsl

import "github.com/reoring/dejson"

// ArrayOf returns an array shape with the given element shape.
// Example: Field("tags", g.ArrayOf(g.String()))
func ArrayOf(elem dejson.Shape) dejson.Shape { return dejson.Array(elem) }
