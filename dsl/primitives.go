package dsl

import (
	"strings"

	"github.com/reoring/dejson"
)

func Bool() dejson.Shape           { return dejson.Type("bool") }
func Int32() dejson.Shape          { return dejson.Type("int32") }
func Int64() dejson.Shape          { return dejson.Type("int64") }
func Float32() dejson.Shape        { return dejson.Type("float32") }
func Float64() dejson.Shape        { return dejson.Type("float64") }
func String() dejson.Shape         { return dejson.Type("string") }
func DateTime() dejson.Shape       { return dejson.Type("datetime") }
func DateTimeOffset() dejson.Shape { return dejson.Type("datetimeoffset") }

// JSON captures any value as a dejson.Buffer.
func JSON() dejson.Shape { return dejson.JSON() }

// JSONObject captures an object (or null) as a *dejson.Object.
func JSONObject() dejson.Shape { return dejson.JSONObject() }

// Nullable returns the null-tolerant variant of a named scalar shape. Other
// shapes are returned unchanged.
func Nullable(s dejson.Shape) dejson.Shape {
	if s.Kind() != dejson.ShapeScalar {
		return s
	}
	name := s.String()
	if strings.HasPrefix(name, "go:") || strings.HasSuffix(name, "?") {
		return s
	}
	return dejson.Type(name + "?")
}
