package dsl_test

import (
	"errors"
	"testing"

	"github.com/reoring/dejson"
	g "github.com/reoring/dejson/dsl"
)

func TestObjectBuilder_ImportsNestedShape(t *testing.T) {
	point := g.Object().
		Field("x", g.Int32()).
		Field("y", g.Int32()).
		MustBuild()
	shape := g.Object().
		Field("name", g.String()).
		Field("points", g.ArrayOf(point)).
		Field("note", g.Nullable(g.String())).
		MustBuild()

	d, err := dejson.NewCache().Compile(shape)
	if err != nil {
		t.Fatalf("compile err: %v", err)
	}
	im, err := dejson.ImporterOf[*dejson.Record](d)
	if err != nil {
		t.Fatalf("importer err: %v", err)
	}
	rec, err := im.Import(`{ name: square, points: [{ x: 0, y: 0 }, { x: 1, y: 2 }], note: null }`)
	if err != nil {
		t.Fatalf("import err: %v", err)
	}
	name, _ := dejson.RecordValue[string](rec, "name")
	if name != "square" {
		t.Fatalf("name want=square got=%q", name)
	}
	pts, err := dejson.RecordValue[[]*dejson.Record](rec, "points")
	if err != nil || len(pts) != 2 {
		t.Fatalf("points err=%v len=%d", err, len(pts))
	}
	y, _ := dejson.RecordValue[int32](pts[1], "y")
	if y != 2 {
		t.Fatalf("points[1].y want=2 got=%d", y)
	}
	note, _ := dejson.RecordValue[*string](rec, "note")
	if note != nil {
		t.Fatalf("note want=nil got=%q", *note)
	}
}

func TestObjectBuilder_EmptyObjectRejected(t *testing.T) {
	_, err := g.Object().Build()
	if !errors.Is(err, dejson.ErrInvalidPrototype) {
		t.Fatalf("want invalid_prototype, got %v", err)
	}
}

func TestObjectBuilder_NestedEmptyObjectRejected(t *testing.T) {
	_, err := g.Object().
		Field("inner", dejson.ObjectOf()).
		Build()
	e, ok := dejson.AsError(err)
	if !ok || e.Code != dejson.CodeInvalidPrototype {
		t.Fatalf("want invalid_prototype, got %v", err)
	}
	if e.Path != "/inner" {
		t.Fatalf("path want=/inner got=%q", e.Path)
	}
}

func TestObjectBuilder_UnknownTypeName(t *testing.T) {
	_, err := g.Object().Field("x", dejson.Type("decimal")).Build()
	if !errors.Is(err, dejson.ErrUnsupportedType) {
		t.Fatalf("want unsupported_type, got %v", err)
	}
}

func TestNullable_LeavesNonScalarsAlone(t *testing.T) {
	arr := g.ArrayOf(g.Int32())
	if got := g.Nullable(arr); got.String() != arr.String() {
		t.Fatalf("array shape changed: %s", got)
	}
	if got := g.Nullable(g.Nullable(g.Int64())).String(); got != "int64?" {
		t.Fatalf("double nullable want=int64? got=%s", got)
	}
}
