package dejson_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dejson"
)

type empty struct{}

type onlyHidden struct {
	hidden int32
	Skip   string `json:"-"`
}

type node struct {
	Name string `json:"name"`
	Next *node  `json:"next"`
}

type left struct {
	R []right `json:"r"`
}

type right struct {
	L left `json:"l"`
}

func TestAnalyzeType_RejectsZeroFieldObjects(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		path string
	}{
		{"top", reflect.TypeFor[empty](), ""},
		{"hidden", reflect.TypeFor[onlyHidden](), ""},
		{"nested", reflect.TypeFor[struct {
			Inner empty `json:"inner"`
		}](), "/inner"},
		{"element", reflect.TypeFor[[]empty](), "/0"},
		{"nested element", reflect.TypeFor[struct {
			Items []*empty `json:"items"`
		}](), "/items/0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := dejson.AnalyzeType(tc.typ)
			e, ok := dejson.AsError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, dejson.CodeInvalidPrototype, e.Code)
			assert.Equal(t, tc.path, e.Path)
		})
	}
}

func TestAnalyzeType_RejectsCycles(t *testing.T) {
	_, err := dejson.AnalyzeType(reflect.TypeFor[node]())
	e, ok := dejson.AsError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, dejson.CodeInvalidPrototype, e.Code)
	assert.Equal(t, "/next", e.Path)

	_, err = dejson.AnalyzeType(reflect.TypeFor[left]())
	e, ok = dejson.AsError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, "/r/0/l", e.Path)
}

func TestAnalyzeType_SharedSubtypeIsNotACycle(t *testing.T) {
	type pair struct {
		A xy   `json:"a"`
		B xy   `json:"b"`
		C []xy `json:"c"`
	}
	p, err := dejson.AnalyzeType(reflect.TypeFor[pair]())
	require.NoError(t, err)
	assert.Len(t, p.Fields(), 3)
}

func TestAnalyzeType_UnsupportedField(t *testing.T) {
	type rec struct {
		Ch map[string]int `json:"ch"`
	}
	_, err := dejson.AnalyzeType(reflect.TypeFor[rec]())
	e, ok := dejson.AsError(err)
	require.True(t, ok)
	assert.Equal(t, dejson.CodeUnsupportedType, e.Code)
	assert.Equal(t, "/ch", e.Path)
}

func TestAnalyzeType_Kinds(t *testing.T) {
	type rec struct {
		N   int64          `json:"n"`
		P   *float64       `json:"p"`
		Obj *xy            `json:"obj"`
		Raw dejson.Buffer  `json:"raw"`
		Vw  *dejson.Object `json:"vw"`
		Xs  []string       `json:"xs"`
	}
	p, err := dejson.AnalyzeType(reflect.TypeFor[rec]())
	require.NoError(t, err)
	assert.Equal(t, dejson.PrototypeObject, p.Kind())
	assert.False(t, p.Nullable())

	f := p.Fields()
	require.Len(t, f, 6)
	assert.Equal(t, dejson.PrototypeScalar, f[0].Prototype.Kind())
	assert.Equal(t, "int64", f[0].Prototype.Primitive().Name())
	assert.False(t, f[0].Prototype.Nullable())
	assert.Equal(t, "float64?", f[1].Prototype.Primitive().Name())
	assert.True(t, f[1].Prototype.Nullable())
	assert.Equal(t, dejson.PrototypeObject, f[2].Prototype.Kind())
	assert.True(t, f[2].Prototype.Nullable())
	assert.Equal(t, dejson.PrototypePassthrough, f[3].Prototype.Kind())
	assert.Equal(t, dejson.PassthroughBuffer, f[3].Prototype.Form())
	assert.Equal(t, dejson.PassthroughObject, f[4].Prototype.Form())
	assert.True(t, f[4].Prototype.Nullable())
	assert.Equal(t, dejson.PrototypeArray, f[5].Prototype.Kind())
	assert.Equal(t, reflect.TypeFor[string](), f[5].Prototype.Elem().Type())
}

func TestResolveMemberName(t *testing.T) {
	type rec struct {
		Both      string `dejson:"fromDejson" json:"fromJSON"`
		JSONOnly  string `json:"fromJSON,omitempty"`
		Untagged  string
		EmptyTag  string `json:",omitempty"`
		Dash      string `json:"-"`
		DejsonOpt string `dejson:"opt,extra"`
	}
	typ := reflect.TypeFor[rec]()
	want := map[string]string{
		"Both":      "fromDejson",
		"JSONOnly":  "fromJSON",
		"Untagged":  "Untagged",
		"EmptyTag":  "EmptyTag",
		"Dash":      "-",
		"DejsonOpt": "opt",
	}
	for field, name := range want {
		sf, _ := typ.FieldByName(field)
		assert.Equal(t, name, dejson.ResolveMemberName(sf, dejson.NamingAsDeclared), field)
	}
	sf, _ := typ.FieldByName("EmptyTag")
	assert.Equal(t, "empty_tag", dejson.ResolveMemberName(sf, dejson.NamingSnake))
	sf, _ = typ.FieldByName("Untagged")
	assert.Equal(t, "untagged", dejson.ResolveMemberName(sf, dejson.NamingLowerCamel))
}

func TestFieldNaming_AppliesToDecoding(t *testing.T) {
	type person struct {
		FirstName string
		LastName  string
		BirthDay  dejson.DateTime `dejson:"born"`
	}
	cache := dejson.NewCache(dejson.WithFieldNaming(dejson.NamingKebab))
	got, err := dejson.MustFor[person](cache).Import(`{ first-name: Ada, last-name: Lovelace, born: '1815-12-10' }`)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, "Lovelace", got.LastName)
	assert.Equal(t, 1815, got.BirthDay.Year())
}

func TestAnalyze_Shapes(t *testing.T) {
	s := dejson.ObjectOf(
		dejson.Field("name", dejson.Type("string")),
		dejson.Field("age", dejson.Type(" int32? ")),
		dejson.Field("tags", dejson.Array(dejson.Type("string"))),
		dejson.Field("when", dejson.Scalar[time.Time]()),
		dejson.Field("score", dejson.Nullable[float64]()),
		dejson.Field("raw", dejson.JSON()),
		dejson.Field("meta", dejson.JSONObject()),
	)
	p, err := dejson.Analyze(s)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[*dejson.Record](), p.Type())

	f := p.Fields()
	require.Len(t, f, 7)
	assert.Equal(t, reflect.TypeFor[*int32](), f[1].Prototype.Type())
	assert.Equal(t, reflect.TypeFor[[]string](), f[2].Prototype.Type())
	assert.Equal(t, reflect.TypeFor[time.Time](), f[3].Prototype.Type())
	assert.Equal(t, reflect.TypeFor[*float64](), f[4].Prototype.Type())
	assert.Equal(t, reflect.TypeFor[dejson.Buffer](), f[5].Prototype.Type())
	assert.Equal(t, reflect.TypeFor[*dejson.Object](), f[6].Prototype.Type())
}

func TestAnalyze_ShapeErrors(t *testing.T) {
	cases := []struct {
		name  string
		shape dejson.Shape
		code  string
		path  string
	}{
		{"empty object", dejson.ObjectOf(), dejson.CodeInvalidPrototype, ""},
		{"nested empty", dejson.ObjectOf(dejson.Field("in", dejson.ObjectOf())), dejson.CodeInvalidPrototype, "/in"},
		{"element empty", dejson.Array(dejson.ObjectOf()), dejson.CodeInvalidPrototype, "/0"},
		{"duplicate", dejson.ObjectOf(dejson.Field("a", dejson.Type("bool")), dejson.Field("a", dejson.Type("int32"))), dejson.CodeInvalidPrototype, "/a"},
		{"unknown type", dejson.ObjectOf(dejson.Field("a/b", dejson.Type("decimal"))), dejson.CodeUnsupportedType, "/a~1b"},
		{"zero shape", dejson.Shape{}, dejson.CodeInvalidPrototype, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := dejson.Analyze(tc.shape)
			e, ok := dejson.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tc.code, e.Code)
			assert.Equal(t, tc.path, e.Path)
		})
	}
}

func TestShape_String(t *testing.T) {
	s := dejson.ObjectOf(
		dejson.Field("name", dejson.Type("string")),
		dejson.Field("tags", dejson.Array(dejson.Type("string"))),
		dejson.Field("raw", dejson.JSON()),
		dejson.Field("meta", dejson.JSONObject()),
	)
	assert.Equal(t, `{"name":string,"tags":[string],"raw":json,"meta":jsonobject}`, s.String())
	assert.Equal(t, dejson.ShapeObject, s.Kind())

	elem, ok := s.Fields()[1].Shape.Elem()
	require.True(t, ok)
	assert.Equal(t, "string", elem.String())
}

func TestDecode_ShapeRecord(t *testing.T) {
	d, err := dejson.NewCache().Compile(dejson.ObjectOf(
		dejson.Field("name", dejson.Type("string")),
		dejson.Field("tags", dejson.Array(dejson.Type("string"))),
		dejson.Field("pt", dejson.ObjectOf(dejson.Field("x", dejson.Type("int32")))),
		dejson.Field("missing", dejson.Type("int64?")),
	))
	require.NoError(t, err)

	v, err := d.Import(`{ pt: { x: 3, y: 4 }, name: widget, tags: [a, b] }`)
	require.NoError(t, err)
	rec := v.(*dejson.Record)

	assert.Equal(t, 4, rec.Len())
	assert.Equal(t, []string{"name", "tags", "pt", "missing"}, rec.Names())

	name, err := dejson.RecordValue[string](rec, "name")
	require.NoError(t, err)
	assert.Equal(t, "widget", name)

	tags, err := dejson.RecordValue[[]string](rec, "tags")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tags)

	pt, err := dejson.RecordValue[*dejson.Record](rec, "pt")
	require.NoError(t, err)
	x, err := dejson.RecordValue[int32](pt, "x")
	require.NoError(t, err)
	assert.Equal(t, int32(3), x)

	missing, err := dejson.RecordValue[*int64](rec, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = dejson.RecordValue[int32](rec, "name")
	assert.True(t, errors.Is(err, dejson.ErrInvalidArgument))
	_, err = dejson.RecordValue[int32](rec, "nope")
	assert.True(t, errors.Is(err, dejson.ErrKeyNotFound))

	first, err := rec.At(0)
	require.NoError(t, err)
	assert.Equal(t, "widget", first)
	_, err = rec.At(4)
	assert.True(t, errors.Is(err, dejson.ErrIndexOutOfRange))

	var seen []string
	for n := range rec.All() {
		seen = append(seen, n)
	}
	assert.Equal(t, rec.Names(), seen)
}

type base struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

type Audit struct {
	By string `json:"by"`
}

type account struct {
	base
	*Audit
	Name string `json:"name"`
}

type sideA struct {
	X int32 `json:"x"`
}

type sideB struct {
	X int32 `json:"x"`
}

type ambiguous struct {
	sideA
	sideB
}

type disambiguated struct {
	sideA
	sideB
	X string `json:"x"`
}

type Chain struct {
	*Chain
	V int32 `json:"v"`
}

func TestAnalyzeType_PromotesEmbeddedFields(t *testing.T) {
	p, err := dejson.AnalyzeType(reflect.TypeFor[account]())
	require.NoError(t, err)
	var names []string
	for _, f := range p.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "by", "name"}, names)

	im := dejson.MustFor[account](dejson.NewCache())
	got, err := im.Import(`{ id: 7, name: outer, by: ops }`)
	require.NoError(t, err)
	assert.Equal(t, int32(7), got.ID)
	assert.Equal(t, "outer", got.Name)
	assert.Equal(t, "", got.base.Name)
	require.NotNil(t, got.Audit)
	assert.Equal(t, "ops", got.By)

	got, err = im.Import(`{ id: 8 }`)
	require.NoError(t, err)
	assert.Equal(t, int32(8), got.ID)
	assert.Nil(t, got.Audit)
}

func TestAnalyzeType_RejectsDuplicateMemberNames(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
	}{
		{"tags", reflect.TypeFor[struct {
			A int32 `json:"x"`
			B int32 `json:"x"`
		}]()},
		{"tag and field name", reflect.TypeFor[struct {
			X int32
			Y int32 `dejson:"X"`
		}]()},
		{"embedded at same depth", reflect.TypeFor[ambiguous]()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := dejson.NewCache().CompileType(tc.typ)
			e, ok := dejson.AsError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, dejson.CodeInvalidPrototype, e.Code)
			assert.Contains(t, []string{"/x", "/X"}, e.Path)
		})
	}
}

func TestAnalyzeType_ShallowMemberHidesEmbedded(t *testing.T) {
	got, err := dejson.MustFor[disambiguated](dejson.NewCache()).Import(`{ x: hello }`)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.X)
	assert.Equal(t, int32(0), got.sideA.X)
}

func TestAnalyzeType_RejectsEmbeddedCycle(t *testing.T) {
	_, err := dejson.AnalyzeType(reflect.TypeFor[Chain]())
	assert.ErrorIs(t, err, dejson.ErrInvalidPrototype)
}
