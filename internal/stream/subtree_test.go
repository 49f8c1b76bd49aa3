package stream

import (
	"io"
	"testing"

	eng "github.com/reoring/dejson/internal/engine"
)

func tokens(kinds ...eng.Kind) []eng.Token {
	out := make([]eng.Token, len(kinds))
	for i, k := range kinds {
		out[i] = eng.Token{Kind: k, Offset: int64(i)}
	}
	return out
}

func TestCollectStopsAtSubtreeEnd(t *testing.T) {
	all := tokens(eng.KindBeginArray, eng.KindBeginObject, eng.KindKey, eng.KindNull, eng.KindEndObject, eng.KindEndArray, eng.KindNumber)
	inner := eng.NewSliceSource(all[1:])
	p := NewPreloadedSource(inner, all[0])

	got, err := p.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("got %d tokens", len(got))
	}
	for _, tok := range got {
		if tok.Offset != -1 {
			t.Fatalf("offset not reset: %+v", tok)
		}
	}
	rest, err := inner.NextToken()
	if err != nil || rest.Kind != eng.KindNumber {
		t.Fatalf("inner should be positioned after the subtree, got %+v, %v", rest, err)
	}
	if _, err := p.NextToken(); err != io.EOF {
		t.Fatalf("want io.EOF after subtree, got %v", err)
	}
}

func TestScalarSubtree(t *testing.T) {
	p := NewPreloadedSource(eng.NewSliceSource(tokens(eng.KindNumber)), eng.Token{Kind: eng.KindString})
	got, err := p.Collect()
	if err != nil || len(got) != 1 {
		t.Fatalf("Collect = %v, %v", got, err)
	}
}

func TestMemberSubtreeIncludesValue(t *testing.T) {
	inner := eng.NewSliceSource(tokens(eng.KindBeginArray, eng.KindEndArray, eng.KindKey))
	p := NewPreloadedSource(inner, eng.Token{Kind: eng.KindKey, String: "k"})
	if err := p.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	next, err := inner.NextToken()
	if err != nil || next.Kind != eng.KindKey {
		t.Fatalf("got %+v, %v", next, err)
	}
}

func TestTruncatedSubtree(t *testing.T) {
	p := NewPreloadedSource(eng.NewSliceSource(tokens(eng.KindNull)), eng.Token{Kind: eng.KindBeginArray})
	if err := p.Drain(); err != io.ErrUnexpectedEOF {
		t.Fatalf("want io.ErrUnexpectedEOF, got %v", err)
	}
}
