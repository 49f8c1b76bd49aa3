package stream

import (
	"io"

	eng "github.com/reoring/dejson/internal/engine"
)

// PreloadedSource is a subtree source that first returns a preloaded token
// (typically the first token of a value already peeked by a cursor) and then
// continues to stream the remaining tokens for the same subtree from the
// underlying source. It stops after the subtree end is reached, returning
// io.EOF afterwards. If inner ends before the subtree closes, the error is
// io.ErrUnexpectedEOF.
type PreloadedSource struct {
	inner       eng.TokenSource
	preloaded   eng.Token
	depth       int
	done        bool
	firstServed bool
}

// NewPreloadedSource constructs a subtree source that will return the provided
// first token before consuming further tokens from inner. The subtree boundary
// is determined by matching container begin/end pairs starting from the first
// token.
func NewPreloadedSource(inner eng.TokenSource, first eng.Token) *PreloadedSource {
	return &PreloadedSource{inner: inner, preloaded: first}
}

func (p *PreloadedSource) NextToken() (eng.Token, error) {
	if p.done {
		return eng.Token{}, io.EOF
	}
	var tok eng.Token
	if !p.firstServed {
		p.firstServed = true
		tok = p.preloaded
	} else {
		t, err := p.inner.NextToken()
		if err == io.EOF {
			return eng.Token{}, io.ErrUnexpectedEOF
		}
		if err != nil {
			return eng.Token{}, err
		}
		tok = t
	}
	switch {
	case eng.IsBegin(tok.Kind):
		p.depth++
	case eng.IsEnd(tok.Kind):
		p.depth--
	}
	// a key never completes a subtree; its value follows
	if p.depth <= 0 && tok.Kind != eng.KindKey {
		p.done = true
	}
	return tok, nil
}

func (p *PreloadedSource) Location() int64 { return p.inner.Location() }

// Drain consumes the remaining tokens of the subtree.
func (p *PreloadedSource) Drain() error {
	for {
		if _, err := p.NextToken(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// Collect consumes the remaining tokens of the subtree and returns them in a
// freshly allocated slice. Offsets are reset to -1 so the copy compares by
// content only.
func (p *PreloadedSource) Collect() ([]eng.Token, error) {
	out := make([]eng.Token, 0, 8)
	for {
		t, err := p.NextToken()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		t.Offset = -1
		out = append(out, t)
	}
}
