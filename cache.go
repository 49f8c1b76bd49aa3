package dejson

import (
	"reflect"
	"sync"
)

// Cache memoizes compiled decoders by Go type and by shape. Entries are
// never evicted. A Cache is safe for concurrent use; concurrent first
// requests for the same key may both compile, and all callers observe the
// decoder that was stored first.
type Cache struct {
	opts    Options
	byType  sync.Map // reflect.Type -> *Decoder
	byShape sync.Map // canonical shape string -> *Decoder
}

// NewCache returns an empty cache. opts apply to analysis (registry, field
// naming) and to the text entry points of every decoder it produces.
func NewCache(opts ...Option) *Cache {
	return &Cache{opts: buildOptions(opts)}
}

// Options returns the options the cache was created with.
func (c *Cache) Options() Options { return c.opts }

// CompileType returns the decoder for t, analysing and compiling it on
// first use. Analysis failures are not cached.
func (c *Cache) CompileType(t reflect.Type) (*Decoder, error) {
	if v, ok := c.byType.Load(t); ok {
		return v.(*Decoder), nil
	}
	a := typeAnalyzer{reg: c.opts.Registry, naming: c.opts.FieldNaming, visiting: map[reflect.Type]bool{}}
	p, err := a.analyze(t)
	if err != nil {
		c.opts.Logger.Warn("prototype analysis failed", Fields{"type": t.String(), "error": err.Error()})
		return nil, err
	}
	return c.store(&c.byType, t, t.String(), newDecoder(p, c.opts)), nil
}

// Compile returns the decoder for s, analysing and compiling it on first
// use. Shapes with the same canonical form share a decoder.
func (c *Cache) Compile(s Shape) (*Decoder, error) {
	key := s.String()
	if v, ok := c.byShape.Load(key); ok {
		return v.(*Decoder), nil
	}
	p, err := analyzeShape(s, c.opts.Registry)
	if err != nil {
		c.opts.Logger.Warn("prototype analysis failed", Fields{"shape": key, "error": err.Error()})
		return nil, err
	}
	return c.store(&c.byShape, key, key, newDecoder(p, c.opts)), nil
}

func (c *Cache) store(m *sync.Map, key any, label string, d *Decoder) *Decoder {
	actual, loaded := m.LoadOrStore(key, d)
	if loaded {
		c.opts.Logger.Debug("concurrent compile discarded", Fields{"key": label})
	} else {
		c.opts.Logger.Debug("decoder compiled", Fields{"key": label, "type": d.Type().String()})
	}
	return actual.(*Decoder)
}

// Len returns the number of cached decoders.
func (c *Cache) Len() int {
	n := 0
	count := func(any, any) bool { n++; return true }
	c.byType.Range(count)
	c.byShape.Range(count)
	return n
}
