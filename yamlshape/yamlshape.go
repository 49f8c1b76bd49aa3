// Package yamlshape reads dejson shapes from YAML (or JSON) documents.
//
// A mapping is an object whose members keep document order, a sequence
// holding exactly one item is an array of that item, and a scalar is a type
// name: bool, int32, int64, float32, float64, string, datetime,
// datetimeoffset (each optionally suffixed with "?"), json or jsonobject.
//
//	name: string
//	born: datetime?
//	tags: [string]
//	home:
//	  x: float64
//	  y: float64
package yamlshape

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/reoring/dejson"
	"gopkg.in/yaml.v3"
)

// Parse reads a single-document shape.
func Parse(data []byte) (dejson.Shape, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return dejson.Shape{}, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return dejson.Shape{}, invalid(&doc, "empty document")
	}
	return fromNode(doc.Content[0])
}

// ParseAll reads every document of a multi-document stream.
func ParseAll(data []byte) ([]dejson.Shape, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []dejson.Shape
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if len(doc.Content) == 0 {
			continue
		}
		s, err := fromNode(doc.Content[0])
		if err != nil {
			return nil, fmt.Errorf("yamlshape: document %d: %w", len(out)+1, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func fromNode(n *yaml.Node) (dejson.Shape, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.ScalarNode:
		switch name := strings.TrimSpace(n.Value); name {
		case "json":
			return dejson.JSON(), nil
		case "jsonobject":
			return dejson.JSONObject(), nil
		case "":
			return dejson.Shape{}, invalid(n, "missing type name")
		default:
			return dejson.Type(name), nil
		}
	case yaml.SequenceNode:
		if len(n.Content) != 1 {
			return dejson.Shape{}, invalid(n, fmt.Sprintf("array shape needs exactly one element shape, got %d", len(n.Content)))
		}
		elem, err := fromNode(n.Content[0])
		if err != nil {
			return dejson.Shape{}, err
		}
		return dejson.Array(elem), nil
	case yaml.MappingNode:
		fields := make([]dejson.ShapeField, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			s, err := fromNode(val)
			if err != nil {
				return dejson.Shape{}, err
			}
			fields = append(fields, dejson.Field(key.Value, s))
		}
		// an empty mapping is passed through; analysis rejects it
		return dejson.ObjectOf(fields...), nil
	}
	return dejson.Shape{}, invalid(n, "unsupported node")
}

func invalid(n *yaml.Node, reason string) error {
	return &dejson.Error{
		Code:    dejson.CodeInvalidPrototype,
		Message: fmt.Sprintf("line %d: %s", n.Line, reason),
		Offset:  -1,
		Params:  map[string]any{"line": n.Line, "column": n.Column},
	}
}
