package transform

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/wncli/wn/internal/jsast"
	"github.com/wncli/wn/internal/jsprint"
)

// Object is a JSON object that keeps keys in insertion order. Values are
// strings, float64 or int numbers, bools, nil, []any and *Object.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set stores a value. An existing key keeps its position.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// MarshalJSON implements json.Marshaler.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalJSON(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalJSON(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalJSON encodes v compactly without HTML escaping.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// configValue converts a field initializer into a JSON value. The
// initializer is printed in JSON mode and read back through a YAML node
// tree, which keeps mapping keys in source order.
func configValue(x jsast.Expr) (any, error) {
	if x == nil {
		return nil, fmt.Errorf("field has no value")
	}
	if !isLiteral(x) {
		return nil, fmt.Errorf("value is not a JSON literal")
	}
	text := jsprint.Expr(x, jsprint.Options{Concise: true, JSON: true})
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", text, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty value")
	}
	return nodeValue(doc.Content[0])
}

func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.ScalarNode:
		if n.ShortTag() == "!!str" {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("unsupported node kind %d", n.Kind)
}

// isLiteral reports whether x only contains constructs representable in
// JSON.
func isLiteral(x jsast.Expr) bool {
	switch n := x.(type) {
	case *jsast.String, *jsast.Bool, *jsast.Null:
		return true
	case *jsast.Number:
		return isDecimal(n.Raw)
	case *jsast.Unary:
		num, ok := n.X.(*jsast.Number)
		return (n.Op == "-" || n.Op == "+") && ok && isDecimal(num.Raw)
	case *jsast.Array:
		for _, el := range n.Elems {
			if el == nil || !isLiteral(el) {
				return false
			}
		}
		return true
	case *jsast.Object:
		for _, p := range n.Props {
			prop, ok := p.(*jsast.Property)
			if !ok || prop.Computed || prop.Kind != jsast.PropInit || prop.Shorthand {
				return false
			}
			if jsast.PropName(prop.Key) == "" && !isEmptyStringKey(prop.Key) {
				return false
			}
			if !isLiteral(prop.Value) {
				return false
			}
		}
		return true
	}
	return false
}

func isEmptyStringKey(key jsast.Expr) bool {
	s, ok := key.(*jsast.String)
	return ok && s.Value == ""
}

func isDecimal(raw string) bool {
	if raw == "" {
		return false
	}
	for _, c := range raw {
		switch {
		case c >= '0' && c <= '9', c == '.', c == 'e', c == 'E', c == '+', c == '-':
		default:
			return false
		}
	}
	return true
}
