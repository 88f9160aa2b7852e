package resource

import (
	"bytes"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// mergeKeyTag marks a "<<" key that merges another mapping into this one.
const mergeKeyTag = "!!merge"

// Map is a YAML mapping that keeps its keys in document order when encoded.
type Map []Field

// Get returns the value stored under key.
func (m Map) Get(key string) (any, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the mapping as a compact object in document order.
func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, f.Key, f.Value); err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", f.Key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// mappingFields converts a mapping node into ordered fields. Keys merged in
// with "<<" take the merge point's position and yield to explicit keys.
func mappingFields(n *yaml.Node) ([]Field, error) {
	fields := make([]Field, 0, len(n.Content)/2)
	index := make(map[string]int, len(n.Content)/2)
	merged := make(map[string]bool)

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == mergeKeyTag {
			extra, err := mergeSources(valNode)
			if err != nil {
				return nil, err
			}
			for _, f := range extra {
				if _, ok := index[f.Key]; ok {
					continue
				}
				index[f.Key] = len(fields)
				merged[f.Key] = true
				fields = append(fields, f)
			}
			continue
		}

		key, err := keyString(keyNode)
		if err != nil {
			return nil, err
		}
		val, err := nodeValue(valNode)
		if err != nil {
			return nil, fmt.Errorf("decoding field %q: %w", key, err)
		}

		if j, ok := index[key]; ok {
			if !merged[key] {
				return nil, fmt.Errorf("%w: %q (line %d)", ErrDuplicateField, key, keyNode.Line)
			}
			fields[j].Value = val
			delete(merged, key)
			continue
		}
		index[key] = len(fields)
		fields = append(fields, Field{Key: key, Value: val})
	}
	return fields, nil
}

// mergeSources returns the fields of a merge value: one mapping or a
// sequence of mappings, earlier mappings taking precedence.
func mergeSources(n *yaml.Node) ([]Field, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.MappingNode:
		return mappingFields(n)
	case yaml.SequenceNode:
		var out []Field
		seen := make(map[string]bool)
		for _, item := range n.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("merge value on line %d is not a mapping", item.Line)
			}
			fields, err := mappingFields(item)
			if err != nil {
				return nil, err
			}
			for _, f := range fields {
				if !seen[f.Key] {
					seen[f.Key] = true
					out = append(out, f)
				}
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("merge value on line %d is not a mapping", n.Line)
	}
}

// nodeValue converts a node into a value encoding/json can handle. Mappings
// become Map so nested keys keep their document order.
func nodeValue(n *yaml.Node) (any, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.MappingNode:
		fields, err := mappingFields(n)
		if err != nil {
			return nil, err
		}
		return Map(fields), nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := nodeValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return scalarValue(v), nil
	default:
		return nil, fmt.Errorf("unsupported node on line %d", n.Line)
	}
}

// scalarValue maps values JSON cannot represent to null.
func scalarValue(v any) any {
	if f, ok := v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return nil
	}
	return v
}

func keyString(n *yaml.Node) (string, error) {
	n = resolveAlias(n)
	if n.Kind == yaml.ScalarNode {
		return n.Value, nil
	}
	v, err := nodeValue(n)
	if err != nil {
		return "", fmt.Errorf("decoding key on line %d: %w", n.Line, err)
	}
	return fmt.Sprint(v), nil
}
