// Package resource decodes single Insomnia resource documents from YAML and
// encodes them in the JSON shape the documentation site expects.
package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tessro/insomnia-documenter/internal/naming"
)

// Field names with special meaning.
const (
	// TypeKey is the free-text category label in a source document.
	TypeKey = "type"
	// TagKey holds the normalized category in the encoded resource.
	TagKey = "_type"
)

// Decoding errors.
var (
	ErrEmptyDocument  = errors.New("resource: empty document")
	ErrNotMapping     = errors.New("resource: document is not a mapping")
	ErrMissingType    = errors.New("resource: missing type field")
	ErrInvalidType    = errors.New("resource: type field is not a string")
	ErrDuplicateField = errors.New("resource: duplicate field")

	ErrMultipleDocuments = errors.New("resource: expected a single document")
)

// Field is a single top-level key of a resource, in document order.
type Field struct {
	Key   string
	Value any
}

// Resource is one configuration entity. It carries every field of the source
// document except the raw type label, plus the normalized tag. A Resource is
// never modified after construction; the With* methods return copies.
type Resource struct {
	fields []Field
	tag    string
}

// New builds a Resource from a raw type label and the remaining fields.
func New(typeLabel string, fields []Field) Resource {
	kept := make([]Field, 0, len(fields))
	for _, f := range fields {
		if f.Key == TypeKey || f.Key == TagKey {
			continue
		}
		kept = append(kept, f)
	}
	return Resource{fields: kept, tag: naming.ToSnake(typeLabel)}
}

// FromYAML decodes a single YAML document into a Resource. Input holding
// more than one document is rejected rather than truncated.
func FromYAML(data []byte) (Resource, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Resource{}, ErrEmptyDocument
		}
		return Resource{}, err
	}
	if err := dec.Decode(&yaml.Node{}); !errors.Is(err, io.EOF) {
		if err != nil {
			return Resource{}, err
		}
		return Resource{}, ErrMultipleDocuments
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Resource{}, ErrEmptyDocument
	}

	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return Resource{}, ErrNotMapping
	}

	fields, err := mappingFields(root)
	if err != nil {
		return Resource{}, err
	}

	for _, f := range fields {
		if f.Key != TypeKey {
			continue
		}
		label, ok := f.Value.(string)
		if !ok {
			return Resource{}, ErrInvalidType
		}
		return New(label, fields), nil
	}
	return Resource{}, ErrMissingType
}

// Type returns the normalized category tag.
func (r Resource) Type() string {
	return r.tag
}

// Fields returns a copy of the resource's fields in document order.
func (r Resource) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Get returns the value of a top-level field.
func (r Resource) Get(key string) (any, bool) {
	if key == TagKey {
		return r.tag, true
	}
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// With returns a copy of r with key set to value. An existing field keeps its
// position; a new field is appended.
func (r Resource) With(key string, value any) Resource {
	fields := r.Fields()
	for i := range fields {
		if fields[i].Key == key {
			fields[i].Value = value
			return Resource{fields: fields, tag: r.tag}
		}
	}
	return Resource{fields: append(fields, Field{Key: key, Value: value}), tag: r.tag}
}

// MarshalJSON encodes the resource as a compact object. Fields appear in
// document order, followed by the normalized tag.
func (r Resource) MarshalJSON() ([]byte, error) {
	fields := make(Map, 0, len(r.fields)+1)
	fields = append(fields, r.fields...)
	fields = append(fields, Field{Key: TagKey, Value: r.tag})
	return fields.MarshalJSON()
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := Marshal(key)
	if err != nil {
		return err
	}
	v, err := Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// Marshal encodes v as compact JSON without escaping HTML characters, which
// keeps embedded markup in descriptions readable in the output files.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
