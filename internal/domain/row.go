package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Field is one key/value pair of a table row.
type Field struct {
	Key   string
	Value string
}

// Row is one entry of a module's example table: an ordered mapping from field
// name to text. Rows are heterogeneous, so there is no fixed column set and
// renderers must look keys up defensively. Field order is part of the content
// and is preserved through every encoding.
type Row []Field

// Well-known row keys. None of them is guaranteed to be present.
const (
	RowKeyCategory    = "category"
	RowKeyExample     = "example"
	RowKeyTurkish     = "turkish"
	RowKeyNote        = "note"
	RowKeyExplanation = "explanation"
)

// NewRow builds a row from alternating key/value pairs. It panics on an odd
// number of arguments; intended for tests and literals.
func NewRow(kv ...string) Row {
	if len(kv)%2 != 0 {
		panic("domain.NewRow: odd number of arguments")
	}
	r := make(Row, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		r = append(r, Field{Key: kv[i], Value: kv[i+1]})
	}
	return r
}

// Get returns the value for key and whether it is present.
func (r Row) Get(key string) (string, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Value returns the value for key, or "" if absent.
func (r Row) Value(key string) string {
	v, _ := r.Get(key)
	return v
}

// Has reports whether key is present.
func (r Row) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns field names in content order.
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of fields.
func (r Row) Len() int { return len(r) }

func (r Row) Category() string    { return r.Value(RowKeyCategory) }
func (r Row) Example() string     { return r.Value(RowKeyExample) }
func (r Row) Turkish() string     { return r.Value(RowKeyTurkish) }
func (r Row) Note() string        { return r.Value(RowKeyNote) }
func (r Row) Explanation() string { return r.Value(RowKeyExplanation) }

// MarshalJSON encodes the row as a JSON object in field order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, f.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping document key order.
func (r *Row) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("row: invalid JSON")
	}
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		*r = nil
		return nil
	}
	if !res.IsObject() {
		return fmt.Errorf("row: expected object, got %s", res.Type)
	}

	var (
		row  Row
		seen = make(map[string]struct{})
		err  error
	)
	res.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if _, dup := seen[k]; dup {
			err = fmt.Errorf("row: duplicate field %q", k)
			return false
		}
		if value.Type != gjson.String {
			err = fmt.Errorf("row field %q: expected string, got %s", k, value.Type)
			return false
		}
		seen[k] = struct{}{}
		row = append(row, Field{Key: k, Value: value.String()})
		return true
	})
	if err != nil {
		return err
	}
	*r = row
	return nil
}

// MarshalYAML encodes the row as a YAML mapping in field order.
func (r Row) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Value},
		)
	}
	return n, nil
}

// UnmarshalYAML decodes a YAML mapping, keeping document key order. Scalar
// values are taken verbatim, so `count: 3` yields the text "3".
func (r *Row) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*r = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("row: line %d: expected mapping", value.Line)
	}

	row := make(Row, 0, len(value.Content)/2)
	seen := make(map[string]struct{}, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return fmt.Errorf("row: line %d: expected scalar key", k.Line)
		}
		if _, dup := seen[k.Value]; dup {
			return fmt.Errorf("row: line %d: duplicate field %q", k.Line, k.Value)
		}
		if v.Kind != yaml.ScalarNode || v.Tag == "!!null" {
			return fmt.Errorf("row field %q: line %d: expected string", k.Value, v.Line)
		}
		seen[k.Value] = struct{}{}
		row = append(row, Field{Key: k.Value, Value: v.Value})
	}
	*r = row
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
