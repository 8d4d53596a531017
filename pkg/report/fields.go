package report

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Field is one key/value pair of a report. Reports are ordered
// structures; serializers must emit fields in the order they were added.
type Field struct {
	Key   string
	Value any
}

// Fields is an ordered report structure. Values may themselves be Fields
// (nested sections) or slices of Fields (tables).
type Fields []Field

// Get returns the value for a key.
func (f Fields) Get(key string) (any, bool) {
	for _, fld := range f {
		if fld.Key == key {
			return fld.Value, true
		}
	}
	return nil, false
}

// MarshalYAML emits the fields as a mapping that preserves insertion
// order.
func (f Fields) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, fld := range f {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: fld.Key}
		val := &yaml.Node{}
		if err := val.Encode(fld.Value); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, key, val)
	}
	return n, nil
}

// MarshalJSON emits the fields as an object that preserves insertion
// order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fld := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fld.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(fld.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
