package fieldmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Map is a string-keyed map that remembers insertion order. It is the unit
// of canonical encoding: business bodies, sign maps and decrypted responses
// are all Maps.
//
// Map is not safe for concurrent mutation; each call builds its own.
type Map struct {
	keys   []string
	values map[string]any
}

// New creates an empty Map.
func New() *Map {
	return &Map{values: make(map[string]any)}
}

// Set stores value under key. If the key already exists the value is
// overwritten in place and the key keeps its original position.
func (m *Map) Set(key string, value any) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// GetString returns the value under key if it is a string.
func (m *Map) GetString(key string) (string, bool) {
	v, ok := m.values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Delete removes key and its position. Removing an absent key is a no-op.
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Merge appends every entry of other, in other's order. Existing keys are
// overwritten in place.
func (m *Map) Merge(other *Map) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		m.Set(k, other.values[k])
	}
}

// Encode renders the map as canonical JSON: UTF-8, no whitespace, keys in
// insertion order, non-ASCII and HTML characters unescaped. The output is
// byte-identical across calls for the same map.
func (m *Map) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler using the canonical encoding.
func (m *Map) MarshalJSON() ([]byte, error) {
	return m.Encode()
}

// UnmarshalJSON implements json.Unmarshaler, preserving key order.
func (m *Map) UnmarshalJSON(data []byte) error {
	parsed, err := Decode(data)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case *Map:
		if val == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		for i, k := range val.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeScalar(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, val.values[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case json.Number:
		buf.WriteString(string(val))
	case map[string]any:
		// A plain map has no defined order and would not encode
		// deterministically.
		return fmt.Errorf("canonical encode: plain map values are not supported, use *fieldmap.Map")
	default:
		return writeScalar(buf, v)
	}
	return nil
}

// writeScalar marshals strings, bools and numbers without HTML escaping and
// without the trailing newline json.Encoder appends.
func writeScalar(buf *bytes.Buffer, v any) error {
	var scratch bytes.Buffer
	enc := json.NewEncoder(&scratch)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("canonical encode: %w", err)
	}
	buf.Write(bytes.TrimRight(scratch.Bytes(), "\n"))
	return nil
}

// Decode parses canonical (or any) JSON object text into a Map, preserving
// key order. Nested objects become *Map, arrays []any, and numbers
// json.Number. A malformed document returns an error and never a partial
// map.
func Decode(data []byte) (*Map, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("canonical decode: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, fmt.Errorf("canonical decode: top-level value is not an object")
	}

	m, err := decodeObject(dec)
	if err != nil {
		return nil, fmt.Errorf("canonical decode: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("canonical decode: trailing data after object")
	}
	return m, nil
}

func decodeObject(dec *json.Decoder) (*Map, error) {
	m := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		// Duplicate keys overwrite in place, keeping the first position.
		m.Set(key, value)
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, err
	}
	return m, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := []any{}
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return nil, err
	}
	return arr, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); ok {
		switch delim {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", delim.String())
		}
	}
	return tok, nil
}
