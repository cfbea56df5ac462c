package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// FieldValues is an ordered field-name → value mapping. Iteration follows
// insertion order; setting an existing key keeps its original position.
// The zero value is ready to use.
type FieldValues struct {
	keys   []string
	values map[string]string
}

// NewFieldValues builds a FieldValues from alternating key, value arguments.
func NewFieldValues(pairs ...string) FieldValues {
	var fv FieldValues
	for i := 0; i+1 < len(pairs); i += 2 {
		fv.Set(pairs[i], pairs[i+1])
	}
	return fv
}

// Set stores value under key.
func (f *FieldValues) Set(key, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value for key and whether it was present.
func (f FieldValues) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// ValueOf returns the value for key, or "" when absent.
func (f FieldValues) ValueOf(key string) string {
	return f.values[key]
}

// Delete removes key, preserving the order of the remaining keys.
func (f *FieldValues) Delete(key string) {
	if _, ok := f.values[key]; !ok {
		return
	}
	delete(f.values, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i:i], f.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (f FieldValues) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Len returns the number of entries.
func (f FieldValues) Len() int {
	return len(f.keys)
}

// Map returns an unordered copy.
func (f FieldValues) Map() map[string]string {
	out := make(map[string]string, len(f.keys))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy.
func (f FieldValues) Clone() FieldValues {
	var out FieldValues
	for _, k := range f.keys {
		out.Set(k, f.values[k])
	}
	return out
}

// MarshalJSON encodes the values as a JSON object in insertion order.
func (f FieldValues) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the document's key order.
// Non-string scalars are kept in their literal JSON form; null becomes "".
func (f *FieldValues) UnmarshalJSON(data []byte) error {
	*f = FieldValues{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("field values: expected JSON object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.New("field values: expected string key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field values: key %q: %w", key, err)
		}
		f.Set(key, rawToString(raw))
	}
	_, err = dec.Token()
	return err
}

func rawToString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}

type fieldPair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Value implements driver.Valuer. JSONB does not keep object key order, so
// values are stored as an ordered array of name/value pairs.
func (f FieldValues) Value() (driver.Value, error) {
	pairs := make([]fieldPair, 0, len(f.keys))
	for _, k := range f.keys {
		pairs = append(pairs, fieldPair{Name: k, Value: f.values[k]})
	}
	return json.Marshal(pairs)
}

// Scan implements sql.Scanner for the pair-array encoding written by Value.
func (f *FieldValues) Scan(src interface{}) error {
	*f = FieldValues{}
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("field values: cannot scan %T", src)
	}
	var pairs []fieldPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("field values: %w", err)
	}
	for _, p := range pairs {
		f.Set(p.Name, p.Value)
	}
	return nil
}
