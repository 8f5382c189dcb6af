package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Fields holds the document fields a record does not model explicitly.
// Values are kept as raw JSON so they round-trip byte-for-byte.
type Fields map[string]json.RawMessage

// Clone returns a shallow copy. Raw values are never mutated in place, so
// sharing their backing arrays is safe.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// document returns a fresh map holding the extra fields, sized for n more keys.
func (f Fields) document(n int) map[string]any {
	doc := make(map[string]any, len(f)+n)
	for k, v := range f {
		doc[k] = v
	}
	return doc
}

// Patch is a partial document for update operations. Fields present overwrite
// the stored values; absent fields are retained.
type Patch map[string]json.RawMessage

// Has reports whether the patch sets key.
func (p Patch) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// decodeObject decodes data as a JSON object into raw fields.
func decodeObject(data []byte) (Fields, error) {
	var raw Fields
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	return raw, nil
}

// takeString removes key from raw and returns its value when it is a JSON
// string. Any other JSON type reads as unset.
func takeString(raw Fields, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	delete(raw, key)
	s, _ := rawString(v)
	return s
}

func rawString(v json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

// rawStrings decodes an array of strings; JSON null yields an empty slice.
func rawStrings(v json.RawMessage) ([]string, error) {
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal(v, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func nonEmpty(f Fields) Fields {
	if len(f) == 0 {
		return nil
	}
	return f
}
