package opensearch

import (
	"bytes"
	"encoding/json"
	"math"
)

// Document is a decoded JSON object as sent to or received from the cluster.
// Numbers in responses are decoded as json.Number.
type Document map[string]any

// Object returns the nested object stored under key.
func (d Document) Object(key string) (Document, bool) {
	switch v := d[key].(type) {
	case map[string]any:
		return Document(v), true
	case Document:
		return v, true
	}
	return nil, false
}

// String returns the string stored under key.
func (d Document) String(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok
}

// Bool returns the boolean stored under key, or def if it is absent or not a boolean.
func (d Document) Bool(key string, def bool) bool {
	if b, ok := d[key].(bool); ok {
		return b
	}
	return def
}

// Int64 returns the integral number stored under key.
func (d Document) Int64(key string) (int64, bool) {
	switch v := d[key].(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

// decodeDocument parses a response body. An empty body yields an empty document.
func decodeDocument(raw []byte) (Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Document{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// encodeJSON marshals v on a single line without HTML escaping.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
