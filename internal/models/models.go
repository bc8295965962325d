package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Raw is the Open-Meteo response body decoded as a generic mapping.
// "current" holds scalars, "daily" and "hourly" hold parallel arrays keyed by field name.
type Raw map[string]interface{}

// Section returns the named sub-mapping, or nil if it is absent or not an object
func (r Raw) Section(name string) map[string]interface{} {
	section, _ := r[name].(map[string]interface{})
	return section
}

// Payload is the compact document written to weather.json
type Payload struct {
	Meta    Meta     `json:"meta"`
	Current Record   `json:"current"`
	Daily   []Record `json:"daily"`
	Hourly  []Record `json:"hourly,omitempty"`
}

// Meta describes where and when a payload was produced
type Meta struct {
	Source       string  `json:"source"`
	Place        string  `json:"place,omitempty"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Timezone     string  `json:"timezone"`
	GeneratedUTC string  `json:"generated_utc"`
}

// Field is a single key/value pair of a Record. A nil Value encodes as JSON null.
type Field struct {
	Key   string
	Value interface{}
}

// Record is a JSON object that keeps its keys in insertion order
type Record []Field

// Get returns the value stored under key
func (r Record) Get(key string) (interface{}, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes the fields in order, without HTML escaping
func (r Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(f.Key); err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", f.Key, err)
		}
		buf.Truncate(buf.Len() - 1) // Encode appends a newline
		buf.WriteByte(':')
		if err := enc.Encode(f.Value); err != nil {
			return nil, fmt.Errorf("failed to encode value of %q: %w", f.Key, err)
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object back, keeping the order of its keys
func (r *Record) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*r = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}

	out := Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record: expected string key, got %v", tok)
		}

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("record: failed to decode %q: %w", key, err)
		}
		out = append(out, Field{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = out
	return nil
}

// Snapshot is an encoded payload handed to the optional sinks
type Snapshot struct {
	Profile      string
	GeneratedUTC string
	DailyEntries int
	Data         []byte
}
