package models

import (
	"bytes"
	"encoding/json"
)

// Document is an opaque JSON object kept byte-for-byte as it was received.
//
// It holds third-party payloads (the credential file) whose schema we do not
// own; key order and number formatting survive a store round trip;
// only whitespace may change.
type Document []byte

// IsEmpty reports whether the document carries no payload. null and {} count
// as empty.
func (d Document) IsEmpty() bool {
	t := bytes.TrimSpace(d)
	if len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return true
	}
	if t[0] != '{' {
		return false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(t, &m); err != nil {
		return false
	}
	return len(m) == 0
}

// Compact returns the document as single-line JSON.
func (d Document) Compact() ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON writes the raw payload, or {} when empty.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.IsEmpty() {
		return []byte("{}"), nil
	}
	return d.Compact()
}

// UnmarshalJSON keeps a copy of the raw payload.
func (d *Document) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*d = nil
		return nil
	}
	*d = append((*d)[:0], b...)
	return nil
}
