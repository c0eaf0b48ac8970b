package validation

import (
	"bytes"
	"encoding/json"
)

// FieldErrors maps field names to messages, remembering insertion order so
// that every problem can be rendered in form order.
type FieldErrors struct {
	keys []string
	msgs map[string]string
}

// Add records msg for field. The first message for a field wins.
func (fe *FieldErrors) Add(field, msg string) {
	if fe.msgs == nil {
		fe.msgs = make(map[string]string)
	}
	if _, exists := fe.msgs[field]; exists {
		return
	}
	fe.keys = append(fe.keys, field)
	fe.msgs[field] = msg
}

// Check adds msg for field when ok is false.
func (fe *FieldErrors) Check(ok bool, field, msg string) {
	if !ok {
		fe.Add(field, msg)
	}
}

func (fe FieldErrors) Get(field string) (string, bool) {
	msg, ok := fe.msgs[field]
	return msg, ok
}

func (fe FieldErrors) Len() int {
	return len(fe.keys)
}

// Fields returns field names in insertion order.
func (fe FieldErrors) Fields() []string {
	out := make([]string, len(fe.keys))
	copy(out, fe.keys)
	return out
}

// Map returns an unordered copy.
func (fe FieldErrors) Map() map[string]string {
	out := make(map[string]string, len(fe.keys))
	for _, k := range fe.keys {
		out[k] = fe.msgs[k]
	}
	return out
}

// MarshalJSON writes a JSON object whose keys keep insertion order.
func (fe FieldErrors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range fe.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(fe.msgs[k])
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
