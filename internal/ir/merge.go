package ir

import (
	"bytes"
	"encoding/json"
)

// member is one key/value pair of a JSON object, in document order.
type member struct {
	key   string
	value json.RawMessage
}

// MergeContent applies an upd patch to existing record content.
//
// A nil patch (no content key on the event) leaves base untouched.
// Otherwise the result is always a JSON object: the members of base (when
// base is an object) overlaid by the members of patch (when patch is an
// object). Overwritten keys keep their position and new keys are appended in
// patch order. Non-object values contribute no members.
func MergeContent(base, patch json.RawMessage) json.RawMessage {
	if patch == nil {
		return base
	}

	merged, _ := objectMembers(base)
	overlay, _ := objectMembers(patch)

	index := make(map[string]int, len(merged))
	for i, m := range merged {
		index[m.key] = i
	}
	for _, m := range overlay {
		if i, ok := index[m.key]; ok {
			merged[i].value = m.value
			continue
		}
		index[m.key] = len(merged)
		merged = append(merged, m)
	}

	return encodeMembers(merged)
}

// objectMembers splits a JSON object into its members in document order.
// Duplicate keys resolve last-wins at the first occurrence's position.
// Returns false if raw is not a JSON object.
func objectMembers(raw json.RawMessage) ([]member, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, false
	}

	var members []member
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := tok.(string)
		if !ok {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		value = compactRaw(value)
		if i, seen := index[key]; seen {
			members[i].value = value
			continue
		}
		index[key] = len(members)
		members = append(members, member{key: key, value: value})
	}

	return members, true
}

// encodeMembers writes members back out as a compact JSON object.
func encodeMembers(members []member) json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(encodeKey(m.key))
		buf.WriteByte(':')
		buf.Write(m.value)
	}
	buf.WriteByte('}')
	return json.RawMessage(buf.Bytes())
}

// encodeKey marshals an object key without HTML escaping.
func encodeKey(key string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail
	_ = enc.Encode(key)
	return bytes.TrimRight(buf.Bytes(), "\n")
}
