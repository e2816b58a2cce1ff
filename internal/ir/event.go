package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ParseEvent extracts a valid envelope from raw reply text.
//
// The second return value is false for anything that is not a well-formed
// envelope: unparseable JSON, non-objects, a v other than 1, an unknown op,
// upd/del without a string id, or ins without a content key. The content
// itself is never inspected. ParseEvent is total over all inputs.
func ParseEvent(text string) (Event, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil || fields == nil {
		return Event{}, false
	}

	v, ok := numberLiteral(fields["v"])
	if !ok {
		return Event{}, false
	}
	if f, err := v.Float64(); err != nil || f != EventVersion {
		return Event{}, false
	}

	opStr, ok := stringLiteral(fields["op"])
	if !ok || !Op(opStr).Valid() {
		return Event{}, false
	}

	ev := Event{V: EventVersion, Op: Op(opStr)}

	// upd/del must name their target. A non-string id on ins is dropped.
	if id, ok := stringLiteral(fields["id"]); ok {
		ev.ID = &id
	} else if ev.Op != OpInsert {
		return Event{}, false
	}

	if rawContent, ok := fields["content"]; ok {
		ev.Content = compactRaw(rawContent)
	} else if ev.Op == OpInsert {
		return Event{}, false
	}

	if ts, ok := integerLiteral(fields["ts"]); ok {
		ev.TS = &ts
	}

	return ev, true
}

// IsEvent reports whether text carries a valid envelope.
func IsEvent(text string) bool {
	_, ok := ParseEvent(text)
	return ok
}

// EncodeEvent serializes an event to compact JSON suitable for reply text.
// Field order is v, op, id, content, ts; HTML characters are not escaped.
func EncodeEvent(ev Event) ([]byte, error) {
	if ev.Content != nil && !json.Valid(ev.Content) {
		return nil, fmt.Errorf("encode event: content is not valid JSON")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ev); err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}

	// Encoder adds a trailing newline
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// stringLiteral decodes raw only if it is a JSON string.
func stringLiteral(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// numberLiteral decodes raw only if it is a JSON number.
// json.Number would otherwise accept numeric strings like "1".
func numberLiteral(raw json.RawMessage) (json.Number, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return "", false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	return n, true
}

// integerLiteral decodes raw if it is an integral JSON number within int64.
// 1.7e12 and 1700000000000.0 are accepted; 1.5 is not.
func integerLiteral(raw json.RawMessage) (int64, bool) {
	n, ok := numberLiteral(raw)
	if !ok {
		return 0, false
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// compactRaw strips insignificant whitespace from an already-valid value.
func compactRaw(raw json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return append(json.RawMessage(nil), raw...)
	}
	return json.RawMessage(buf.Bytes())
}
