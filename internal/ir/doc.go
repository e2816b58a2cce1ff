// Package ir provides the canonical types shared by every ReplyDB package.
//
// This package contains the reply-stream data model, the event envelope
// validator, and the deterministic serializations built on top of them.
// All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Timestamps are int64 milliseconds since epoch, never time.Time
//   - Event content is opaque JSON (json.RawMessage); ir never inspects it
//     beyond the top-level object members needed for shallow merges
//   - Parsing reply text never returns an error: a reply either carries a
//     valid envelope or it is noise
//   - Canonical JSON (RFC 8785 key order, NFC strings) is used only for
//     fingerprints, never for the wire format
package ir
