package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for fingerprints.
// Version suffix enables future algorithm migration.
const (
	DomainStore    = "replydb/store/v1"
	DomainAccepted = "replydb/accepted/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StoreFingerprint hashes the canonical form of a materialized store.
// Two stores with the same records and contents always share a fingerprint,
// whatever order the map was built in.
func StoreFingerprint(store RecordStore) (string, error) {
	canonical, err := MarshalCanonical(StoreDocument(store))
	if err != nil {
		return "", fmt.Errorf("StoreFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainStore, canonical), nil
}

// AcceptedFingerprint hashes the accepted log: the ordered reply ids and
// their raw texts. Equal fingerprints mean equal replay order.
func AcceptedFingerprint(accepted []Accepted) (string, error) {
	entries := make([]any, len(accepted))
	for i, a := range accepted {
		entries[i] = map[string]any{
			"reply_id": a.Meta.ReplyID,
			"raw_text": a.Meta.RawText,
		}
	}
	canonical, err := MarshalCanonical(entries)
	if err != nil {
		return "", fmt.Errorf("AcceptedFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainAccepted, canonical), nil
}

// ResultFingerprint combines the store and accepted-log fingerprints.
func ResultFingerprint(res ReplayResult) (string, error) {
	storeHash, err := StoreFingerprint(res.Store)
	if err != nil {
		return "", err
	}
	acceptedHash, err := AcceptedFingerprint(res.Accepted)
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainStore, []byte(storeHash+acceptedHash)), nil
}

// StoreDocument converts a store into generic values for canonical
// marshaling. Keys use snake_case like every canonical document.
func StoreDocument(store RecordStore) map[string]any {
	doc := make(map[string]any, len(store))
	for id, rec := range store {
		entry := map[string]any{
			"id":         rec.ID,
			"content":    rec.Content,
			"created_at": rec.CreatedAt,
			"updated_at": rec.UpdatedAt,
			"author_id":  rec.AuthorID,
		}
		if rec.LikeCount != nil {
			entry["like_count"] = *rec.LikeCount
		}
		doc[id] = entry
	}
	return doc
}

// MustStoreFingerprint is like StoreFingerprint but panics on error.
// Use only in tests or when contents are known to be valid JSON.
func MustStoreFingerprint(store RecordStore) string {
	h, err := StoreFingerprint(store)
	if err != nil {
		panic(err)
	}
	return h
}
