// Package engine materializes a record store from a reply stream.
//
// Replay is a pure function of its input. The same multiset of replies
// always yields the same store and the same accepted log, whatever order
// the adapter returned them in.
//
// ORDERING:
//
// Replies are sorted by CreatedAt ascending, ties broken by byte-wise
// ReplyID comparison. An event's ts never affects order; it only stamps
// CreatedAt/UpdatedAt on the record it touches.
//
// REDUCTION:
//
//  1. Reply text that is not a valid envelope is skipped silently.
//  2. ins creates (or overwrites) record "r_" + replyId.
//  3. upd shallow-merges content into an existing record.
//  4. del removes an existing record.
//  5. upd/del against a missing id leave the store unchanged.
//
// Every valid envelope is appended to the accepted log, whether or not it
// changed the store.
package engine
