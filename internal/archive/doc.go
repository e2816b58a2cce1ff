// Package archive keeps snapshot documents in a local SQLite database.
//
// A thread is only ever as durable as the platform hosting it. The archive
// records what each read returned so a thread's history can be inspected
// after replies disappear.
//
// # Idempotency
//
// Snapshots are keyed by UNIQUE(thread_id, fingerprint). Writing a snapshot
// whose store and accepted log are unchanged since an earlier write is a
// no-op and reports inserted=false.
//
// # Ordering
//
// Listings are ordered by taken_at ASC, id ASC so repeated queries return
// identical results.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package archive
