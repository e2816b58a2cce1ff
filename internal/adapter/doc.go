// Package adapter defines the boundary between ReplyDB and a reply platform.
//
// An Adapter turns a platform's native payloads into ir.ReplyRecord values
// and posts new reply text. Everything platform specific (auth, pagination,
// response shapes, timestamp formats) lives behind this interface; the
// replay engine only ever sees canonical records.
//
// Concrete adapters live in subpackages:
//
//	xapi     X REST v2 search + tweet create
//	threads  Threads internal GraphQL
//	memory   in-process thread map for tests and offline runs
//
// Shared pieces here are the typed Error, the HTTP Transport the network
// adapters build on, timestamp normalization and Prometheus counters.
package adapter
