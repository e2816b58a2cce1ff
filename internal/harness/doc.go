// Package harness provides conformance testing for reply replay.
//
// A scenario seeds a thread with replies, optionally appends events through
// the store façade, reads the thread back and checks the materialized store
// and accepted log against assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	thread_id: thread-1            # optional
//	replies:
//	  - reply_id: "1"
//	    author_id: alice
//	    created_at: 1000
//	    text: '{"v":1,"op":"ins","content":{"task":"x"}}'
//	    like_count: 2              # optional
//	appends:                       # optional, posted after seeding
//	  - '{"v":1,"op":"upd","id":"r_1","content":{"done":true}}'
//	assertions:
//	  - type: record
//	    id: r_1
//	    content: { task: x, done: true }
//	  - type: record_absent
//	    id: r_2
//	  - type: record_count
//	    count: 1
//	  - type: accepted_order
//	    reply_ids: ["1", "a1"]
//
// # Assertion Types
//
//   - record: A record exists; given fields must match exactly
//   - record_absent: No record has the given id
//   - record_count: The store holds exactly N records
//   - accepted_count: The accepted log holds exactly N events
//   - accepted_order: The accepted log lists exactly these reply ids in order
//
// # Deterministic Testing
//
// Appended replies get ids "a1", "a2", ... and timestamps from a
// testutil.DeterministicClock that starts one second after the latest
// seeded reply and advances one second per post. Every run of a scenario
// therefore reads the same thread.
//
// Every run also replays the thread in other orders (all orders for small
// threads, reversed otherwise) and fails if any order changes the result
// fingerprint.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/tie_break.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, msg := range result.Errors {
//	    log.Println(msg)
//	}
package harness
