// Package harness runs scripted games against the real engine and checks
// the frames they produce.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: mismatch_hides_pair
//	description: "A mismatched pair turns face down after the delay"
//	board:
//	  width: 2
//	  height: 2
//	  layout: [A, B, A, B]
//	resolve_delay: 500ms
//	steps:
//	  - click: 0
//	    expect: { outcome: revealed, state: OneSelected }
//	  - click: 1
//	    expect: { outcome: mismatched, state: Resolving, revealed: [0, 1] }
//	  - advance: 500ms
//	    expect: { outcome: hidden, state: Idle, revealed: [] }
//	  - reset: true
//	assertions:
//	  - type: state
//	    state: Idle
//	  - type: tile_status
//	    tile: 0
//	    status: hidden
//	  - type: pending_timers
//	    count: 0
//
// Each step performs exactly one of click, advance or reset. An expect
// clause is checked against the latest frame after the step. A step error
// fails the scenario unless the clause names it with error.
//
// # Deterministic Testing
//
// Every scenario runs on a fresh virtual scheduler with the session ID set
// to the scenario name, so transcripts are byte-for-byte reproducible and
// can be compared against golden files.
package harness
