// Package engine implements the match engine of a memory game.
//
// The engine is a state machine over a board.Board. It is driven by exactly
// two operations:
//
//   - OnTileClicked(i): a player input.
//   - OnResolveTimeout(): the delayed callback the engine itself requests
//     through a schedule.Scheduler after a mismatch. The UI never calls it.
//
// STATES:
//
//	Idle        selection empty, unlocked
//	OneSelected one tile revealed and waiting for its partner
//	Resolving   two mismatched tiles revealed, input locked until the
//	            resolve callback hides them
//	Complete    every tile matched; all clicks are no-ops
//
// State is derived from the selection, the lock and the board on every call
// rather than stored, so it cannot drift from the tiles.
//
// SINGLE WRITER:
//
// The engine takes no locks. All calls, including the scheduled resolve
// callback, must arrive on one goroutine. session.Loop provides that for
// real timers; schedule.Virtual provides it trivially in tests.
//
// INVARIANTS:
//   - locked implies exactly two selected tiles, both Revealed
//   - unlocked implies at most one selected tile
//   - Matched tiles never change again
//   - while locked, no click changes any tile
package engine
