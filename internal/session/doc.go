// Package session wires a board, a match engine and a scheduler into one
// playable game, and turns every engine transition into a Frame for the view.
//
// A Controller owns exactly one engine at a time. Reset discards it and deals
// a fresh board; the old engine's pending resolve callback is canceled first
// so it can never touch the new round.
//
// Frames are stamped by a monotonic logical clock, never wall time, so a
// session replayed on a virtual scheduler yields identical frames.
//
// For real-time play, Loop serializes input and timer callbacks onto one
// goroutine: the single writer the engine requires.
package session
