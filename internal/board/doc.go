// Package board holds the grid of paired symbols a memory game is played on.
//
// A Board is created once per round and never changes shape. Each symbol of
// the alphabet is dealt onto exactly two tiles (the pairing invariant), then
// positions are permuted with a Fisher-Yates shuffle driven by an injected
// random Source so that dealing is reproducible from a seed.
//
// Only per-tile status changes after creation. The board exposes those
// changes by index (Reveal, MarkMatched, Hide) and enforces the tile state
// machine:
//
//	Hidden --Reveal--> Revealed --MarkMatched--> Matched
//	   ^                   |
//	   +-------Hide--------+
//
// Matched is terminal. Game rules (when to reveal, compare or hide) belong
// to the engine package; the board is a container.
package board
