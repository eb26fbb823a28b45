// Package journal provides SQLite-backed storage for played sessions.
//
// A journal holds one row per session (the seed and board shape needed to
// deal the same boards again) and one row per emitted frame. Frames are
// append-only and ordered by their logical sequence number, never by wall
// time, so a journal can be replayed on a virtual scheduler and compared
// frame by frame.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON: frames must belong to a recorded session
package journal
