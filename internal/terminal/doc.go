// Package terminal owns the process-wide terminal state while the
// dashboard runs: raw mode and the alternate screen (Guard), frame output
// (Screen), key decoding and the stdin reader (Input), and resize
// notifications.
package terminal
