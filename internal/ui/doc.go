// Package ui styles the line-oriented output of ktop's non-dashboard
// commands (init, config, doctor): a branded header, status lines with
// symbols, aligned key/value blocks, and a spinner for slow steps.
//
// Colors are ANSI codes so output degrades cleanly on basic terminals.
// The dashboard has its own palette in the monitor package.
package ui
