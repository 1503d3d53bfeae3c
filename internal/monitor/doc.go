// Package monitor implements the ktop dashboard: the single-threaded loop
// that owns all UI state, the per-category panels it feeds, and rendering.
//
// # Loop
//
// Dashboard.Run repeats three steps until a Quit action is applied:
//
//  1. render the current state to the terminal
//  2. wait for the first ready item from the event queue or the snapshot queue
//  3. apply exactly that one item
//
// Because rendering happens before the wait, a frame shows the state as of
// the end of the previous iteration. A burst of queued items is drained one
// per frame; nothing is dropped because both queues are unbounded.
//
// # Key Components
//
//	Dashboard      - loop, tab selection, running flag
//	ResourcePanel  - last resource sample plus mean-CPU History
//	RepoPanel      - last repository-set sample
//	History        - fixed-capacity FIFO of float64 samples
//	KeyMap         - key bindings, also used for the status bar help
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	Tab         - Next tab
//	Shift+Tab   - Previous tab
//	r           - Refresh every running source now
package monitor
