//go:build windows

package terminal

// WatchResize is a no-op on Windows, which has no SIGWINCH. The redraw
// tick re-reads the size, so the layout still follows the window.
func (i *Input) WatchResize(fd int) {}
