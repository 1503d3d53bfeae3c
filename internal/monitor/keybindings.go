package monitor

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/rileyhilliard/ktop/internal/event"
)

// Action is a user intent produced from a key press.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionNextTab
	ActionPrevTab
	ActionRefresh
)

// String returns a human-readable label for the action.
func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionNextTab:
		return "next-tab"
	case ActionPrevTab:
		return "prev-tab"
	case ActionRefresh:
		return "refresh"
	default:
		return "none"
	}
}

// Key bindings as constants for consistency.
const (
	KeyQuit    = "q"
	KeyQuitAlt = "ctrl+c"
	KeyNextTab = "tab"
	KeyPrevTab = "shift+tab"
	KeyRefresh = "r"
)

// KeyMap holds the dashboard bindings. It doubles as the help.KeyMap for
// the status bar.
type KeyMap struct {
	Quit    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Refresh key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys(KeyQuit, KeyQuitAlt),
			key.WithHelp("q:", "Quit"),
		),
		NextTab: key.NewBinding(
			key.WithKeys(KeyNextTab),
			key.WithHelp("Tab:", "Next"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys(KeyPrevTab),
			key.WithHelp("Shift+Tab:", "Prev"),
		),
		Refresh: key.NewBinding(
			key.WithKeys(KeyRefresh),
			key.WithHelp("r:", "Refresh"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.NextTab, k.PrevTab, k.Refresh}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// Interpret maps an event to an action. Ticks, resizes and unbound keys
// produce ActionNone.
func (k KeyMap) Interpret(ev event.Event) Action {
	if ev.Kind != event.KindKey {
		return ActionNone
	}

	switch {
	case key.Matches(ev.Key, k.Quit):
		return ActionQuit
	case key.Matches(ev.Key, k.NextTab):
		return ActionNextTab
	case key.Matches(ev.Key, k.PrevTab):
		return ActionPrevTab
	case key.Matches(ev.Key, k.Refresh):
		return ActionRefresh
	}
	return ActionNone
}

// State is the part of the dashboard that actions change.
type State struct {
	Tab     int
	Running bool
}

// Reduce applies an action to state. Tab moves wrap at both ends; with no
// tabs the index stays at 0. Refresh does not change State; the dashboard
// handles its side effect.
func Reduce(s State, a Action, tabCount int) State {
	switch a {
	case ActionQuit:
		s.Running = false
	case ActionNextTab:
		if tabCount > 0 {
			s.Tab = (s.Tab + 1) % tabCount
		}
	case ActionPrevTab:
		if tabCount > 0 {
			s.Tab = (s.Tab - 1 + tabCount) % tabCount
		}
	}
	return s
}
