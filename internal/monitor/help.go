package monitor

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// newHelp returns a help view styled for the status bar.
func newHelp(width int) help.Model {
	h := help.New()
	h.Width = width
	h.ShortSeparator = "  "
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(ColorTextPrimary).Bold(true)
	h.Styles.ShortDesc = LabelStyle
	h.Styles.ShortSeparator = MutedStyle
	return h
}

// renderStatusBar renders the key bindings, the age of the active tab's
// data and the latest warning, in that order.
func (d *Dashboard) renderStatusBar(width int) string {
	parts := []string{" " + newHelp(width).ShortHelpView(d.keys.ShortHelp())}
	if age := d.updateAge(); age != "" {
		parts = append(parts, MutedStyle.Render(age))
	}
	if notice := d.notice(); notice != "" {
		parts = append(parts, NoticeStyle.Render(notice))
	}
	return strings.Join(parts, MutedStyle.Render("  ·  "))
}

// updateAge describes when the active tab's panel last changed.
func (d *Dashboard) updateAge() string {
	switch d.state.Tab {
	case TabSystem:
		if d.resources.Ready() {
			return "updated " + humanize.RelTime(d.resources.Updated(), d.now(), "ago", "from now")
		}
	case TabGit:
		if d.repos.Ready() {
			return "updated " + humanize.RelTime(d.repos.Updated(), d.now(), "ago", "from now")
		}
	}
	return ""
}

// notice returns the newest logged warning, falling back to the config notice.
func (d *Dashboard) notice() string {
	if d.notices != nil {
		if n, ok := d.notices.Last(); ok {
			return n.Message
		}
	}
	return d.configNotice
}
