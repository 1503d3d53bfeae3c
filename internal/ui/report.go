package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Level is the outcome shown by a status line.
type Level int

const (
	LevelPass Level = iota
	LevelWarn
	LevelFail
	LevelInfo
)

// DividerWidth is the width of header and summary dividers.
const DividerWidth = 50

var (
	successStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	warnStyle    = lipgloss.NewStyle().Foreground(ColorWarning)
	infoStyle    = lipgloss.NewStyle().Foreground(ColorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	headingStyle = lipgloss.NewStyle().Bold(true)
	dividerStyle = lipgloss.NewStyle().Foreground(ColorMuted)
)

// Header renders "ktop <version>" with an optional tagline and a divider.
func Header(version, tagline string) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Render("ktop"))
	if version != "" {
		b.WriteString(" ")
		b.WriteString(lipgloss.NewStyle().Foreground(ColorGraph).Render(version))
	}
	b.WriteString("\n")
	if tagline != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(ColorSecondary).Render(tagline))
		b.WriteString("\n")
	}
	b.WriteString(Divider())
	b.WriteString("\n")
	return b.String()
}

// Divider renders a horizontal rule.
func Divider() string {
	return dividerStyle.Render(strings.Repeat("━", DividerWidth))
}

// Heading renders a section title.
func Heading(title string) string {
	return headingStyle.Render(title)
}

// Symbol returns the colored symbol for a level.
func Symbol(level Level) string {
	switch level {
	case LevelPass:
		return successStyle.Render(SymbolSuccess)
	case LevelWarn:
		return warnStyle.Render(SymbolWarn)
	case LevelFail:
		return errorStyle.Render(SymbolFail)
	default:
		return infoStyle.Render(SymbolInfo)
	}
}

// StatusLine renders "  <symbol> message", followed by the indented,
// muted suggestion lines when level is not LevelPass.
func StatusLine(level Level, message, suggestion string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s\n", Symbol(level), message)
	if suggestion != "" && level != LevelPass {
		for _, line := range strings.Split(suggestion, "\n") {
			fmt.Fprintf(&b, "    %s\n", mutedStyle.Render(line))
		}
	}
	return b.String()
}

// Muted renders s in the secondary text color.
func Muted(s string) string {
	return mutedStyle.Render(s)
}

// KeyValues renders two-column rows with the keys padded to a common width.
func KeyValues(rows [][2]string) string {
	width := 0
	for _, r := range rows {
		if w := lipgloss.Width(r[0]); w > width {
			width = w
		}
	}

	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "  %s  %s\n", mutedStyle.Render(padRight(r[0], width)), r[1])
	}
	return b.String()
}

// Fprint writes s to w, ignoring write errors the way fmt.Print does.
func Fprint(w io.Writer, s string) {
	_, _ = io.WriteString(w, s)
}

// padRight pads a string to the specified visible width.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
