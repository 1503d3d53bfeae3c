package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Accent colors shared with the dashboard header.
const (
	ColorAccent lipgloss.Color = "#FF2E97"
	ColorGraph  lipgloss.Color = "#00FFFF"
)

// GradientColors cycle through the spinner frames.
var GradientColors = []lipgloss.Color{ColorAccent, "#B026FF", ColorGraph, "#39FF14"}
