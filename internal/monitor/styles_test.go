package monitor

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestMetricColor(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		want    lipgloss.Color
	}{
		{"zero", 0, ColorHealthy},
		{"just below warning", 69.9, ColorHealthy},
		{"at warning", 70, ColorWarning},
		{"just below critical", 89.9, ColorWarning},
		{"at critical", 90, ColorCritical},
		{"over 100", 150, ColorCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MetricColor(tt.percent))
		})
	}
}

func TestCompactProgressBar(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		percent    float64
		wantFilled int
		wantEmpty  int
	}{
		{"empty", 10, 0, 0, 10},
		{"half", 10, 50, 5, 5},
		{"full", 10, 100, 10, 0},
		{"over 100 clamps", 10, 250, 10, 0},
		{"negative clamps", 10, -5, 0, 10},
		{"zero width becomes one", 0, 100, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := CompactProgressBar(tt.width, tt.percent)
			assert.Equal(t, tt.wantFilled, strings.Count(bar, "▰"))
			assert.Equal(t, tt.wantEmpty, strings.Count(bar, "▱"))
		})
	}
}

func TestSectionHeader(t *testing.T) {
	header := SectionHeader("CPU", "42%", 40)

	assert.Contains(t, header, "CPU")
	assert.Contains(t, header, "42%")
	assert.Equal(t, 40, lipgloss.Width(header))
}

func TestSectionFooter(t *testing.T) {
	footer := SectionFooter(20)

	assert.Contains(t, footer, "╰")
	assert.Contains(t, footer, "╯")
	assert.Equal(t, 20, lipgloss.Width(footer))
}

func TestSectionContentLine(t *testing.T) {
	t.Run("pads to width", func(t *testing.T) {
		line := SectionContentLine("hi", 20)
		assert.Equal(t, 20, lipgloss.Width(line))
		assert.Contains(t, line, "hi")
	})

	t.Run("cuts wide content", func(t *testing.T) {
		line := SectionContentLine(strings.Repeat("x", 50), 20)
		assert.Equal(t, 20, lipgloss.Width(line))
	})
}
