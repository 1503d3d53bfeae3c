package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille cells are a 2x4 dot matrix, which gives each character two
// samples horizontally and four levels vertically:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// The empty cell is U+2800 and each dot is one bit of the offset.
const brailleBase = '⠀'

// brailleDots maps [row][col] to the dot's bit.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// findMinMax returns the plotting range. Data that fits in 0-100 is treated
// as a percentage and always plotted on the full 0-100 scale.
func findMinMax(data []float64) (minVal, maxVal float64, isPercentage bool) {
	if len(data) == 0 {
		return 0, 100, true
	}

	minVal, maxVal = data[0], data[0]
	for _, v := range data {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}

	if maxVal <= 100 && minVal >= 0 {
		return 0, 100, true
	}
	return minVal, maxVal, false
}

func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps val to [0, maxVal].
func clampInt(val, maxVal int) int {
	return max(0, min(val, maxVal))
}

// RenderBrailleSparkline plots data as a braille graph width characters wide
// and height rows tall. Newer samples are on the right; short series are
// right-aligned. Percentage data is colored per column by threshold, other
// data uses baseColor.
func RenderBrailleSparkline(data []float64, width, height int, baseColor lipgloss.Color) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal, isPercentage := findMinMax(data)
	totalDots := height * 4
	targetPoints := width * 2

	points := data
	if len(data) > targetPoints {
		points = resampleData(data, targetPoints)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(string(brailleBase), width))
	}
	colMax := make([]float64, width)
	offset := max(0, targetPoints-len(points))

	for i, val := range points {
		col := (i + offset) / 2
		if col >= width {
			continue
		}
		colMax[col] = max(colMax[col], val)
		sub := (i + offset) % 2

		dots := clampInt(int(normalizeValue(val, minVal, maxVal)*float64(totalDots)), totalDots)
		for dot := 0; dot < dots; dot++ {
			row := height - 1 - dot/4
			grid[row][col] |= rune(1 << brailleDots[3-dot%4][sub])
		}
	}

	lines := make([]string, 0, height)
	for _, row := range grid {
		var b strings.Builder
		for col, ch := range row {
			color := baseColor
			if isPercentage {
				color = MetricColor(colMax[col])
			}
			b.WriteString(lipgloss.NewStyle().Foreground(color).Background(ColorSurfaceBg).Render(string(ch)))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// resampleData resizes data to targetSize points. Downsampling keeps the
// maximum of each bucket so spikes survive; upsampling interpolates.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}
	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)
	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	if len(data) > targetSize {
		bucket := float64(len(data)) / float64(targetSize)
		for i := range result {
			start := int(float64(i) * bucket)
			end := min(int(float64(i+1)*bucket), len(data))
			if start >= end {
				start = max(0, end-1)
			}
			peak := data[start]
			for _, v := range data[start+1 : end] {
				peak = max(peak, v)
			}
			result[i] = peak
		}
		return result
	}

	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := range result {
		pos := float64(i) * scale
		idx := int(pos)
		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
			continue
		}
		frac := pos - float64(idx)
		result[i] = data[idx]*(1-frac) + data[idx+1]*frac
	}
	return result
}
