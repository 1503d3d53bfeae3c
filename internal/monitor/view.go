package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/rileyhilliard/ktop/internal/snapshot"
)

// Layout rows and fallbacks.
const (
	headerHeight  = 3
	statusHeight  = 1
	defaultWidth  = 80
	defaultHeight = 24

	// gaugeRows is the height of the memory and disk sections together,
	// and cpuFrameRows the CPU section's header and footer.
	gaugeRows    = 6
	cpuFrameRows = 2
	maxGraphRows = 4

	coreBarWidth  = 10
	coreCellWidth = 22
)

// View renders one frame of exactly height lines: header, the active tab's
// content, and the status bar.
func (d *Dashboard) View() string {
	width, height := d.size()
	contentHeight := max(0, height-headerHeight-statusHeight)

	var content string
	switch d.state.Tab {
	case TabGit:
		content = d.renderRepos(width, contentHeight)
	default:
		content = d.renderResources(width, contentHeight)
	}

	lines := make([]string, 0, height)
	lines = append(lines, fitLines(d.renderHeader(width), width, headerHeight)...)
	lines = append(lines, fitLines(content, width, contentHeight)...)
	lines = append(lines, fitLines(d.renderStatusBar(width), width, statusHeight)...)
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (d *Dashboard) size() (int, int) {
	w, h := d.width, d.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// fitLines cuts or pads s to exactly height lines no wider than width.
func fitLines(s string, width, height int) []string {
	if height <= 0 {
		return nil
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	clip := lipgloss.NewStyle().MaxWidth(width)
	for i, l := range lines {
		if lipgloss.Width(l) > width {
			lines[i] = clip.Render(l)
		}
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

// renderHeader renders the title border, the tab bar and the closing border.
func (d *Dashboard) renderHeader(width int) string {
	tabs := make([]string, len(Tabs))
	for i, title := range Tabs {
		style := TabStyle
		if i == d.state.Tab {
			style = TabActiveStyle
		}
		tabs[i] = style.Render(title)
	}

	return strings.Join([]string{
		SectionHeader("ktop", d.now().Format("15:04:05"), width),
		SectionContentLine(strings.Join(tabs, MutedStyle.Render(" │ ")), width),
		SectionFooter(width),
	}, "\n")
}

// renderResources renders the CPU section (trend graph and per-core bars)
// followed by memory and disk gauges. The gauges always fit first; the
// graph and core rows share what is left.
func (d *Dashboard) renderResources(width, height int) string {
	p := d.resources
	if !p.Ready() {
		return MutedStyle.Render("  Waiting for the first resource sample...")
	}

	r := p.Resources()
	inner := max(1, width-4)
	perRow := max(1, inner/coreCellWidth)
	coreRowCount := (len(r.CPU) + perRow - 1) / perRow

	avail := max(0, height-gaugeRows-cpuFrameRows)
	graphRows := min(maxGraphRows, max(0, avail-coreRowCount))
	if graphRows == 0 && avail > 0 {
		graphRows = 1
	}
	coreLimit := max(0, avail-graphRows)

	lines := []string{
		SectionHeader("CPU", fmt.Sprintf("%.1f%% avg · %d cores", p.MeanCPU(), len(r.CPU)), width),
	}
	if graphRows > 0 {
		graph := RenderBrailleSparkline(p.History().Values(), inner, graphRows, ColorGraph)
		for _, l := range strings.Split(graph, "\n") {
			lines = append(lines, SectionContentLine(l, width))
		}
	}
	for _, row := range coreRows(r.CPU, perRow, coreLimit) {
		lines = append(lines, SectionContentLine(row, width))
	}
	lines = append(lines, SectionFooter(width))

	lines = append(lines, gaugeSection("Memory", r.MemUsed, r.MemTotal, width)...)
	lines = append(lines, gaugeSection("Disk", r.DiskUsed, r.DiskTotal, width)...)
	return strings.Join(lines, "\n")
}

// coreRows lays per-core bars out perRow to a line, at most limit lines.
func coreRows(cores []float64, perRow, limit int) []string {
	var rows []string
	for start := 0; start < len(cores) && len(rows) < limit; start += perRow {
		end := min(start+perRow, len(cores))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cells = append(cells, LabelStyle.Render(fmt.Sprintf("%3d ", i))+
				CompactProgressBar(coreBarWidth, cores[i])+
				MetricStyle(cores[i]).Render(fmt.Sprintf(" %5.1f%%", cores[i])))
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return rows
}

// gaugeSection renders a used/total gauge in its own section.
func gaugeSection(title string, used, total uint64, width int) []string {
	ratio := Ratio(used, total)
	bar := progress.New(
		progress.WithSolidFill(string(MetricColor(ratio*100))),
		progress.WithWidth(max(1, width-4)),
	)
	value := fmt.Sprintf("%s / %s", humanize.IBytes(used), humanize.IBytes(total))

	return []string{
		SectionHeader(title, value, width),
		SectionContentLine(bar.ViewAs(ratio), width),
		SectionFooter(width),
	}
}

// renderRepos renders the repository table, or a placeholder when there is
// nothing to show.
func (d *Dashboard) renderRepos(width, height int) string {
	if !d.reposEnabled {
		return LabelStyle.Render("  No repositories configured.") + "\n" +
			MutedStyle.Render("  Add paths to git.repos in ktop.toml or pass --repo.")
	}

	p := d.repos
	if !p.Ready() {
		return MutedStyle.Render("  Scanning repositories...")
	}
	repos := p.Repos()
	if len(repos) == 0 {
		return LabelStyle.Render("  None of the configured paths is a git repository.")
	}

	dirty := 0
	for _, r := range repos {
		if r.Dirty() {
			dirty++
		}
	}
	header := SectionHeader("Repositories", fmt.Sprintf("%d tracked · %d dirty", len(repos), dirty), width)

	t := table.New(
		table.WithColumns(repoTableColumns(repos, width)),
		table.WithRows(p.Rows()),
		table.WithStyles(repoTableStyles()),
		table.WithHeight(max(2, height-1)),
		table.WithWidth(width),
	)
	return header + "\n" + t.View()
}

// repoTableColumns sizes the name and branch columns to their content and
// gives the counters their title width. Each cell carries one column of
// padding on both sides.
func repoTableColumns(repos []snapshot.RepoStatus, width int) []table.Column {
	const cellPadding = 2

	nameWidth, branchWidth := runewidth.StringWidth(repoColumns[0]), runewidth.StringWidth(repoColumns[1])
	for _, r := range repos {
		nameWidth = max(nameWidth, runewidth.StringWidth(r.Name))
		branchWidth = max(branchWidth, runewidth.StringWidth(r.Branch))
	}
	branchWidth = min(branchWidth, 24)

	cols := make([]table.Column, len(repoColumns))
	used := 0
	for i := 2; i < len(repoColumns); i++ {
		cols[i] = table.Column{Title: repoColumns[i], Width: runewidth.StringWidth(repoColumns[i])}
		used += cols[i].Width + cellPadding
	}
	used += branchWidth + 2*cellPadding

	cols[0] = table.Column{Title: repoColumns[0], Width: max(4, min(nameWidth, width-used))}
	cols[1] = table.Column{Title: repoColumns[1], Width: branchWidth}
	return cols
}

func repoTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.Foreground(ColorAccent)
	s.Cell = s.Cell.Foreground(ColorTextPrimary)
	// No row is selected; the table is read-only.
	s.Selected = lipgloss.NewStyle()
	return s
}
