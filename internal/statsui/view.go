package statsui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/verte-zerg/adaptype/internal/stats"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = activeNavStyle.
				Bold(false).
				Foreground(lipgloss.Color("#B0B0B0")).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	trendStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(1, lipgloss.Height(activeNavStyle.Render("X"))) + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		style := inactiveNavStyle
		if i == m.activeTab {
			style = activeNavStyle
		}
		parts = append(parts, style.Render(tab))
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return tabs + "\n" + headerStyle.Render(ansi.Truncate(m.filterSummary(), max(m.width, 1), "..."))
}

func (m *Model) renderBody() string {
	if m.filterMode {
		return m.renderFilterForm()
	}
	if m.activeTab == tabDifficulty {
		if len(m.report.Difficulty) == 0 {
			return "No character stats found."
		}
		return mutedStyle.Render(m.charTable.View())
	}
	return m.overview.View()
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Tabs: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filters: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func renderOverview(report stats.Report, window, width int) string {
	cards := []string{
		metricCard("Highscore", fmt.Sprintf("%.3f s/char", report.Highscore)),
	}
	if len(report.Sessions) == 0 {
		return cards[0] + "\n\nNo sessions found."
	}
	sum := report.Summary
	cards = append(cards,
		metricCard("Sessions", fmt.Sprintf("%d", sum.Sessions)),
		metricCard("Best", fmt.Sprintf("%.3f s/char", sum.BestScore)),
		metricCard("Avg", fmt.Sprintf("%.3f s/char", sum.AvgScore)),
		metricCard("Avg CPM", fmt.Sprintf("%.1f", sum.AvgCPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", sum.AvgAccuracy*100)),
	)
	var block string
	if width < 80 {
		block = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...)
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...)
		block = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	return block + "\n\n" + renderTrends(report, window, width)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func renderTrends(report stats.Report, window, width int) string {
	const labelWidth = 16
	sparkWidth := max(10, width-labelWidth-2)
	lines := []string{
		headerStyle.Render(fmt.Sprintf("Trends (moving average over %d sessions)", max(window, 1))),
		trendLine("s/char (lower)", report.ScoreTrend, sparkWidth, labelWidth),
		trendLine("accuracy %", report.AccuracyTrend, sparkWidth, labelWidth),
	}
	return strings.Join(lines, "\n")
}

func trendLine(label string, values []float64, width, labelWidth int) string {
	last := ""
	if len(values) > 0 {
		last = fmt.Sprintf(" %.2f", values[len(values)-1])
	}
	return padLine(label, labelWidth) + trendStyle.Render(stats.Sparkline(values, width)) + last
}

var charColumns = []table.Column{
	{Title: "Char", Width: 8},
	{Title: "Difficulty", Width: 10},
	{Title: "Attempts", Width: 8},
	{Title: "Misses", Width: 6},
	{Title: "Miss Ratio", Width: 10},
	{Title: "Hint", Width: 16},
}

func newCharTable() table.Model {
	t := table.New(
		table.WithColumns(charColumns),
		table.WithHeight(1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	return t
}

func charRows(rows []stats.DifficultyRow) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row{
			r.Label,
			fmt.Sprintf("%.3f", r.Difficulty),
			fmt.Sprintf("%d", r.Attempts),
			fmt.Sprintf("%d", r.Misses),
			fmt.Sprintf("%.3f", r.MissRatio),
			r.Hint,
		})
	}
	return out
}

func padLine(line string, width int) string {
	if w := lipgloss.Width(line); w < width {
		return line + strings.Repeat(" ", width-w)
	}
	return line
}

// fitLines pads or truncates s to exactly width x height cells.
func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = padLine(ansi.Truncate(line, width, ""), width)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
