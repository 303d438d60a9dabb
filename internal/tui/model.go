// Package tui renders the practice screen on a raw-mode terminal.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/verte-zerg/adaptype/internal/charset"
	"github.com/verte-zerg/adaptype/internal/trainer"
)

// Screen coordinates, 1-based.
const (
	leftCol     = 4
	lineTop     = 3
	maxLineRows = 7
	statusTop   = 11
	summaryTop  = 17
	statusCol   = 6
)

var (
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	controlStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	accentedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6FA8DC"))
	missStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	footerStyle   = labelStyle
	scoreStyle    = lipgloss.NewStyle().Bold(true)
)

// Renderer draws trainer state with ANSI cursor addressing. It implements
// trainer.Display and never reads input.
type Renderer struct {
	w     io.Writer
	width int
	err   error

	lineRows  int
	cursorRow int
	cursorCol int
	progress  int
}

var _ trainer.Display = (*Renderer)(nil)

// NewRenderer builds a renderer for a terminal of the given width.
func NewRenderer(w io.Writer, width int) *Renderer {
	return &Renderer{w: w, width: width, cursorRow: lineTop, cursorCol: leftCol}
}

// Err returns the first write error, if any.
func (r *Renderer) Err() error {
	return r.err
}

// Start switches to the alternate screen and clears it.
func (r *Renderer) Start() {
	r.write(ansi.SetModeAltScreenSaveCursor + ansi.EraseEntireScreen + ansi.CursorPosition(1, 1))
}

// Stop restores the main screen and the cursor.
func (r *Renderer) Stop() {
	r.write(ansi.ShowCursor + ansi.ResetModeAltScreenSaveCursor)
}

// ShowSummary implements trainer.Display.
func (r *Renderer) ShowSummary(s trainer.Summary) {
	r.writeAt(summaryTop, statusCol, labelStyle.Render("highscore: ")+scoreStyle.Render(formatScore(s.Highscore)))
	r.writeAt(summaryTop+1, statusCol, labelStyle.Render("hardest: ")+s.DifficultyPreview)
	r.park()
}

// ShowLine implements trainer.Display.
func (r *Renderer) ShowLine(line []charset.Glyph, cursor int) {
	cells := buildCells(line, cursor)
	rows := wrapCells(cells, r.contentWidth())
	if len(rows) > maxLineRows {
		rows = rows[:maxLineRows]
	}
	for i := len(rows); i < r.lineRows; i++ {
		r.writeAt(lineTop+i, leftCol, "")
	}
	r.lineRows = len(rows)

	r.cursorRow, r.cursorCol = lineTop, leftCol
	for i, row := range rows {
		r.writeAt(lineTop+i, leftCol, renderCells(cells[row.start:row.end]))
		if cursor >= row.start && (cursor < row.end || i == len(rows)-1) {
			r.cursorRow = lineTop + i
			r.cursorCol = leftCol + widthOf(cells[row.start:min(cursor, row.end)])
		}
	}
	if len(line) > 0 {
		r.progress = cursor * 100 / len(line)
	}
	r.park()
}

// ShowStatus implements trainer.Display.
func (r *Renderer) ShowStatus(s trainer.Status) {
	misses := fmt.Sprintf("%d", s.Misses)
	if s.Misses > 0 {
		misses = missStyle.Render(misses)
	}
	r.writeAt(statusTop, statusCol, "misses: "+misses)
	r.writeAt(statusTop+1, statusCol, fmt.Sprintf("time: %d", s.ElapsedSeconds))
	spc := ""
	if s.HasScore {
		spc = fmt.Sprintf("spc: %.3f", s.ScorePerChar)
	}
	r.writeAt(statusTop+2, statusCol, spc)
	hint := ""
	if s.Hint != "" {
		hint = labelStyle.Render("hint: ") + s.Hint
	}
	r.writeAt(statusTop+3, statusCol, hint)
	r.writeAt(summaryTop, statusCol, labelStyle.Render("highscore: ")+scoreStyle.Render(formatScore(s.Highscore)))
	r.writeAt(summaryTop+1, statusCol, labelStyle.Render("hardest: ")+s.DifficultyPreview)
	r.writeAt(summaryTop+3, statusCol, r.renderFooter(s))
	r.park()
}

// ShowFinal implements trainer.Display.
func (r *Renderer) ShowFinal(res trainer.SessionResult) {
	verdict := fmt.Sprintf("%s after %d rounds", res.Result, res.Rounds)
	if res.HasScore {
		verdict += fmt.Sprintf(", %.3f s/char", res.ScorePerChar)
		if res.ScorePerChar <= res.Highscore {
			verdict += " " + scoreStyle.Render("(best)")
		}
	}
	r.writeAt(statusTop+4, statusCol, verdict)
	r.writeAt(summaryTop, statusCol, labelStyle.Render("highscore: ")+scoreStyle.Render(formatScore(res.Highscore)))
	if res.Result == trainer.Completed {
		r.writeAt(summaryTop+3, statusCol, footerStyle.Render("press any key"))
	}
	r.park()
}

func (r *Renderer) renderFooter(s trainer.Status) string {
	segments := []string{fmt.Sprintf("Progress %d%%", r.progress)}
	if s.HasScore {
		segments = append(segments, fmt.Sprintf("Now %.3f s/char", s.ScorePerChar))
	}
	segments = append(segments, fmt.Sprintf("Best %s s/char", formatScore(s.Highscore)))
	segments = append(segments, "Ctrl-C quits")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (r *Renderer) contentWidth() int {
	if r.width <= 0 {
		return 0
	}
	w := int(float64(r.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func (r *Renderer) writeAt(row, col int, s string) {
	r.write(ansi.CursorPosition(col, row) + ansi.EraseEntireLine + ansi.CursorPosition(col, row) + s)
}

func (r *Renderer) park() {
	r.write(ansi.CursorPosition(r.cursorCol, r.cursorRow))
}

func (r *Renderer) write(s string) {
	if r.err != nil {
		return
	}
	if _, err := io.WriteString(r.w, s); err != nil {
		r.err = err
	}
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.5g", v)
}
