package trainer

import (
	"strings"

	"github.com/verte-zerg/adaptype/internal/charset"
)

// PreviewSize is how many of the hardest characters the status shows.
const PreviewSize = 20

// Summary describes the score store between sessions.
type Summary struct {
	Highscore         float64
	DifficultyPreview string
}

// Status is the live state shown before every keystroke.
type Status struct {
	Misses            int
	ElapsedSeconds    int
	ScorePerChar      float64
	HasScore          bool
	Highscore         float64
	DifficultyPreview string
	Hint              string
}

// Display renders trainer state. Implementations must not block.
type Display interface {
	ShowSummary(Summary)
	ShowLine(line []charset.Glyph, cursor int)
	ShowStatus(Status)
	ShowFinal(SessionResult)
}

// NopDisplay discards everything.
type NopDisplay struct{}

func (NopDisplay) ShowSummary(Summary) {}
func (NopDisplay) ShowLine([]charset.Glyph, int) {}
func (NopDisplay) ShowStatus(Status) {}
func (NopDisplay) ShowFinal(SessionResult) {}

func previewString(chars []rune) string {
	var b strings.Builder
	for _, r := range chars {
		b.WriteString(charset.Label(r))
	}
	return b.String()
}
