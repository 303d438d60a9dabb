package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/verte-zerg/adaptype/internal/trainer"
)

func TestRenderFooterFormats(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, 80)
	r.progress = 50
	out := ansi.Strip(r.renderFooter(trainer.Status{HasScore: true, ScorePerChar: 0.8126, Highscore: 0.75}))
	if !containsAll(out, []string{"Progress 50%", "Now 0.813 s/char", "Best 0.75 s/char", "Ctrl-C quits"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
	out = ansi.Strip(r.renderFooter(trainer.Status{Highscore: 1000}))
	if strings.Contains(out, "Now") {
		t.Fatalf("footer must hide score before the first char: %s", out)
	}
}

func TestShowLineParksCursorOnTarget(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 80)
	r.ShowLine(glyphs("a\x05bc"), 2)
	if r.cursorRow != lineTop || r.cursorCol != leftCol+3 {
		t.Fatalf("expected cursor at (%d,%d), got (%d,%d)", lineTop, leftCol+3, r.cursorRow, r.cursorCol)
	}
	if !strings.HasSuffix(buf.String(), ansi.CursorPosition(leftCol+3, lineTop)) {
		t.Fatalf("expected output to end with the parked cursor")
	}
	if r.progress != 50 {
		t.Fatalf("expected progress 50, got %d", r.progress)
	}
	if !strings.Contains(ansi.Strip(buf.String()), "a^Eb") {
		t.Fatalf("expected line text in output: %q", ansi.Strip(buf.String()))
	}
}

func TestShowLineCursorAfterWrap(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, 6)
	// Content width 4 puts "cd " on the second row.
	r.ShowLine(glyphs("ab cd ef"), 4)
	if r.cursorRow != lineTop+1 || r.cursorCol != leftCol+1 {
		t.Fatalf("unexpected cursor (%d,%d)", r.cursorRow, r.cursorCol)
	}
	r.ShowLine(glyphs("ab cd ef"), 8)
	if r.cursorRow != lineTop+2 || r.cursorCol != leftCol+2 {
		t.Fatalf("unexpected end cursor (%d,%d)", r.cursorRow, r.cursorCol)
	}
}

func TestShowStatusAndFinal(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 80)
	r.ShowStatus(trainer.Status{
		Misses:            2,
		ElapsedSeconds:    9,
		ScorePerChar:      1.5,
		HasScore:          true,
		Highscore:         1.25,
		DifficultyPreview: "xq^E",
		Hint:              "shift + 1",
	})
	r.ShowFinal(trainer.SessionResult{Result: trainer.Completed, Rounds: 4, ScorePerChar: 1.2, HasScore: true, Highscore: 1.2})
	out := ansi.Strip(buf.String())
	if !containsAll(out, []string{"misses: 2", "time: 9", "spc: 1.500", "hint: shift + 1", "hardest: xq^E", "highscore: 1.25", "completed after 4 rounds", "(best)", "press any key"}) {
		t.Fatalf("status output missing segments: %q", out)
	}
}

type failingWriter struct{ calls int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.calls++
	return 0, errors.New("closed")
}

func TestRendererStopsAfterWriteError(t *testing.T) {
	w := &failingWriter{}
	r := NewRenderer(w, 80)
	r.Start()
	r.ShowSummary(trainer.Summary{Highscore: 1000})
	if r.Err() == nil {
		t.Fatalf("expected write error")
	}
	if w.calls != 1 {
		t.Fatalf("expected writes to stop after the first error, got %d", w.calls)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
