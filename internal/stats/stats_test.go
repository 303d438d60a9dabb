package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/adaptype/internal/model"
)

func TestSummarize(t *testing.T) {
	sessions := []model.SessionAggregate{
		{Typed: 120, Misses: 0, DurationMs: 60000, ScorePerChar: 0.5},
		{Typed: 120, Misses: 40, DurationMs: 120000, ScorePerChar: 1.5},
	}
	sum := Summarize(sessions)
	if sum.Sessions != 2 || sum.TotalTyped != 240 || sum.TotalMisses != 40 {
		t.Fatalf("unexpected totals: %+v", sum)
	}
	if sum.BestScore != 0.5 || sum.AvgScore != 1.0 {
		t.Fatalf("unexpected scores: %+v", sum)
	}
	if math.Abs(sum.AvgAccuracy-(1+0.75)/2) > 1e-9 {
		t.Fatalf("unexpected accuracy: %v", sum.AvgAccuracy)
	}
	if math.Abs(sum.AvgCPM-90) > 1e-9 {
		t.Fatalf("unexpected cpm: %v", sum.AvgCPM)
	}
	if empty := Summarize(nil); empty.Sessions != 0 || empty.BestScore != 0 {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if plain := MovingAverage([]float64{1, 5}, 0); plain[1] != 5 {
		t.Fatalf("window 0 must copy values: %v", plain)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}, 0); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}, 0); got != "+++" {
		t.Fatalf("flat series should render mid level: %q", got)
	}
	if got := Sparkline([]float64{0, 0, 9, 9}, 2); got != " @" {
		t.Fatalf("expected resampled sparkline, got %q", got)
	}
	if Sparkline(nil, 10) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestDifficultyRowsOrderAndLabels(t *testing.T) {
	rows := DifficultyRows([]model.CharAggregate{
		{Char: "a", Difficulty: 0.5, Attempts: 3},
		{Char: " ", Difficulty: 0.9, Attempts: 4, TotalMisses: 2},
		{Char: "!", Difficulty: 0.5},
		{Char: "xy", Difficulty: 9},
	})
	if len(rows) != 3 {
		t.Fatalf("expected multi-rune key to be skipped, got %d rows", len(rows))
	}
	if rows[0].Label != "<space>" || rows[1].Char != '!' || rows[2].Char != 'a' {
		t.Fatalf("unexpected order: %+v", rows)
	}
	if rows[0].MissRatio != 0.4 {
		t.Fatalf("unexpected miss ratio %v", rows[0].MissRatio)
	}
	if rows[1].Hint != "shift + 1" {
		t.Fatalf("unexpected hint %q", rows[1].Hint)
	}
}

func TestRenderDifficultyTableTop(t *testing.T) {
	rows := DifficultyRows([]model.CharAggregate{
		{Char: "q", Difficulty: 0.7},
		{Char: "z", Difficulty: 0.2},
	})
	var buf bytes.Buffer
	if err := RenderDifficultyTable(&buf, rows, 1); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Difficulty") || !strings.Contains(out, "0.700") {
		t.Fatalf("missing header or row: %q", out)
	}
	if strings.Contains(out, "0.200") {
		t.Fatalf("top limit ignored: %q", out)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, 1000, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
