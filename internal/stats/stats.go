// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/adaptype/internal/charset"
	"github.com/verte-zerg/adaptype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a list of sessions.
type Summary struct {
	Sessions    int
	BestScore   float64
	AvgScore    float64
	AvgAccuracy float64
	AvgCPM      float64
	TotalTyped  int
	TotalMisses int
}

// Summarize computes aggregate metrics. Score per char is lower-is-better,
// so BestScore is the minimum.
func Summarize(sessions []model.SessionAggregate) Summary {
	sum := Summary{Sessions: len(sessions)}
	if len(sessions) == 0 {
		return sum
	}
	var totalScore, totalAcc, totalCPM float64
	sum.BestScore = math.Inf(1)
	for _, s := range sessions {
		totalScore += s.ScorePerChar
		totalAcc += s.Accuracy()
		totalCPM += s.CPM()
		sum.TotalTyped += s.Typed
		sum.TotalMisses += s.Misses
		if s.ScorePerChar < sum.BestScore {
			sum.BestScore = s.ScorePerChar
		}
	}
	count := float64(len(sessions))
	sum.AvgScore = totalScore / count
	sum.AvgAccuracy = totalAcc / count
	sum.AvgCPM = totalCPM / count
	return sum
}

// Trends returns per-session score and accuracy (percent) series smoothed
// with a moving average.
func Trends(sessions []model.SessionAggregate, window int) (scores, accuracy []float64) {
	scores = make([]float64, len(sessions))
	accuracy = make([]float64, len(sessions))
	for i, s := range sessions {
		scores[i] = s.ScorePerChar
		accuracy[i] = s.Accuracy() * 100
	}
	return MovingAverage(scores, window), MovingAverage(accuracy, window)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values. Series
// longer than width are resampled by bucket means.
func Sparkline(values []float64, width int) string {
	values = resample(values, width)
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if maxVal-minVal < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - minVal) / (maxVal - minVal) * float64(last)))
		b.WriteByte(sparkChars[max(0, min(idx, last))])
	}
	return b.String()
}

func resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

// DifficultyRow is one character in the difficulty table.
type DifficultyRow struct {
	Char       rune
	Label      string
	Difficulty float64
	Attempts   int
	Misses     int
	MissRatio  float64
	Hint       string
}

// DifficultyRows converts persisted char scores into table rows, hardest
// first. Rows whose key is not a single character are skipped.
func DifficultyRows(aggs []model.CharAggregate) []DifficultyRow {
	rows := make([]DifficultyRow, 0, len(aggs))
	for _, agg := range aggs {
		runes := []rune(agg.Char)
		if len(runes) != 1 {
			continue
		}
		r := runes[0]
		rows = append(rows, DifficultyRow{
			Char:       r,
			Label:      charset.Label(r),
			Difficulty: agg.Difficulty,
			Attempts:   agg.Attempts,
			Misses:     agg.TotalMisses,
			MissRatio:  agg.MissRatio(),
			Hint:       charset.Hint(r),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Difficulty == rows[j].Difficulty {
			return rows[i].Char < rows[j].Char
		}
		return rows[i].Difficulty > rows[j].Difficulty
	})
	return rows
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, highscore float64, sessions []model.SessionAggregate) error {
	if _, err := fmt.Fprintf(w, "Highscore: %.3f s/char\n", highscore); err != nil {
		return err
	}
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(sessions)
	lines := []string{
		fmt.Sprintf("Sessions: %d", sum.Sessions),
		fmt.Sprintf("Best: %.3f s/char", sum.BestScore),
		fmt.Sprintf("Avg: %.3f s/char", sum.AvgScore),
		fmt.Sprintf("Avg CPM: %.1f", sum.AvgCPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", sum.AvgAccuracy*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderDifficultyTable prints the top rows of the difficulty table. A
// non-positive top prints every row.
func RenderDifficultyTable(w io.Writer, rows []DifficultyRow, top int) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	if top > 0 && top < len(rows) {
		rows = rows[:top]
	}
	headers := []string{"Char", "Difficulty", "Attempts", "Misses", "Miss Ratio", "Hint"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.Label,
			fmt.Sprintf("%.3f", r.Difficulty),
			fmt.Sprintf("%d", r.Attempts),
			fmt.Sprintf("%d", r.Misses),
			fmt.Sprintf("%.3f", r.MissRatio),
			r.Hint,
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
