package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/adaptype/internal/model"
	"github.com/verte-zerg/adaptype/internal/stats"
)

type fakeLoader struct {
	calls  []model.StatsConfig
	report stats.Report
	err    error
}

func (f *fakeLoader) load(_ context.Context, cfg model.StatsConfig) (stats.Report, error) {
	f.calls = append(f.calls, cfg)
	return f.report, f.err
}

func sampleReport() stats.Report {
	sessions := []model.SessionAggregate{
		{SessionID: 1, Typed: 120, Misses: 6, DurationMs: 90000, ScorePerChar: 0.9},
		{SessionID: 2, Typed: 120, Misses: 2, DurationMs: 80000, ScorePerChar: 0.7},
	}
	scoreTrend, accTrend := stats.Trends(sessions, 2)
	return stats.Report{
		Highscore:     0.7,
		Sessions:      sessions,
		Summary:       stats.Summarize(sessions),
		ScoreTrend:    scoreTrend,
		AccuracyTrend: accTrend,
		Difficulty: stats.DifficultyRows([]model.CharAggregate{
			{Char: "q", Difficulty: 0.8, Attempts: 10, TotalMisses: 4},
			{Char: "\x05", Difficulty: 0.3, Attempts: 2},
		}),
	}
}

func sized(t *testing.T, m *Model) *Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(*Model)
}

func TestOverviewShowsCardsAndTrends(t *testing.T) {
	f := &fakeLoader{report: sampleReport()}
	m := sized(t, NewModelWithLoader(f.load, model.StatsConfig{CurveWindow: 2}))

	view := ansi.Strip(m.View())
	for _, want := range []string{"Overview", "Difficulty", "Highscore", "0.700 s/char", "Sessions", "Trends (moving average over 2 sessions)", "accuracy %"} {
		assert.Contains(t, view, want)
	}
	lines := strings.Split(m.View(), "\n")
	assert.Len(t, lines, 30)
}

func TestDifficultyTabListsRows(t *testing.T) {
	f := &fakeLoader{report: sampleReport()}
	m := sized(t, NewModelWithLoader(f.load, model.StatsConfig{CurveWindow: 2}))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(*Model)
	require.Equal(t, tabDifficulty, m.activeTab)
	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Miss Ratio")
	assert.Contains(t, view, "0.800")
	assert.Contains(t, view, "^E")
	assert.Contains(t, view, "control + e")
}

func TestCurveWindowKeysReload(t *testing.T) {
	f := &fakeLoader{report: sampleReport()}
	m := sized(t, NewModelWithLoader(f.load, model.StatsConfig{CurveWindow: 7}))

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'='}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	require.Len(t, f.calls, 4)
	assert.Equal(t, 10, f.calls[1].CurveWindow)
	assert.Equal(t, 5, f.calls[2].CurveWindow)
	assert.Equal(t, 1, f.calls[3].CurveWindow)
}

func TestLoadErrorShownInFooter(t *testing.T) {
	f := &fakeLoader{err: errors.New("database is locked")}
	m := sized(t, NewModelWithLoader(f.load, model.StatsConfig{CurveWindow: 1}))
	view := ansi.Strip(m.View())
	assert.Contains(t, view, "database is locked")
	assert.Contains(t, view, "Failed to load stats.")
}

func TestParseFilters(t *testing.T) {
	cur := model.StatsConfig{CurveWindow: 20, Last: 3}

	cfg, err := parseFilters(cur, "2026-02-01", "", "")
	require.NoError(t, err)
	require.NotNil(t, cfg.Since)
	assert.Equal(t, time.February, cfg.Since.Month())
	assert.Equal(t, 0, cfg.Last)
	assert.Equal(t, 20, cfg.CurveWindow)

	cfg, err = parseFilters(cur, "", "12", "4")
	require.NoError(t, err)
	assert.Nil(t, cfg.Since)
	assert.Equal(t, 12, cfg.Last)
	assert.Equal(t, 4, cfg.CurveWindow)

	_, err = parseFilters(cur, "yesterday", "", "")
	assert.Error(t, err)
	_, err = parseFilters(cur, "", "-1", "")
	assert.Error(t, err)
	_, err = parseFilters(cur, "", "", "0")
	assert.Error(t, err)
}

func TestFilterFormAppliesOnEnter(t *testing.T) {
	f := &fakeLoader{report: sampleReport()}
	m := sized(t, NewModelWithLoader(f.load, model.StatsConfig{CurveWindow: 20}))

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	require.True(t, m.filterMode)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.filterMode)
	last := f.calls[len(f.calls)-1]
	assert.Equal(t, 5, last.Last)
	assert.Contains(t, m.filterSummary(), "last=5")
}
