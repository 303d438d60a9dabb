package stats

import (
	"context"

	"github.com/verte-zerg/adaptype/internal/model"
	"github.com/verte-zerg/adaptype/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Highscore float64
	Sessions  []model.SessionAggregate
	Summary   Summary
	// ScoreTrend and AccuracyTrend are moving averages over CurveWindow.
	ScoreTrend    []float64
	AccuracyTrend []float64
	Difficulty    []DifficultyRow
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	highscore, err := st.Highscore(ctx)
	if err != nil {
		return Report{}, err
	}
	chars, err := st.ListCharScores(ctx)
	if err != nil {
		return Report{}, err
	}
	rows := DifficultyRows(chars)
	if cfg.Top > 0 && len(rows) > cfg.Top {
		rows = rows[:cfg.Top]
	}

	scoreTrend, accTrend := Trends(sessions, cfg.CurveWindow)
	return Report{
		Highscore:     highscore,
		Sessions:      sessions,
		Summary:       Summarize(sessions),
		ScoreTrend:    scoreTrend,
		AccuracyTrend: accTrend,
		Difficulty:    rows,
	}, nil
}
