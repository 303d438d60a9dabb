package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/adaptype/internal/model"
	"github.com/verte-zerg/adaptype/internal/scores"
	"github.com/verte-zerg/adaptype/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "adaptype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		id, err := st.InsertSession(ctx, model.SessionStats{
			StartedAt:    start,
			EndedAt:      end,
			Rounds:       4,
			LineLength:   30,
			Typed:        120,
			Misses:       i,
			DurationMs:   end.Sub(start).Milliseconds(),
			ScorePerChar: 0.25 + 0.05*float64(i),
		})
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	sc := scores.New([]rune("abc"), scores.DefaultParams())
	if err := sc.AddHit('b', 4); err != nil {
		t.Fatalf("add hit: %v", err)
	}
	sc.RecordSessionScore(0.25)
	if err := st.SaveScores(ctx, sc); err != nil {
		t.Fatalf("save scores: %v", err)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Last: 2, CurveWindow: 2, Top: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if report.Highscore != 0.25 {
		t.Fatalf("unexpected highscore %v", report.Highscore)
	}
	if len(report.ScoreTrend) != 2 || len(report.AccuracyTrend) != 2 {
		t.Fatalf("expected trends for window sessions")
	}
	if len(report.Difficulty) != 2 || report.Difficulty[0].Char != 'b' {
		t.Fatalf("expected b first of 2 rows, got %+v", report.Difficulty)
	}
	if report.Summary.Sessions != 2 {
		t.Fatalf("unexpected summary %+v", report.Summary)
	}
}
