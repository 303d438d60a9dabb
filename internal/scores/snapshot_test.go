package scores

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRestoreKeepsState(t *testing.T) {
	s := New([]rune("abc"), DefaultParams())
	require.NoError(t, s.AddHit('b', 2))
	s.RecordSessionScore(1.75)

	restored, err := Restore([]rune("abc"), DefaultParams(), s.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), restored.Snapshot())
	assert.Equal(t, 1.75, restored.Highscore())
}

func TestRestoreOverlaysDeclaredSet(t *testing.T) {
	snap := Snapshot{
		Highscore: 3,
		Entries: []Entry{
			{Char: 'a', Difficulty: Difficulty{WeightedMisses: 2, Attempts: 4, TotalMisses: 8}},
			{Char: 'q', Difficulty: Difficulty{WeightedMisses: 9, Attempts: 1, TotalMisses: 9}},
		},
	}
	s, err := Restore([]rune("ab"), DefaultParams(), snap)
	require.NoError(t, err)

	a, _ := s.Get('a')
	assert.Equal(t, 4, a.Attempts)
	b, _ := s.Get('b')
	assert.Equal(t, DefaultInitial, b.WeightedMisses)
	_, ok := s.Get('q')
	assert.False(t, ok)
	assert.Len(t, s.RankedByDifficulty(), 2)
}

func TestRestoreRejectsCorruptValues(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
	}{
		{"nan highscore", Snapshot{Highscore: math.NaN()}},
		{"negative highscore", Snapshot{Highscore: -1}},
		{"negative attempts", Snapshot{Highscore: 1, Entries: []Entry{{Char: 'a', Difficulty: Difficulty{Attempts: -1}}}}},
		{"infinite difficulty", Snapshot{Highscore: 1, Entries: []Entry{{Char: 'a', Difficulty: Difficulty{WeightedMisses: math.Inf(1)}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore([]rune("a"), DefaultParams(), tt.snap)
			require.Error(t, err)
		})
	}
}
