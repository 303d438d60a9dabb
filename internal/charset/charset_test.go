package charset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepetitionCounts(t *testing.T) {
	set, err := New(DefaultOptions())
	require.NoError(t, err)

	counts := map[rune]int{}
	for _, r := range set.Base() {
		counts[r]++
	}
	// Home row letters appear in the home row group and the lowercase group.
	assert.Equal(t, 3+4, counts['a'])
	assert.Equal(t, 4, counts['b'])
	assert.Equal(t, 2, counts['Q'])
	assert.Equal(t, 2, counts['7'])
	assert.Equal(t, 1, counts['~'])
	assert.Equal(t, 1, counts['å'])
	assert.Equal(t, 1, counts[0x17])
	assert.Zero(t, counts[0x03], "ctrl-c is the cancel key")

	want := 3*10 + 4*26 + 2*26 + 2*10 + len([]rune(symbols)) + len(controlKeys) + 6
	assert.Len(t, set.Base(), want)
}

func TestCharsDeclarationOrder(t *testing.T) {
	set, err := New(Options{HomeRow: "asdf"})
	require.NoError(t, err)

	chars := set.Chars()
	assert.Equal(t, []rune("asdfbceg"), chars[:8])
	seen := map[rune]bool{}
	for _, r := range chars {
		assert.False(t, seen[r], "duplicate %q", r)
		seen[r] = true
	}
	assert.NotContains(t, chars, rune(0x01))
}

func TestNewRejectsEmptyHomeRow(t *testing.T) {
	_, err := New(Options{HomeRow: "  "})
	require.Error(t, err)
}

func TestKind(t *testing.T) {
	set, err := New(DefaultOptions())
	require.NoError(t, err)

	tests := []struct {
		r    rune
		want Kind
	}{
		{'a', KindNormal},
		{'%', KindNormal},
		{' ', KindSpace},
		{0x05, KindControl},
		{'Ö', KindAccented},
		{'é', KindAccented},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, set.Kind(tt.r), "kind of %q", tt.r)
	}
}

func TestHint(t *testing.T) {
	assert.Equal(t, "shift + 1", Hint('!'))
	assert.Equal(t, "control + w", Hint(0x17))
	assert.Equal(t, "control + a", Hint(0x01))
	assert.Equal(t, Placeholder, Hint('k'))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "^E", Label(0x05))
	assert.Equal(t, "<space>", Label(' '))
	assert.Equal(t, "x", Label('x'))
	assert.Equal(t, 'R', Letter(0x12))
	assert.True(t, strings.HasPrefix(Label(0x01), "^"))
}
