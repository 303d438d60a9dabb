// Package generator builds practice lines biased toward difficult characters.
package generator

import (
	"math"
	"math/rand"
	"time"

	"github.com/verte-zerg/adaptype/internal/scores"
)

// DefaultPoolFactor is how many pool copies one unit of difficulty buys.
const DefaultPoolFactor = 20

// baseShare is the probability of drawing from the unweighted base set.
const baseShare = 0.5

// Ranker exposes the current difficulty ranking.
type Ranker interface {
	RankedByDifficulty() []scores.Ranked
}

// Generator produces practice lines.
type Generator struct {
	rnd    *rand.Rand
	ranker Ranker
	base   []rune
	factor int
}

// New returns a Generator seeded with the current time.
func New(ranker Ranker, base []rune, factor int) *Generator {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())), ranker, base, factor)
}

// NewWithRand returns a Generator drawing from rnd.
func NewWithRand(rnd *rand.Rand, ranker Ranker, base []rune, factor int) *Generator {
	return &Generator{
		rnd:    rnd,
		ranker: ranker,
		base:   append([]rune(nil), base...),
		factor: factor,
	}
}

// Generate returns exactly length characters. Each position is drawn from the
// base set or, with equal probability, from the difficulty-weighted pool.
func (g *Generator) Generate(length int) []rune {
	if length <= 0 {
		return []rune{}
	}
	pool := g.Pool()
	if len(pool) == 0 {
		pool = g.base
	}
	line := make([]rune, 0, length)
	for i := 0; i < length; i++ {
		if g.rnd.Float64() < baseShare {
			line = append(line, g.base[g.rnd.Intn(len(g.base))])
			continue
		}
		line = append(line, pool[g.rnd.Intn(len(pool))])
	}
	return line
}

// Pool builds the weighted pool from the current ranking.
func (g *Generator) Pool() []rune {
	var pool []rune
	for _, r := range g.ranker.RankedByDifficulty() {
		copies := int(math.Floor(float64(g.factor) * r.Value))
		for i := 0; i < copies; i++ {
			pool = append(pool, r.Char)
		}
	}
	return pool
}
