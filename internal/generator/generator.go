// Package generator picks practice characters.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/tuichar/internal/ascii"
)

// Generator produces random prompt characters.
type Generator struct {
	rnd   *rand.Rand
	chars []ascii.Char
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{
		rnd:   rand.New(rand.NewSource(seed)),
		chars: ascii.All(),
	}
}

// Pick selects a character uniformly from the supported set.
func (g *Generator) Pick() ascii.Char {
	return g.chars[g.rnd.Intn(len(g.chars))]
}

// PickWeighted selects a character, weighting members of weakSet by
// 1+factor relative to the rest.
func (g *Generator) PickWeighted(weakSet map[ascii.Char]struct{}, factor float64) ascii.Char {
	if len(weakSet) == 0 || factor <= 0 {
		return g.Pick()
	}
	weights := make([]float64, len(g.chars))
	total := 0.0
	for i, c := range g.chars {
		w := 1.0
		if _, ok := weakSet[c]; ok {
			w += factor
		}
		weights[i] = w
		total += w
	}

	r := g.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return g.chars[i]
		}
	}
	return g.chars[len(g.chars)-1]
}
