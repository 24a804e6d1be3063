// Package txid builds identifiers for new sales and purchases, e.g.
// "PJ-20261018-0421". They sort by day and rarely collide within one; the
// webhook remains the place where real duplicates would be detected.
package txid

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const suffixSpace = 10000

type Generator struct {
	now  func() time.Time
	intn func(int) int
}

type Option func(*Generator)

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRand sets the random source; intn must return a value in [0, n).
func WithRand(intn func(int) int) Option {
	return func(g *Generator) { g.intn = intn }
}

func New(opts ...Option) *Generator {
	g := &Generator{
		now:  time.Now,
		intn: rand.IntN,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate returns PREFIX-YYYYMMDD-NNNN using the local date. NNNN mixes the
// low digits of the clock's milliseconds with a random number.
func (g *Generator) Generate(prefix string) string {
	now := g.now()
	suffix := (now.UnixMilli()%suffixSpace + int64(g.intn(suffixSpace))) % suffixSpace

	return fmt.Sprintf("%s-%s-%04d", prefix, now.Format("20060102"), suffix)
}
