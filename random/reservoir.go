// Package random holds small sampling helpers shared by the decision code.
package random

import "math/rand/v2"

// Reservoir picks one item uniformly from a stream of unknown length
// without storing the stream (reservoir sampling with reservoir size 1).
type Reservoir[T any] struct {
	rng  *rand.Rand
	seen int
	pick T
}

func NewReservoir[T any](rng *rand.Rand) *Reservoir[T] {
	return &Reservoir[T]{rng: rng}
}

// Offer considers v. The k-th offered item replaces the current pick with probability 1/k.
func (r *Reservoir[T]) Offer(v T) {
	r.seen++
	if r.seen == 1 || r.rng.IntN(r.seen) == 0 {
		r.pick = v
	}
}

// Reset forgets every offered item, keeping the random source.
func (r *Reservoir[T]) Reset() {
	var zero T
	r.seen = 0
	r.pick = zero
}

// Pick returns the chosen item, or false when nothing was offered.
func (r *Reservoir[T]) Pick() (T, bool) {
	return r.pick, r.seen > 0
}

func (r *Reservoir[T]) Seen() int { return r.seen }

// New returns a seeded source. Seed 0 draws a seed from the runtime.
func New(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
