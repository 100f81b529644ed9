package genex

import (
	"math"
	"math/rand"
)

// Gillespie is the stochastic simulation engine: it owns simulated time, the
// sole owning collection of linked reactions, and the event-selection loop.
// The reaction collection is append-only, so adapters for transcripts created
// mid-run can be linked without disturbing existing entries.
//
// Per-reaction propensities are cached and the total is maintained
// incrementally through UpdatePropensity; the full list is never rescanned
// after a firing.
type Gillespie struct {
	rng          *rand.Rand
	time         float64
	reactions    []Reaction
	index        map[Reaction]int
	propensities []float64
	alpha        float64
}

// NewGillespie creates an engine drawing from the given random stream. The
// stream is shared with bind reactions so a run consumes a single sequence of
// draws and is exactly reproducible under a fixed seed.
func NewGillespie(rng *rand.Rand) *Gillespie {
	return &Gillespie{
		rng:   rng,
		index: make(map[Reaction]int),
	}
}

// Time returns the current simulated time.
func (g *Gillespie) Time() float64 {
	return g.time
}

// TotalPropensity returns the maintained sum of all linked reactions'
// propensities.
func (g *Gillespie) TotalPropensity() float64 {
	return g.alpha
}

// Reactions returns the linked reactions in link order.
func (g *Gillespie) Reactions() []Reaction {
	return g.reactions
}

// LinkReaction appends a reaction to the engine, computing its initial
// propensity. Linking the same reaction twice is a no-op.
func (g *Gillespie) LinkReaction(r Reaction) {
	if _, ok := g.index[r]; ok {
		return
	}
	g.index[r] = len(g.reactions)
	p := r.Propensity()
	g.reactions = append(g.reactions, r)
	g.propensities = append(g.propensities, p)
	g.alpha += p
}

// UpdatePropensity recomputes one reaction's propensity and adjusts the
// maintained total by the delta. Reactions not yet linked are ignored, which
// lets dependency wiring happen before linking during setup.
func (g *Gillespie) UpdatePropensity(r Reaction) {
	i, ok := g.index[r]
	if !ok {
		return
	}
	p := r.Propensity()
	if p < 0 || math.IsNaN(p) {
		panic(&InvariantViolation{Msg: "reaction produced an invalid propensity"})
	}
	g.alpha += p - g.propensities[i]
	g.propensities[i] = p
}

// Iterate advances the simulation by one event: draw an exponential waiting
// time at rate equal to the total propensity, advance simulated time, select
// a reaction by cumulative weight and execute it. Species changes made by the
// execution flow back through the registry's propensity signal; the executed
// reaction's own propensity is refreshed afterwards since its internal state
// may have changed without touching any species.
//
// Returns ErrStalled without advancing time when the total propensity is
// zero.
func (g *Gillespie) Iterate() error {
	if g.alpha < 0 {
		panic(&InvariantViolation{Msg: "total propensity is negative"})
	}
	if g.alpha == 0 {
		return ErrStalled
	}

	u := g.rng.Float64()
	for u == 0 {
		u = g.rng.Float64()
	}
	g.time += math.Log(1.0/u) / g.alpha

	i := weightedIndex(g.rng, g.propensities, g.alpha)
	r := g.reactions[i]
	r.Execute()
	g.UpdatePropensity(r)
	return nil
}
