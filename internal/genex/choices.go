package genex

import "math/rand"

// weightedIndex draws an index proportional to its weight. total must be the
// sum of weights; zero-weight entries can never be selected. Floating-point
// residue at the end of the cumulative scan falls back to the last entry with
// positive weight.
func weightedIndex(rng *rand.Rand, weights []float64, total float64) int {
	target := rng.Float64() * total
	cumulative := 0.0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		cumulative += w
		if target < cumulative {
			return i
		}
	}
	if last < 0 {
		panic(&InvariantViolation{Msg: "weighted selection over all-zero weights"})
	}
	return last
}

// weightedPolymer draws a polymer proportional to its exposed count of site.
func weightedPolymer(rng *rand.Rand, polymers []Polymer, site string) Polymer {
	weights := make([]float64, len(polymers))
	total := 0.0
	for i, p := range polymers {
		w := float64(p.UncoveredCount(site))
		weights[i] = w
		total += w
	}
	if total <= 0 {
		panic(&InvariantViolation{Msg: "bind fired for site " + site + " with no exposed copies on any polymer"})
	}
	return polymers[weightedIndex(rng, weights, total)]
}
