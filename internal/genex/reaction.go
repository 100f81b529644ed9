package genex

import "fmt"

// Avogadro's number, used to transform macroscopic rate constants into
// mesoscopic ones for non-first-order reactions.
const Avogadro = 6.0221409e23

// DefaultCellVolume is the cell volume (in liters) used when a model does not
// declare one.
const DefaultCellVolume = 8e-16

// Reaction is the polymorphic contract shared by every event source the
// engine can select: elementary mass-action reactions, polymerase and RNase
// binding, and polymer adapters. Propensity must be non-negative at every
// instant; Execute applies the reaction's effect and is expected to succeed.
// An effect that cannot apply cleanly is an invariant violation, not an
// error.
type Reaction interface {
	Propensity() float64
	Execute()
}

// SpeciesReaction is an elementary mass-action reaction over simple species.
// At most two reactants are supported. The rate constant is transformed at
// construction time: second-order rates are divided by Avogadro times the
// cell volume, zero-order rates multiplied by it, first-order rates used
// as-is.
type SpeciesReaction struct {
	registry     *Registry
	rateConstant float64
	reactants    []string
	products     []string
	trna         bool
}

// NewSpeciesReaction builds an elementary reaction against the given
// registry. The caller is responsible for registering dependencies and
// linking the reaction into an engine.
func NewSpeciesReaction(registry *Registry, rateConstant, cellVolume float64, reactants, products []string) (*SpeciesReaction, error) {
	if len(reactants) > 2 {
		return nil, fmt.Errorf("species reactions support at most two reactants, got %d", len(reactants))
	}
	switch len(reactants) {
	case 2:
		rateConstant /= Avogadro * cellVolume
	case 0:
		rateConstant *= Avogadro * cellVolume
	}
	return &SpeciesReaction{
		registry:     registry,
		rateConstant: rateConstant,
		reactants:    append([]string(nil), reactants...),
		products:     append([]string(nil), products...),
	}, nil
}

// MarkTRNA flags this reaction as perturbing a tRNA pool. Firing it will
// additionally emit the registry's tRNA signal for each product so
// translation elongation bookkeeping can catch up.
func (r *SpeciesReaction) MarkTRNA() {
	r.trna = true
}

// IsTRNA reports whether the reaction perturbs a tRNA pool.
func (r *SpeciesReaction) IsTRNA() bool {
	return r.trna
}

// Reactants returns the reactant species names.
func (r *SpeciesReaction) Reactants() []string {
	return r.reactants
}

// Products returns the product species names.
func (r *SpeciesReaction) Products() []string {
	return r.products
}

// Propensity computes the mass-action propensity from current counts. A
// self-reaction with reactants {A, A} uses n(n-1)/2 combinatorics rather than
// n squared, so identical-molecule pairings are not double counted.
func (r *SpeciesReaction) Propensity() float64 {
	p := r.rateConstant
	if len(r.reactants) == 2 && r.reactants[0] == r.reactants[1] {
		n := float64(r.registry.Count(r.reactants[0]))
		p *= 0.5 * n * (n - 1)
	} else {
		for _, name := range r.reactants {
			p *= float64(r.registry.Count(name))
		}
	}
	if p < 0 {
		panic(&InvariantViolation{Msg: fmt.Sprintf(
			"negative propensity %g for reaction %v -> %v", p, r.reactants, r.products)})
	}
	return p
}

// Execute consumes one of each reactant and produces one of each product.
func (r *SpeciesReaction) Execute() {
	for _, name := range r.reactants {
		r.registry.mustIncrement(name, -1)
	}
	for _, name := range r.products {
		r.registry.mustIncrement(name, 1)
	}
	if r.trna {
		for _, name := range r.products {
			r.registry.TRNASignal.Emit(name)
		}
	}
}
