package genex

import "fmt"

// PolymerWrapper adapts an externally owned polymer so its internal stepping
// process is visible to the engine as one more Reaction. The aggregate
// propensity is whatever the polymer reports; execution delegates one step,
// during which the polymer may raise termination or transcript events.
type PolymerWrapper struct {
	registry *Registry
	polymer  Polymer
}

// NewPolymerWrapper wraps a polymer and indexes the wrapper in the registry
// so delegated mutations keep the engine's bookkeeping exact.
func NewPolymerWrapper(registry *Registry, polymer Polymer) *PolymerWrapper {
	w := &PolymerWrapper{registry: registry, polymer: polymer}
	registry.AddWrapper(polymer, w)
	return w
}

// Polymer returns the wrapped polymer.
func (w *PolymerWrapper) Polymer() Polymer {
	return w.polymer
}

// Propensity reports the polymer's aggregate internal event propensity.
func (w *PolymerWrapper) Propensity() float64 {
	p := w.polymer.InternalPropensity()
	if p < 0 {
		panic(&InvariantViolation{Msg: fmt.Sprintf(
			"polymer %q reported negative propensity %g", w.polymer.Name(), p)})
	}
	return p
}

// Execute delegates the polymer's next internal step.
func (w *PolymerWrapper) Execute() {
	w.polymer.Step()
}
