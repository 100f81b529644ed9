package genex

import (
	"fmt"
	"sort"
)

// Registry is the per-run species table: named integer copy numbers plus a
// reverse index from species name to every reaction whose propensity depends
// on it. It owns the propensity-invalidation signal but never recomputes
// propensities itself; the engine subscribes and does that, which keeps the
// registry decoupled from reaction semantics.
//
// A Registry is deliberately not global. Every run constructs its own and
// passes it to all components, so replicate runs cannot leak state into each
// other. Reset exists for callers that want to reuse one instance across
// independent runs anyway.
type Registry struct {
	logger Logger

	species        map[string]int
	deps           map[string][]Reaction
	polymersBySite map[string][]Polymer
	wrappers       map[Polymer]Reaction
	codonMap       map[string][]string

	collisions   map[string]int
	transcripts  map[string]int
	riboPerGene  map[string]int
	terminations map[string]int

	// PropensitySignal carries every reaction whose propensity was
	// invalidated by a species count change.
	PropensitySignal Signal[Reaction]

	// TRNASignal carries the name of a tRNA pool species perturbed by a
	// charging reaction, so translation elongation bookkeeping can react.
	TRNASignal Signal[string]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{logger: NewNoOpLogger()}
	r.init()
	return r
}

func (r *Registry) init() {
	r.species = make(map[string]int)
	r.deps = make(map[string][]Reaction)
	r.polymersBySite = make(map[string][]Polymer)
	r.wrappers = make(map[Polymer]Reaction)
	r.codonMap = make(map[string][]string)
	r.collisions = make(map[string]int)
	r.transcripts = make(map[string]int)
	r.riboPerGene = make(map[string]int)
	r.terminations = make(map[string]int)
}

// SetLogger injects a logger. Passing nil restores the no-op logger.
func (r *Registry) SetLogger(l Logger) {
	if l == nil {
		l = NewNoOpLogger()
	}
	r.logger = l
}

// Reset clears all tracked state, including signal wiring. Required before
// reusing a registry for an independent run so no counts, dependencies or
// subscriptions leak across runs.
func (r *Registry) Reset() {
	r.init()
	r.PropensitySignal = Signal[Reaction]{}
	r.TRNASignal = Signal[string]{}
}

// Count returns the current copy number of the named species, zero if it has
// never been referenced.
func (r *Registry) Count(name string) int {
	return r.species[name]
}

// Increment adds delta (may be negative) to the named species, creating the
// entry at zero if absent. A delta that would drive a consumer-owned species
// negative fails with InvalidNameError and leaves the registry unchanged; an
// internal species going negative is a bookkeeping bug and panics. Every
// successful change notifies the propensity signal with the reactions that
// depend on the species.
func (r *Registry) Increment(name string, delta int) error {
	next := r.species[name] + delta
	if next < 0 {
		if IsInternal(name) {
			panic(&InvariantViolation{Msg: fmt.Sprintf(
				"internal species %q would have count %d", name, next)})
		}
		return &InvalidNameError{
			Name:   name,
			Reason: fmt.Sprintf("count would become negative (%d)", next),
		}
	}
	r.species[name] = next
	for _, rxn := range r.deps[name] {
		r.PropensitySignal.Emit(rxn)
	}
	return nil
}

// mustIncrement is Increment for reaction effects, where a failure means the
// propensity bookkeeping let an impossible event fire.
func (r *Registry) mustIncrement(name string, delta int) {
	if err := r.Increment(name, delta); err != nil {
		panic(&InvariantViolation{Msg: err.Error()})
	}
}

// AddDependency records that rxn's propensity must be recomputed whenever the
// named species changes. The registry holds only this non-owning
// back-reference; the engine owns the reaction collection.
func (r *Registry) AddDependency(name string, rxn Reaction) {
	for _, existing := range r.deps[name] {
		if existing == rxn {
			return
		}
	}
	r.deps[name] = append(r.deps[name], rxn)
}

// Dependencies returns the reactions depending on the named species.
func (r *Registry) Dependencies(name string) []Reaction {
	return r.deps[name]
}

// AddPolymerForSite indexes a polymer under a binding-site name so bind
// reactions can choose a target weighted by exposed site counts.
func (r *Registry) AddPolymerForSite(site string, p Polymer) {
	for _, existing := range r.polymersBySite[site] {
		if existing == p {
			return
		}
	}
	r.polymersBySite[site] = append(r.polymersBySite[site], p)
}

// PolymersForSite returns every polymer carrying the named site, in
// registration order.
func (r *Registry) PolymersForSite(site string) []Polymer {
	return r.polymersBySite[site]
}

// AddWrapper associates a polymer with the adapter reaction that exposes it
// to the engine, so mutations delegated to the polymer from outside its own
// Step (bind installation, tRNA pool changes) can invalidate the adapter's
// propensity.
func (r *Registry) AddWrapper(p Polymer, adapter Reaction) {
	r.wrappers[p] = adapter
}

// NotifyPolymer invalidates the adapter propensity of the given polymer.
func (r *Registry) NotifyPolymer(p Polymer) {
	if adapter, ok := r.wrappers[p]; ok {
		r.PropensitySignal.Emit(adapter)
	}
}

// SetCodonMap stores the codon to cognate-anticodon mapping consumed by
// tRNA-aware translation elongation. Read-only at run time.
func (r *Registry) SetCodonMap(m map[string][]string) {
	r.codonMap = m
}

// CognateAnticodons returns the anticodon species names matching a codon.
func (r *Registry) CognateAnticodons(codon string) []string {
	return r.codonMap[codon]
}

// InitializeCollision starts a collision counter for a polymerase template.
func (r *Registry) InitializeCollision(polymeraseName string) {
	if _, ok := r.collisions[polymeraseName]; !ok {
		r.collisions[polymeraseName] = 0
	}
}

// IncrementCollision tallies one collision for a polymerase template.
// Counters accumulate between sampling boundaries, not per event.
func (r *Registry) IncrementCollision(polymeraseName string) {
	r.collisions[polymeraseName]++
}

// ResetCollisions zeroes every collision counter. Called on each sampling
// boundary after the snapshot has been written.
func (r *Registry) ResetCollisions() {
	for name := range r.collisions {
		r.collisions[name] = 0
	}
}

// IncrementTranscript adjusts the per-gene transcript tally. Called by
// polymer collaborators when a transcript is produced or fully degraded.
func (r *Registry) IncrementTranscript(gene string, delta int) {
	r.transcripts[gene] += delta
}

// IncrementRibo adjusts the per-gene bound-ribosome tally feeding the
// ribosome density metric.
func (r *Registry) IncrementRibo(gene string, delta int) {
	r.riboPerGene[gene] += delta
}

// TerminateTranscription handles a genome termination event: the polymerase
// returns to the free pool.
func (r *Registry) TerminateTranscription(ev TerminationEvent) {
	r.mustIncrement(ev.PolymeraseName, 1)
	r.countTermination(ev.Product)
}

// TerminateTranslation handles a transcript termination event: the ribosome
// returns to the free pool and one unit of the protein product is released.
func (r *Registry) TerminateTranslation(ev TerminationEvent) {
	r.mustIncrement(ev.PolymeraseName, 1)
	r.mustIncrement(ev.Product, 1)
	r.IncrementRibo(ev.Product, -1)
	r.countTermination(ev.Product)
}

func (r *Registry) countTermination(name string) {
	r.terminations[name+"_total"]++
}

// Snapshot returns one row per tracked species and derived metric, each
// paired with the supplied simulated time. This is the sole read path used
// for periodic output. Rows are sorted by name so output is stable.
func (r *Registry) Snapshot(time float64) []CountRow {
	names := make(map[string]struct{}, len(r.species))
	for name := range r.species {
		names[name] = struct{}{}
	}
	for name := range r.transcripts {
		names[name] = struct{}{}
	}
	for name := range r.terminations {
		names[name] = struct{}{}
	}
	for name := range r.collisions {
		names[name] = struct{}{}
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	rows := make([]CountRow, 0, len(sorted))
	for _, name := range sorted {
		row := CountRow{
			Time:       time,
			Name:       name,
			Count:      r.species[name],
			Transcript: r.transcripts[name],
			Collisions: r.collisions[name],
		}
		if n, ok := r.terminations[name]; ok {
			row.Count = n
		}
		if row.Transcript > 0 {
			row.RiboDensity = float64(r.riboPerGene[name]) / float64(row.Transcript)
		}
		rows = append(rows, row)
	}
	return rows
}
