package genex

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestEngine(t *testing.T, seed int64) (*Registry, *Gillespie) {
	t.Helper()
	registry := NewRegistry()
	engine := NewGillespie(rand.New(rand.NewSource(seed)))
	registry.PropensitySignal.Connect(engine.UpdatePropensity)
	return registry, engine
}

func linkDecay(t *testing.T, registry *Registry, engine *Gillespie, species string, count int, rate float64, product string) *SpeciesReaction {
	t.Helper()
	if err := registry.Increment(species, count); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	rxn, err := NewSpeciesReaction(registry, rate, testVolume, []string{species}, []string{product})
	if err != nil {
		t.Fatalf("NewSpeciesReaction failed: %v", err)
	}
	registry.AddDependency(species, rxn)
	registry.AddDependency(product, rxn)
	engine.LinkReaction(rxn)
	return rxn
}

func TestEngineStalled(t *testing.T) {
	_, engine := newTestEngine(t, 1)

	err := engine.Iterate()
	if !errors.Is(err, ErrStalled) {
		t.Fatalf("Expected ErrStalled, got %v", err)
	}
	if engine.Time() != 0 {
		t.Errorf("Expected time unchanged at 0, got %g", engine.Time())
	}
}

func TestEngineAdvancesTimeAndState(t *testing.T) {
	registry, engine := newTestEngine(t, 1)
	linkDecay(t, registry, engine, "A", 100, 1.0, "B")

	if err := engine.Iterate(); err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}
	if engine.Time() <= 0 {
		t.Errorf("Expected positive simulated time, got %g", engine.Time())
	}
	if got := registry.Count("A"); got != 99 {
		t.Errorf("Expected A consumed to 99, got %d", got)
	}
	if got := registry.Count("B"); got != 1 {
		t.Errorf("Expected B produced to 1, got %d", got)
	}
}

func TestEngineTotalPropensityStaysExact(t *testing.T) {
	registry, engine := newTestEngine(t, 7)
	linkDecay(t, registry, engine, "A", 50, 2.0, "B")
	linkDecay(t, registry, engine, "B", 10, 0.5, "C")

	dimer, err := NewSpeciesReaction(registry, 1e6, testVolume, []string{"A", "A"}, []string{"A2"})
	if err != nil {
		t.Fatalf("NewSpeciesReaction failed: %v", err)
	}
	registry.AddDependency("A", dimer)
	registry.AddDependency("A2", dimer)
	engine.LinkReaction(dimer)

	for i := 0; i < 200; i++ {
		if err := engine.Iterate(); err != nil {
			if errors.Is(err, ErrStalled) {
				break
			}
			t.Fatalf("Iterate failed: %v", err)
		}

		sum := 0.0
		for _, r := range engine.Reactions() {
			p := r.Propensity()
			if p < 0 {
				t.Fatalf("Negative propensity %g after event %d", p, i)
			}
			sum += p
		}
		if !almostEqual(sum, engine.TotalPropensity()) {
			t.Fatalf("Total propensity %g diverged from exact sum %g after event %d",
				engine.TotalPropensity(), sum, i)
		}
	}

	if got := registry.Count("A"); got < 0 {
		t.Errorf("Species A went negative: %d", got)
	}
}

func TestEngineDeterminism(t *testing.T) {
	type step struct {
		time float64
		a, b int
	}

	run := func() []step {
		registry, engine := newTestEngine(t, 42)
		linkDecay(t, registry, engine, "A", 100, 1.0, "B")
		var steps []step
		for i := 0; i < 80; i++ {
			if err := engine.Iterate(); err != nil {
				t.Fatalf("Iterate failed: %v", err)
			}
			steps = append(steps, step{engine.Time(), registry.Count("A"), registry.Count("B")})
		}
		return steps
	}

	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Runs diverged at event %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestEngineLinkReactionIdempotent(t *testing.T) {
	registry, engine := newTestEngine(t, 1)
	rxn := linkDecay(t, registry, engine, "A", 10, 1.0, "B")

	before := engine.TotalPropensity()
	engine.LinkReaction(rxn)
	if len(engine.Reactions()) != 1 {
		t.Errorf("Expected one linked reaction, got %d", len(engine.Reactions()))
	}
	if engine.TotalPropensity() != before {
		t.Errorf("Expected total unchanged at %g, got %g", before, engine.TotalPropensity())
	}
}

func TestEngineIgnoresUnlinkedReactions(t *testing.T) {
	registry, engine := newTestEngine(t, 1)
	rxn, err := NewSpeciesReaction(registry, 1.0, testVolume, []string{"A"}, []string{"B"})
	if err != nil {
		t.Fatalf("NewSpeciesReaction failed: %v", err)
	}

	// Updating before linking must not disturb the total.
	engine.UpdatePropensity(rxn)
	if engine.TotalPropensity() != 0 {
		t.Errorf("Expected total 0, got %g", engine.TotalPropensity())
	}
}
