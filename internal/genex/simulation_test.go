package genex

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// memorySink collects every snapshot batch in memory.
type memorySink struct {
	batches [][]CountRow
	closed  bool
}

func (s *memorySink) Write(rows []CountRow) error {
	batch := make([]CountRow, len(rows))
	copy(batch, rows)
	s.batches = append(s.batches, batch)
	return nil
}

func (s *memorySink) Close() error {
	s.closed = true
	return nil
}

// loadModelFromExamples loads a model config from the examples directory.
func loadModelFromExamples(t *testing.T, filename string) ModelConfig {
	t.Helper()

	// This file is in internal/genex/, so examples/model is two levels up.
	examplesPath := filepath.Join("..", "..", "examples", "model", filename)
	data, err := os.ReadFile(examplesPath)
	if err != nil {
		t.Fatalf("Failed to read model file %s: %v", examplesPath, err)
	}

	var cfg ModelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("Failed to parse model JSON: %v", err)
	}
	if err := ValidateModelConfig(cfg); err != nil {
		t.Fatalf("Model validation failed: %v", err)
	}
	return cfg
}

func TestSimulationDecayConservesMass(t *testing.T) {
	cfg := loadModelFromExamples(t, "decay.json")
	model, err := BuildModelFromConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to build model: %v", err)
	}

	sink := &memorySink{}
	if err := model.Simulate(50, 5, sink); err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(sink.batches) == 0 {
		t.Fatal("Expected at least one snapshot batch")
	}

	for _, batch := range sink.batches {
		a := findRow(t, batch, "A").Count
		b := findRow(t, batch, "B").Count
		if a+b != 100 {
			t.Errorf("Mass not conserved at t=%g: A=%d B=%d", batch[0].Time, a, b)
		}
		if a < 0 || b < 0 {
			t.Errorf("Negative count at t=%g: A=%d B=%d", batch[0].Time, a, b)
		}
	}

	final := sink.batches[len(sink.batches)-1]
	if a := findRow(t, final, "A").Count; a != 0 {
		t.Errorf("Expected A fully consumed by horizon, got %d", a)
	}
	if b := findRow(t, final, "B").Count; b != 100 {
		t.Errorf("Expected B at 100 by horizon, got %d", b)
	}
}

func TestSimulationStallEndsRunEarly(t *testing.T) {
	model := NewModel(testVolume)
	logger := &recordingLogger{}
	model.SetLogger(logger)
	if err := model.AddSpecies("A", 1); err != nil {
		t.Fatalf("AddSpecies failed: %v", err)
	}
	if err := model.AddReaction(1.0, []string{"A"}, []string{"B"}); err != nil {
		t.Fatalf("AddReaction failed: %v", err)
	}

	sink := &memorySink{}
	// After the single event fires the network is dead; the run must end
	// cleanly without spinning until the horizon.
	if err := model.Simulate(1e6, 10, sink); err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(sink.batches) == 0 {
		t.Fatal("Expected a final snapshot on stall")
	}
	final := sink.batches[len(sink.batches)-1]
	if b := findRow(t, final, "B").Count; b != 1 {
		t.Errorf("Expected B at 1 in final snapshot, got %d", b)
	}

	if err := model.Engine().Iterate(); !errors.Is(err, ErrStalled) {
		t.Errorf("Expected engine stalled after run, got %v", err)
	}
}

func TestSimulationReplicateIsolation(t *testing.T) {
	cfg := loadModelFromExamples(t, "decay.json")

	first, err := BuildModelFromConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to build model: %v", err)
	}
	if err := first.Simulate(50, 10, &memorySink{}); err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if got := first.Registry().Count("A"); got != 0 {
		t.Fatalf("Expected run 1 to consume all A, got %d", got)
	}

	// The second run starts from its own declared initial counts, not run
	// 1's final state.
	second, err := BuildModelFromConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to build model: %v", err)
	}
	if got := second.Registry().Count("A"); got != 100 {
		t.Errorf("Expected run 2 to start at A=100, got %d", got)
	}
	if got := second.Registry().Count("B"); got != 0 {
		t.Errorf("Expected run 2 to start at B=0, got %d", got)
	}
}

func TestSimulationRegistryResetBetweenRuns(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Increment("A", 100); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if err := registry.Increment("A", -100); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	registry.Reset()
	if err := registry.Increment("A", 25); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if got := registry.Count("A"); got != 25 {
		t.Errorf("Expected fresh count 25 after reset, got %d", got)
	}
}

func TestSimulationTranslationModel(t *testing.T) {
	cfg := loadModelFromExamples(t, "translation.json")
	model, err := BuildModelFromConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to build model: %v", err)
	}

	registry := model.Registry()
	if got := registry.Count("rnapol"); got != 5 {
		t.Errorf("Expected 5 polymerases, got %d", got)
	}
	if got := registry.Count(RibosomeName); got != 100 {
		t.Errorf("Expected 100 ribosomes, got %d", got)
	}
	if got := registry.Count("UUU_charged"); got != 150 {
		t.Errorf("Expected 150 charged UUU, got %d", got)
	}
	if got := registry.CognateAnticodons("GGG"); len(got) != 2 {
		t.Errorf("Expected 2 anticodons for GGG, got %v", got)
	}

	// Charging reactions keep the pools in flux; run a short window and
	// check conservation per anticodon pool.
	sink := &memorySink{}
	if err := model.Simulate(2, 1, sink); err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	final := sink.batches[len(sink.batches)-1]
	charged := findRow(t, final, "UUU_charged").Count
	uncharged := findRow(t, final, "UUU_uncharged").Count
	if charged+uncharged != 200 {
		t.Errorf("Expected UUU pool conserved at 200, got %d", charged+uncharged)
	}
}
