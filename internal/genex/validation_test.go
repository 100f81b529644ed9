package genex

import (
	"strings"
	"testing"
)

func validConfig() ModelConfig {
	return ModelConfig{
		Name:       "test-model",
		CellVolume: 8e-16,
		Species: []SpeciesConfig{
			{Name: "A", Count: 100},
			{Name: "B", Count: 0},
		},
		Reactions: []ReactionConfig{
			{Rate: 1.0, Reactants: []string{"A"}, Products: []string{"B"}},
		},
	}
}

func TestValidateModelConfigAccepted(t *testing.T) {
	if err := ValidateModelConfig(validConfig()); err != nil {
		t.Errorf("Expected valid config accepted, got %v", err)
	}
}

func TestValidateModelConfigRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *ModelConfig)
		wantMsg string
	}{
		{
			name:    "missing name",
			mutate:  func(cfg *ModelConfig) { cfg.Name = "" },
			wantMsg: "model name is required",
		},
		{
			name:    "negative cell volume",
			mutate:  func(cfg *ModelConfig) { cfg.CellVolume = -1 },
			wantMsg: "cell volume must not be negative",
		},
		{
			name: "reserved species name",
			mutate: func(cfg *ModelConfig) {
				cfg.Species = append(cfg.Species, SpeciesConfig{Name: "__secret", Count: 1})
			},
			wantMsg: "reserved for internal use",
		},
		{
			name: "duplicate species",
			mutate: func(cfg *ModelConfig) {
				cfg.Species = append(cfg.Species, SpeciesConfig{Name: "A", Count: 1})
			},
			wantMsg: "duplicate species name: A",
		},
		{
			name: "negative species count",
			mutate: func(cfg *ModelConfig) {
				cfg.Species[0].Count = -5
			},
			wantMsg: "initial count must not be negative",
		},
		{
			name: "non-positive reaction rate",
			mutate: func(cfg *ModelConfig) {
				cfg.Reactions[0].Rate = 0
			},
			wantMsg: "rate constant must be positive",
		},
		{
			name: "three reactants",
			mutate: func(cfg *ModelConfig) {
				cfg.Reactions[0].Reactants = []string{"A", "A", "A"}
			},
			wantMsg: "at most two reactants",
		},
		{
			name: "reserved reactant name",
			mutate: func(cfg *ModelConfig) {
				cfg.Reactions[0].Reactants = []string{"__ribosome"}
			},
			wantMsg: "reserved",
		},
		{
			name: "bad polymerase footprint",
			mutate: func(cfg *ModelConfig) {
				cfg.Polymerases = []PolymeraseConfig{{Name: "rnapol", Footprint: 0, Speed: 40, Count: 1}}
			},
			wantMsg: "footprint must be positive",
		},
		{
			name: "bad ribosome speed",
			mutate: func(cfg *ModelConfig) {
				cfg.Ribosome = &RibosomeConfig{Footprint: 10, Speed: 0, Count: 1}
			},
			wantMsg: "speed must be positive",
		},
		{
			name: "trna without codons",
			mutate: func(cfg *ModelConfig) {
				cfg.TRNA = &TRNAConfig{RateConstant: 100}
			},
			wantMsg: "at least one codon entry",
		},
		{
			name: "negative trna pool",
			mutate: func(cfg *ModelConfig) {
				cfg.TRNA = &TRNAConfig{
					RateConstant: 100,
					Codons: map[string]map[string]TRNAPoolConfig{
						"AAA": {"UUU": {Charged: -1, Uncharged: 0}},
					},
				}
			},
			wantMsg: "counts must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateModelConfig(cfg)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected error containing %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestValidationErrorAccumulates(t *testing.T) {
	cfg := validConfig()
	cfg.Name = ""
	cfg.CellVolume = -1

	err := ValidateModelConfig(cfg)
	vErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
	if len(vErr.Issues) != 2 {
		t.Errorf("Expected 2 issues, got %d: %v", len(vErr.Issues), vErr.Issues)
	}
	if !strings.Contains(vErr.Error(), "model validation errors:") {
		t.Errorf("Expected combined message, got %q", vErr.Error())
	}
}
