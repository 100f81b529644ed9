package genex

import "fmt"

// BuildModelFromConfig constructs a Model from a validated configuration.
// The returned model owns a fresh registry and engine; genomes and
// transcripts still have to be registered by the caller before running.
func BuildModelFromConfig(cfg ModelConfig) (*Model, error) {
	if err := ValidateModelConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid model config: %w", err)
	}

	m := NewModel(cfg.CellVolume)
	if cfg.Seed != 0 {
		m.Seed(cfg.Seed)
	}

	for _, sp := range cfg.Species {
		if err := m.AddSpecies(sp.Name, sp.Count); err != nil {
			return nil, fmt.Errorf("adding species %q: %w", sp.Name, err)
		}
	}
	for i, rc := range cfg.Reactions {
		if err := m.AddReaction(rc.Rate, rc.Reactants, rc.Products); err != nil {
			return nil, fmt.Errorf("adding reaction at index %d: %w", i, err)
		}
	}
	for _, pc := range cfg.Polymerases {
		if err := m.AddPolymerase(pc.Name, pc.Footprint, pc.Speed, pc.Count); err != nil {
			return nil, fmt.Errorf("adding polymerase %q: %w", pc.Name, err)
		}
	}
	if cfg.Ribosome != nil {
		if err := m.AddRibosome(cfg.Ribosome.Footprint, cfg.Ribosome.Speed, cfg.Ribosome.Count); err != nil {
			return nil, fmt.Errorf("adding ribosome: %w", err)
		}
	}
	if cfg.TRNA != nil {
		codons := make(map[string]map[string]TRNAPool, len(cfg.TRNA.Codons))
		for codon, anticodons := range cfg.TRNA.Codons {
			codons[codon] = make(map[string]TRNAPool, len(anticodons))
			for anticodon, pool := range anticodons {
				codons[codon][anticodon] = TRNAPool{Charged: pool.Charged, Uncharged: pool.Uncharged}
			}
		}
		if err := m.AddTRNA(codons, cfg.TRNA.RateConstant); err != nil {
			return nil, fmt.Errorf("adding trna pools: %w", err)
		}
	}
	return m, nil
}
