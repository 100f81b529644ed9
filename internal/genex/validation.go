package genex

import (
	"fmt"
	"strings"
)

// ValidationError collects multiple validation issues
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid model: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "model validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// ValidateModelConfig performs comprehensive validation of a ModelConfig
// before any registry state is touched.
func ValidateModelConfig(cfg ModelConfig) error {
	err := &ValidationError{}

	if cfg.Name == "" {
		err.Add("model name is required")
	}
	if cfg.CellVolume < 0 {
		err.Add("cell volume must not be negative")
	}

	seen := make(map[string]bool)
	for _, sp := range cfg.Species {
		if sp.Name == "" {
			err.Add("species name is required")
			continue
		}
		if IsInternal(sp.Name) {
			err.Add("species '" + sp.Name + "': names prefixed with \"__\" are reserved for internal use")
		}
		if seen[sp.Name] {
			err.Add("duplicate species name: " + sp.Name)
		} else {
			seen[sp.Name] = true
		}
		if sp.Count < 0 {
			err.Add("species '" + sp.Name + "': initial count must not be negative")
		}
	}

	for i, rc := range cfg.Reactions {
		prefix := fmt.Sprintf("reaction at index %d", i)
		if rc.Rate <= 0 {
			err.Add(prefix + ": rate constant must be positive")
		}
		if len(rc.Reactants) > 2 {
			err.Add(prefix + ": at most two reactants are supported")
		}
		for _, name := range rc.Reactants {
			if IsInternal(name) {
				err.Add(prefix + ": reactant '" + name + "' uses the reserved \"__\" prefix")
			}
		}
		for _, name := range rc.Products {
			if IsInternal(name) {
				err.Add(prefix + ": product '" + name + "' uses the reserved \"__\" prefix")
			}
		}
	}

	polSeen := make(map[string]bool)
	for _, pc := range cfg.Polymerases {
		if pc.Name == "" {
			err.Add("polymerase name is required")
			continue
		}
		if IsInternal(pc.Name) {
			err.Add("polymerase '" + pc.Name + "': names prefixed with \"__\" are reserved for internal use")
		}
		if polSeen[pc.Name] {
			err.Add("duplicate polymerase name: " + pc.Name)
		} else {
			polSeen[pc.Name] = true
		}
		if pc.Footprint <= 0 {
			err.Add("polymerase '" + pc.Name + "': footprint must be positive")
		}
		if pc.Speed <= 0 {
			err.Add("polymerase '" + pc.Name + "': speed must be positive")
		}
		if pc.Count < 0 {
			err.Add("polymerase '" + pc.Name + "': count must not be negative")
		}
	}

	if cfg.Ribosome != nil {
		if cfg.Ribosome.Footprint <= 0 {
			err.Add("ribosome: footprint must be positive")
		}
		if cfg.Ribosome.Speed <= 0 {
			err.Add("ribosome: speed must be positive")
		}
		if cfg.Ribosome.Count < 0 {
			err.Add("ribosome: count must not be negative")
		}
	}

	if cfg.TRNA != nil {
		if cfg.TRNA.RateConstant <= 0 {
			err.Add("trna: charging rate constant must be positive")
		}
		if len(cfg.TRNA.Codons) == 0 {
			err.Add("trna: at least one codon entry is required")
		}
		for codon, anticodons := range cfg.TRNA.Codons {
			if len(anticodons) == 0 {
				err.Add("trna: codon '" + codon + "' declares no anticodons")
			}
			for anticodon, pool := range anticodons {
				if pool.Charged < 0 || pool.Uncharged < 0 {
					err.Add("trna: anticodon '" + anticodon + "': counts must not be negative")
				}
			}
		}
	}

	if err.HasIssues() {
		return err
	}
	return nil
}
