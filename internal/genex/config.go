package genex

// SpeciesConfig declares one species and its initial copy number.
type SpeciesConfig struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ReactionConfig declares one elementary mass-action reaction.
type ReactionConfig struct {
	Rate      float64  `json:"rate"`
	Reactants []string `json:"reactants,omitempty"`
	Products  []string `json:"products,omitempty"`
}

// PolymeraseConfig declares a polymerase template.
type PolymeraseConfig struct {
	Name      string  `json:"name"`
	Footprint int     `json:"footprint"`
	Speed     float64 `json:"speed"`
	Count     int     `json:"count"`
}

// RibosomeConfig declares the ribosome template.
type RibosomeConfig struct {
	Footprint int     `json:"footprint"`
	Speed     float64 `json:"speed"`
	Count     int     `json:"count"`
}

// TRNAPoolConfig holds initial charged/uncharged counts for one anticodon.
type TRNAPoolConfig struct {
	Charged   int `json:"charged"`
	Uncharged int `json:"uncharged"`
}

// TRNAConfig declares tRNA pools in the nested codon -> anticodon -> counts
// shape, with one shared charging rate constant.
type TRNAConfig struct {
	Codons       map[string]map[string]TRNAPoolConfig `json:"codons"`
	RateConstant float64                              `json:"rate_constant"`
}

// ModelConfig is the JSON-loadable declaration of a model. Genomes and
// transcripts are external collaborators and are registered programmatically,
// not through configuration.
type ModelConfig struct {
	Name        string             `json:"name"`
	CellVolume  float64            `json:"cell_volume,omitempty"`
	Seed        int64              `json:"seed,omitempty"`
	Species     []SpeciesConfig    `json:"species,omitempty"`
	Reactions   []ReactionConfig   `json:"reactions,omitempty"`
	Polymerases []PolymeraseConfig `json:"polymerases,omitempty"`
	Ribosome    *RibosomeConfig    `json:"ribosome,omitempty"`
	TRNA        *TRNAConfig        `json:"trna,omitempty"`
}
