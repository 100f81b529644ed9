// Package client provides a fluent API for declaring simulation models and a
// client for consuming live snapshot streams.
package client

import (
	"github.com/biocircuit/genesim/internal/genex"
)

// ModelBuilder provides a fluent API for building model configurations. Use
// it to declare species, reactions, polymerase templates and tRNA pools that
// describe a gene-expression system.
type ModelBuilder struct {
	cfg genex.ModelConfig
}

// NewModel creates a new model builder with the given name. The name
// identifies the model in run records and logs.
func NewModel(name string) *ModelBuilder {
	return &ModelBuilder{cfg: genex.ModelConfig{Name: name}}
}

// CellVolume sets the cell volume (liters) used for rate-constant scaling.
func (b *ModelBuilder) CellVolume(v float64) *ModelBuilder {
	b.cfg.CellVolume = v
	return b
}

// Seed sets the random seed so the run is exactly reproducible.
func (b *ModelBuilder) Seed(seed int64) *ModelBuilder {
	b.cfg.Seed = seed
	return b
}

// Species declares a species with its initial copy number.
func (b *ModelBuilder) Species(name string, count int) *ModelBuilder {
	b.cfg.Species = append(b.cfg.Species, genex.SpeciesConfig{Name: name, Count: count})
	return b
}

// Reaction declares an elementary mass-action reaction.
func (b *ModelBuilder) Reaction(rate float64, reactants, products []string) *ModelBuilder {
	b.cfg.Reactions = append(b.cfg.Reactions, genex.ReactionConfig{
		Rate:      rate,
		Reactants: reactants,
		Products:  products,
	})
	return b
}

// Polymerase declares a polymerase template with footprint, speed and free
// copy number.
func (b *ModelBuilder) Polymerase(name string, footprint int, speed float64, count int) *ModelBuilder {
	b.cfg.Polymerases = append(b.cfg.Polymerases, genex.PolymeraseConfig{
		Name:      name,
		Footprint: footprint,
		Speed:     speed,
		Count:     count,
	})
	return b
}

// Ribosome declares the ribosome template.
func (b *ModelBuilder) Ribosome(footprint int, speed float64, count int) *ModelBuilder {
	b.cfg.Ribosome = &genex.RibosomeConfig{Footprint: footprint, Speed: speed, Count: count}
	return b
}

// TRNA declares tRNA pools from the nested codon to anticodon to counts
// structure with one shared charging rate constant.
func (b *ModelBuilder) TRNA(codons map[string]map[string]genex.TRNAPoolConfig, rateConstant float64) *ModelBuilder {
	b.cfg.TRNA = &genex.TRNAConfig{Codons: codons, RateConstant: rateConstant}
	return b
}

// Config returns the accumulated configuration.
func (b *ModelBuilder) Config() genex.ModelConfig {
	return b.cfg
}

// Build validates the configuration and constructs a runnable model.
func (b *ModelBuilder) Build() (*genex.Model, error) {
	return genex.BuildModelFromConfig(b.cfg)
}
