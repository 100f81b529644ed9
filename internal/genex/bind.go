package genex

import "math/rand"

// bindReaction is the shared structure behind polymerase and RNase binding.
// Propensity is mass-action over the reactant species; execution chooses a
// target polymer from the registry's site index, weighted by each polymer's
// exposed copies of the site, and delegates installation to the polymer.
type bindReaction struct {
	registry     *Registry
	rng          *rand.Rand
	rateConstant float64
	site         string
	template     PolymeraseTemplate
	reactants    []string
}

func (b *bindReaction) Propensity() float64 {
	p := b.rateConstant
	for _, name := range b.reactants {
		p *= float64(b.registry.Count(name))
	}
	return p
}

// Site returns the binding-site species name.
func (b *bindReaction) Site() string {
	return b.site
}

// Template returns the agent template installed on firing.
func (b *bindReaction) Template() PolymeraseTemplate {
	return b.template
}

func (b *bindReaction) bind() Polymer {
	polymer := weightedPolymer(b.rng, b.registry.PolymersForSite(b.site), b.site)
	b.registry.mustIncrement(b.site, -1)
	polymer.Bind(b.template, b.site)
	return polymer
}

// BindPolymerase binds one free polymerase from the template's species pool
// onto an exposed copy of its binding site. Bimolecular: the rate constant is
// scaled mesoscopically at construction.
type BindPolymerase struct {
	bindReaction
}

// NewBindPolymerase builds a bind reaction for a (site, polymerase template)
// pair. Its reactants are the site species and the template's species pool.
func NewBindPolymerase(registry *Registry, rng *rand.Rand, rateConstant, cellVolume float64, site string, template PolymeraseTemplate) *BindPolymerase {
	return &BindPolymerase{bindReaction{
		registry:     registry,
		rng:          rng,
		rateConstant: rateConstant / (Avogadro * cellVolume),
		site:         site,
		template:     template,
		reactants:    []string{site, template.Name},
	}}
}

// Execute consumes one free polymerase and one exposed site and installs the
// polymerase onto the chosen polymer.
func (b *BindPolymerase) Execute() {
	b.registry.mustIncrement(b.template.Name, -1)
	polymer := b.bind()
	b.registry.NotifyPolymer(polymer)
}

// BindRnase is structurally identical to BindPolymerase but templated on an
// RNase. The RNase pool is implicit, so the degradation-site species is the
// only reactant.
type BindRnase struct {
	bindReaction
}

// NewBindRnase builds a degradation bind reaction over the named site, which
// may be a shared internal site or an explicitly declared per-site species.
func NewBindRnase(registry *Registry, rng *rand.Rand, rateConstant, cellVolume float64, template PolymeraseTemplate, site string) *BindRnase {
	return &BindRnase{bindReaction{
		registry:     registry,
		rng:          rng,
		rateConstant: rateConstant / (Avogadro * cellVolume),
		site:         site,
		template:     template,
		reactants:    []string{site},
	}}
}

// Execute consumes one exposed degradation site and installs an RNase onto
// the chosen polymer.
func (b *BindRnase) Execute() {
	polymer := b.bind()
	b.registry.NotifyPolymer(polymer)
}
