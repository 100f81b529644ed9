package main

import (
	"fmt"

	"github.com/biocircuit/genesim/internal/genex"
)

// toyGenome is a deliberately simple Polymer collaborator: one promoter, one
// gene, polymerases moving in fixed-size jumps with no collision geometry.
// It exists to exercise the core's registration, binding, termination and
// transcript-creation paths, not to model real elongation.
type toyGenome struct {
	registry *genex.Registry
	name     string
	promoter string
	gene     string
	length   int
	bindRate float64
	polName  string

	agents      []*boundAgent
	exposed     bool
	made        int
	termination genex.Signal[genex.TerminationEvent]
	transcript  genex.Signal[genex.Polymer]
}

type boundAgent struct {
	template genex.PolymeraseTemplate
	position int
}

func newToyGenome(registry *genex.Registry, polName string, bindRate float64) *toyGenome {
	return &toyGenome{
		registry: registry,
		name:     "toy_genome",
		promoter: "phi1",
		gene:     "proteinX",
		length:   300,
		bindRate: bindRate,
		polName:  polName,
		exposed:  true,
	}
}

func (g *toyGenome) Name() string { return g.name }

// Bindings declares the promoter for the genome itself plus the ribosome
// binding site carried by the transcripts it will produce, so the engine has
// a ribosome bind reaction ready before the first transcript appears.
func (g *toyGenome) Bindings() map[string]map[string]float64 {
	return map[string]map[string]float64{
		g.promoter: {g.polName: g.bindRate},
		"rbs":      {genex.RibosomeName: riboBindRate},
	}
}

func (g *toyGenome) UncoveredCount(site string) int {
	if site == g.promoter && g.exposed {
		return 1
	}
	return 0
}

func (g *toyGenome) Bind(template genex.PolymeraseTemplate, site string) {
	g.agents = append(g.agents, &boundAgent{template: template})
	g.exposed = false
}

func (g *toyGenome) InternalPropensity() float64 {
	total := 0.0
	for _, a := range g.agents {
		total += a.template.Speed
	}
	return total
}

// Step advances the front-most polymerase one footprint, re-exposing the
// promoter once it has cleared and producing a transcript at the end.
func (g *toyGenome) Step() {
	if len(g.agents) == 0 {
		return
	}
	front := g.agents[len(g.agents)-1]
	for _, a := range g.agents {
		if a.position > front.position {
			front = a
		}
	}
	front.position += front.template.Footprint

	if !g.exposed && front.position > front.template.Footprint {
		g.exposed = true
		if err := g.registry.Increment(g.promoter, 1); err != nil {
			panic(fmt.Sprintf("re-exposing promoter: %v", err))
		}
	}

	if front.position >= g.length {
		g.remove(front)
		g.termination.Emit(genex.TerminationEvent{
			PolymeraseName: front.template.Name,
			Product:        g.gene,
		})
		g.made++
		t := newToyTranscript(g.registry, fmt.Sprintf("%s_mrna_%d", g.gene, g.made), g.gene)
		g.registry.IncrementTranscript(g.gene, 1)
		g.transcript.Emit(t)
	}
}

func (g *toyGenome) remove(target *boundAgent) {
	for i, a := range g.agents {
		if a == target {
			g.agents = append(g.agents[:i], g.agents[i+1:]...)
			return
		}
	}
}

func (g *toyGenome) TerminationSignal() *genex.Signal[genex.TerminationEvent] {
	return &g.termination
}

func (g *toyGenome) TranscriptSignal() *genex.Signal[genex.Polymer] {
	return &g.transcript
}

func (g *toyGenome) TranscriptDegradationRate() float64 { return 0 }
func (g *toyGenome) TranscriptDegradationRateExt() float64 { return 0 }
func (g *toyGenome) RnaseBindings() map[string]float64 { return nil }
func (g *toyGenome) RnaseFootprint() int { return 10 }
func (g *toyGenome) RnaseSpeed() float64 { return 30 }
