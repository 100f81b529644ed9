package main

import (
	"github.com/biocircuit/genesim/internal/genex"
)

// riboBindRate is the ribosome binding rate shared by every toy transcript.
const riboBindRate = 1e7

// toyTranscript carries one ribosome binding site and one gene. Ribosomes
// bound to it run to the end and release one protein through the core's
// translation-termination handling.
type toyTranscript struct {
	registry *genex.Registry
	name     string
	gene     string
	length   int

	agents      []*boundAgent
	exposed     bool
	termination genex.Signal[genex.TerminationEvent]
}

func newToyTranscript(registry *genex.Registry, name, gene string) *toyTranscript {
	return &toyTranscript{
		registry: registry,
		name:     name,
		gene:     gene,
		length:   300,
		exposed:  true,
	}
}

func (t *toyTranscript) Name() string { return t.name }

func (t *toyTranscript) Bindings() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"rbs": {genex.RibosomeName: riboBindRate},
	}
}

func (t *toyTranscript) UncoveredCount(site string) int {
	if site == "rbs" && t.exposed {
		return 1
	}
	return 0
}

func (t *toyTranscript) Bind(template genex.PolymeraseTemplate, site string) {
	t.agents = append(t.agents, &boundAgent{template: template})
	t.exposed = false
	t.registry.IncrementRibo(t.gene, 1)
}

func (t *toyTranscript) InternalPropensity() float64 {
	total := 0.0
	for _, a := range t.agents {
		total += a.template.Speed
	}
	return total
}

func (t *toyTranscript) Step() {
	if len(t.agents) == 0 {
		return
	}
	front := t.agents[len(t.agents)-1]
	for _, a := range t.agents {
		if a.position > front.position {
			front = a
		}
	}
	front.position += front.template.Footprint

	if !t.exposed && front.position > front.template.Footprint {
		t.exposed = true
		if err := t.registry.Increment("rbs", 1); err != nil {
			panic(err)
		}
	}

	if front.position >= t.length {
		for i, a := range t.agents {
			if a == front {
				t.agents = append(t.agents[:i], t.agents[i+1:]...)
				break
			}
		}
		t.termination.Emit(genex.TerminationEvent{
			PolymeraseName: front.template.Name,
			Product:        t.gene,
		})
	}
}

func (t *toyTranscript) TerminationSignal() *genex.Signal[genex.TerminationEvent] {
	return &t.termination
}
