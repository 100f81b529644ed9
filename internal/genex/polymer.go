package genex

// TerminationEvent is raised by a polymer when a bound mobile agent reaches a
// terminator. For genomes this frees the polymerase; for transcripts it frees
// the ribosome and releases one unit of the named protein product.
type TerminationEvent struct {
	// PolymeraseName is the template name of the agent that terminated.
	PolymeraseName string
	// Product is the terminator/gene name associated with the event.
	Product string
}

// Polymer is the collaborator contract required from genome and transcript
// entities. The core never looks inside a polymer: base-pair movement,
// collision geometry and site layout are the polymer's own business. It only
// needs an aggregate propensity for "something internal happens", a way to
// execute the next internal step, the binding-site table used to generate
// bind reactions, and enough surface for a bind reaction to install a new
// agent.
//
// Polymers receive the run's Registry at construction time and are expected
// to publish site exposure changes through Registry.Increment as their
// internal state evolves; the core publishes the initial exposure itself when
// the polymer is registered.
type Polymer interface {
	// Name identifies the polymer in logs and events.
	Name() string

	// InternalPropensity returns the sum of the polymer's internal event
	// propensities. Zero means nothing can currently happen inside.
	InternalPropensity() float64

	// Step executes the polymer's next internal event. May raise a
	// termination event, and for genomes a transcript event.
	Step()

	// Bindings maps binding-site name to compatible polymerase template
	// names and their binding rate constants.
	Bindings() map[string]map[string]float64

	// UncoveredCount returns how many copies of the named site are
	// currently exposed on this polymer.
	UncoveredCount(site string) int

	// Bind installs a new agent built from template onto the named site.
	Bind(template PolymeraseTemplate, site string)

	// TerminationSignal is the channel the core subscribes to at
	// registration time.
	TerminationSignal() *Signal[TerminationEvent]
}

// Genome extends Polymer with transcript production and degradation
// parameters. A genome's transcript signal carries each newly produced
// transcript, which the orchestrator registers as a first-class polymer
// within the same run.
type Genome interface {
	Polymer

	// TranscriptDegradationRate is the shared-site RNase binding rate; zero
	// disables the shared __rnase_site reaction.
	TranscriptDegradationRate() float64

	// TranscriptDegradationRateExt is the external shared-site rate; zero
	// disables the __rnase_site_ext reaction.
	TranscriptDegradationRateExt() float64

	// RnaseBindings maps explicitly declared degradation-site names to rate
	// constants. Ignored when a shared rate is set.
	RnaseBindings() map[string]float64

	RnaseFootprint() int
	RnaseSpeed() float64

	// TranscriptSignal carries newly produced transcripts.
	TranscriptSignal() *Signal[Polymer]
}
