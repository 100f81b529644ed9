package genex

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// sampleTolerance is how close simulated time must be to the next sampling
// boundary for a snapshot to be emitted.
const sampleTolerance = 1e-3

// TRNAPool holds the initial charged/uncharged copy numbers for one
// anticodon.
type TRNAPool struct {
	Charged   int
	Uncharged int
}

// Model builds and runs one gene-expression reaction network. It owns the
// run's registry, engine and random stream and wires the notification
// channels between them; nothing in a Model is shared across runs.
type Model struct {
	logger      Logger
	registry    *Registry
	engine      *Gillespie
	rng         *rand.Rand
	cellVolume  float64
	polymerases []PolymeraseTemplate
	genomes     []Genome
	transcripts []Polymer
	initialized bool
}

// NewModel creates an empty model with the given cell volume in liters.
// A non-positive volume falls back to DefaultCellVolume. The model starts
// with a fixed default seed; call Seed for explicit reseeding.
func NewModel(cellVolume float64) *Model {
	if cellVolume <= 0 {
		cellVolume = DefaultCellVolume
	}
	rng := rand.New(rand.NewSource(1))
	registry := NewRegistry()
	engine := NewGillespie(rng)
	registry.PropensitySignal.Connect(engine.UpdatePropensity)
	return &Model{
		logger:     NewNoOpLogger(),
		registry:   registry,
		engine:     engine,
		rng:        rng,
		cellVolume: cellVolume,
	}
}

// SetLogger injects a logger into the model and its registry. Passing nil
// restores the no-op logger.
func (m *Model) SetLogger(l Logger) {
	if l == nil {
		l = NewNoOpLogger()
	}
	m.logger = l
	m.registry.SetLogger(l)
}

// Seed reseeds the run's single shared random stream. With a fixed seed the
// sequence of (waiting time, selected reaction) pairs is exactly
// reproducible.
func (m *Model) Seed(seed int64) {
	m.rng.Seed(seed)
}

// Registry exposes the run's species registry to polymer collaborators and
// tests.
func (m *Model) Registry() *Registry {
	return m.registry
}

// Engine exposes the run's simulation engine.
func (m *Model) Engine() *Gillespie {
	return m.engine
}

// CellVolume returns the cell volume the model scales rate constants with.
func (m *Model) CellVolume() float64 {
	return m.cellVolume
}

// AddSpecies declares a species with an initial copy number. Names with the
// reserved "__" prefix are rejected with InvalidNameError and leave the
// registry unchanged.
func (m *Model) AddSpecies(name string, copyNumber int) error {
	if IsInternal(name) {
		return &InvalidNameError{
			Name:   name,
			Reason: "names prefixed with \"__\" (double underscore) are reserved for internal use",
		}
	}
	return m.registry.Increment(name, copyNumber)
}

// AddReaction declares an elementary mass-action reaction. Species referenced
// for the first time are created at count zero.
func (m *Model) AddReaction(rateConstant float64, reactants, products []string) error {
	_, err := m.addSpeciesReaction(rateConstant, reactants, products, false)
	return err
}

func (m *Model) addSpeciesReaction(rateConstant float64, reactants, products []string, trna bool) (*SpeciesReaction, error) {
	rxn, err := NewSpeciesReaction(m.registry, rateConstant, m.cellVolume, reactants, products)
	if err != nil {
		return nil, err
	}
	if trna {
		rxn.MarkTRNA()
	}
	for _, name := range reactants {
		m.registry.mustIncrement(name, 0)
		m.registry.AddDependency(name, rxn)
	}
	for _, name := range products {
		m.registry.mustIncrement(name, 0)
		m.registry.AddDependency(name, rxn)
	}
	m.engine.LinkReaction(rxn)
	return rxn, nil
}

// AddPolymerase declares a polymerase template with its footprint,
// translocation speed and free copy number.
func (m *Model) AddPolymerase(name string, footprint int, speed float64, copyNumber int) error {
	if IsInternal(name) {
		return &InvalidNameError{
			Name:   name,
			Reason: "names prefixed with \"__\" (double underscore) are reserved for internal use",
		}
	}
	return m.addPolymerase(name, footprint, speed, copyNumber)
}

// AddRibosome declares the ribosome template, represented internally as a
// polymerase named __ribosome.
func (m *Model) AddRibosome(footprint int, speed float64, copyNumber int) error {
	return m.addPolymerase(RibosomeName, footprint, speed, copyNumber)
}

func (m *Model) addPolymerase(name string, footprint int, speed float64, copyNumber int) error {
	for _, pol := range m.polymerases {
		if pol.Name == name {
			return fmt.Errorf("polymerase %q already declared", name)
		}
	}
	m.polymerases = append(m.polymerases, PolymeraseTemplate{
		Name:      name,
		Footprint: footprint,
		Speed:     speed,
	})
	if err := m.registry.Increment(name, copyNumber); err != nil {
		m.polymerases = m.polymerases[:len(m.polymerases)-1]
		return err
	}
	m.registry.InitializeCollision(name)
	return nil
}

// Polymerases returns the declared polymerase/ribosome templates in
// declaration order.
func (m *Model) Polymerases() []PolymeraseTemplate {
	return m.polymerases
}

// AddTRNA declares tRNA pools from a nested codon to anticodon to
// {charged, uncharged} structure, generating one charging reaction per
// anticodon at the supplied rate constant and recording the codon map.
func (m *Model) AddTRNA(codons map[string]map[string]TRNAPool, rateConstant float64) error {
	codonMap := make(map[string][]string, len(codons))
	for _, codon := range sortedKeys(codons) {
		for _, anticodon := range sortedKeys(codons[codon]) {
			pool := codons[codon][anticodon]
			if err := m.addTRNAPool(anticodon, pool, rateConstant); err != nil {
				return err
			}
			codonMap[codon] = append(codonMap[codon], anticodon)
		}
	}
	m.registry.SetCodonMap(codonMap)
	return nil
}

// AddTRNATables declares tRNA pools from parallel tables: a codon map, per-
// anticodon counts and per-anticodon charging rate constants.
func (m *Model) AddTRNATables(codonMap map[string][]string, counts map[string]TRNAPool, rateConstants map[string]float64) error {
	for _, anticodon := range sortedKeys(counts) {
		rate, ok := rateConstants[anticodon]
		if !ok {
			return fmt.Errorf("no charging rate constant declared for anticodon %q", anticodon)
		}
		if err := m.addTRNAPool(anticodon, counts[anticodon], rate); err != nil {
			return err
		}
	}
	m.registry.SetCodonMap(codonMap)
	return nil
}

func (m *Model) addTRNAPool(anticodon string, pool TRNAPool, rateConstant float64) error {
	charged := anticodon + ChargedSuffix
	uncharged := anticodon + UnchargedSuffix
	if err := m.registry.Increment(charged, pool.Charged); err != nil {
		return err
	}
	if err := m.registry.Increment(uncharged, pool.Uncharged); err != nil {
		return err
	}
	_, err := m.addSpeciesReaction(rateConstant, []string{uncharged}, []string{charged}, true)
	return err
}

// RegisterGenome registers a genome declared before the run starts. Its
// termination events free polymerases; its transcript events register newly
// produced transcripts as first-class polymers within the same run.
func (m *Model) RegisterGenome(g Genome) {
	m.registerPolymer(g)
	g.TerminationSignal().Connect(m.registry.TerminateTranscription)
	g.TranscriptSignal().Connect(func(t Polymer) {
		m.RegisterTranscript(t)
	})
	m.genomes = append(m.genomes, g)
}

// RegisterTranscript registers a transcript, either declared standalone
// before the run or produced by a genome mid-run. Its termination events free
// ribosomes and release protein. Transcripts created after initialization are
// owned by the engine machinery, not the pre-run list.
func (m *Model) RegisterTranscript(t Polymer) {
	m.registerPolymer(t)
	t.TerminationSignal().Connect(m.registry.TerminateTranslation)
	if !m.initialized {
		m.transcripts = append(m.transcripts, t)
	}
}

// registerPolymer wraps a polymer as an engine reaction, indexes it under its
// binding sites and publishes its initial site exposure. Subsequent exposure
// changes are the polymer's duty, through the registry handle it was built
// with.
func (m *Model) registerPolymer(p Polymer) {
	wrapper := NewPolymerWrapper(m.registry, p)
	m.engine.LinkReaction(wrapper)
	bindings := p.Bindings()
	for _, site := range sortedKeys(bindings) {
		m.registry.AddPolymerForSite(site, p)
		if n := p.UncoveredCount(site); n > 0 {
			m.registry.mustIncrement(site, n)
		}
	}
	m.registry.TRNASignal.Connect(func(string) {
		m.registry.NotifyPolymer(p)
	})
}

// Initialize builds the auto-generated bind reactions: one per (binding site,
// compatible polymerase) pair on every registered genome and pre-run
// transcript, plus RNase binding reactions from each genome's degradation
// declarations. A nonzero shared degradation rate takes precedence over
// explicit per-site bindings. Calling Initialize again is a no-op; Simulate
// calls it automatically.
func (m *Model) Initialize() {
	if m.initialized {
		return
	}
	if len(m.genomes) == 0 && len(m.transcripts) == 0 {
		m.logger.Warnf("no genomes or transcripts registered with the model; did you forget to register a genome?")
	}

	for _, genome := range m.genomes {
		m.addBindReactions(genome)

		if rate := genome.TranscriptDegradationRateExt(); rate != 0 {
			m.addRnaseReaction(genome, rate, RnaseSiteExtName)
		}
		switch {
		case genome.TranscriptDegradationRate() != 0:
			if len(genome.RnaseBindings()) != 0 {
				m.logger.Warnf("genome %q declares both a shared transcript degradation rate and explicit RNase sites; the shared rate wins and per-site bindings are ignored", genome.Name())
			}
			m.addRnaseReaction(genome, genome.TranscriptDegradationRate(), RnaseSiteName)
		case len(genome.RnaseBindings()) != 0:
			bindings := genome.RnaseBindings()
			for _, site := range sortedKeys(bindings) {
				m.addRnaseReaction(genome, bindings[site], site)
			}
		}
	}

	for _, transcript := range m.transcripts {
		m.addBindReactions(transcript)
	}

	m.initialized = true
}

func (m *Model) addBindReactions(p Polymer) {
	bindings := p.Bindings()
	for _, site := range sortedKeys(bindings) {
		for _, pol := range m.polymerases {
			rate, ok := bindings[site][pol.Name]
			if !ok {
				continue
			}
			rxn := NewBindPolymerase(m.registry, m.rng, rate, m.cellVolume, site, pol)
			m.registry.AddDependency(site, rxn)
			m.registry.AddDependency(pol.Name, rxn)
			m.engine.LinkReaction(rxn)
		}
	}
}

func (m *Model) addRnaseReaction(genome Genome, rate float64, site string) {
	template := NewRnaseTemplate(genome.RnaseFootprint(), genome.RnaseSpeed())
	rxn := NewBindRnase(m.registry, m.rng, rate, m.cellVolume, template, site)
	m.registry.AddDependency(site, rxn)
	m.engine.LinkReaction(rxn)
}

// Simulate advances the model one event at a time until simulated time
// reaches the horizon, emitting a snapshot to sink at every sampling boundary
// (within a small fixed tolerance) and resetting the per-interval collision
// counters. A stalled network ends the run early with a warning and a final
// snapshot.
func (m *Model) Simulate(horizon, interval float64, sink Sink) error {
	if horizon <= 0 {
		return fmt.Errorf("time horizon must be positive, got %g", horizon)
	}
	if interval <= 0 {
		return fmt.Errorf("sampling interval must be positive, got %g", interval)
	}
	if sink == nil {
		return errors.New("output sink is required")
	}
	m.Initialize()

	boundary := 0.0
	for m.engine.Time() < horizon {
		if boundary-m.engine.Time() < sampleTolerance {
			if err := sink.Write(m.registry.Snapshot(m.engine.Time())); err != nil {
				return fmt.Errorf("writing snapshot at t=%g: %w", m.engine.Time(), err)
			}
			m.registry.ResetCollisions()
			boundary += interval
		}
		if err := m.engine.Iterate(); err != nil {
			if errors.Is(err, ErrStalled) {
				m.logger.Warnf("simulation stalled at t=%g before horizon %g", m.engine.Time(), horizon)
				if err := sink.Write(m.registry.Snapshot(m.engine.Time())); err != nil {
					return fmt.Errorf("writing final snapshot: %w", err)
				}
				return nil
			}
			return err
		}
	}
	return nil
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
