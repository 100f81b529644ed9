package genex

import "fmt"

// RunSet executes independent replicate runs of one model configuration.
// Every replicate gets a freshly built model (its own registry, engine and
// random stream), so no state can leak between runs; seeds are derived from
// the configured base seed so the whole batch is reproducible.
//
// Runs execute sequentially. The core is strictly single-threaded per run,
// and one RunSet drives one run at a time; callers wanting parallelism can
// run several RunSets, each with its own models, without shared state.
type RunSet struct {
	cfg        ModelConfig
	logger     Logger
	replicates int

	// RegisterCollaborators, when set, is called with each freshly built
	// model so callers can register genomes and transcripts before the run.
	RegisterCollaborators func(*Model) error
}

// NewRunSet prepares a batch of n replicate runs of cfg.
func NewRunSet(cfg ModelConfig, replicates int) (*RunSet, error) {
	if replicates < 1 {
		return nil, fmt.Errorf("replicate count must be at least 1, got %d", replicates)
	}
	if err := ValidateModelConfig(cfg); err != nil {
		return nil, err
	}
	return &RunSet{
		cfg:        cfg,
		logger:     NewNoOpLogger(),
		replicates: replicates,
	}, nil
}

// SetLogger injects a logger into the run set and every model it builds.
func (rs *RunSet) SetLogger(l Logger) {
	if l == nil {
		l = NewNoOpLogger()
	}
	rs.logger = l
}

// Replicates returns the number of runs in the batch.
func (rs *RunSet) Replicates() int {
	return rs.replicates
}

// Seed returns the seed used for replicate i (zero-based): the configured
// base seed offset by the replicate index.
func (rs *RunSet) Seed(i int) int64 {
	base := rs.cfg.Seed
	if base == 0 {
		base = 1
	}
	return base + int64(i)
}

// Run executes every replicate to the given horizon, asking sinkFor for each
// replicate's output sink and closing it when the run finishes.
func (rs *RunSet) Run(horizon, interval float64, sinkFor func(replicate int) (Sink, error)) error {
	for i := 0; i < rs.replicates; i++ {
		if err := rs.runOne(i, horizon, interval, sinkFor); err != nil {
			return fmt.Errorf("replicate %d: %w", i, err)
		}
	}
	return nil
}

func (rs *RunSet) runOne(i int, horizon, interval float64, sinkFor func(int) (Sink, error)) error {
	model, err := BuildModelFromConfig(rs.cfg)
	if err != nil {
		return err
	}
	model.SetLogger(rs.logger)
	model.Seed(rs.Seed(i))

	if rs.RegisterCollaborators != nil {
		if err := rs.RegisterCollaborators(model); err != nil {
			return fmt.Errorf("registering collaborators: %w", err)
		}
	}

	sink, err := sinkFor(i)
	if err != nil {
		return fmt.Errorf("creating sink: %w", err)
	}

	rs.logger.Infof("replicate %d: seed=%d horizon=%g interval=%g", i, rs.Seed(i), horizon, interval)
	runErr := model.Simulate(horizon, interval, sink)
	if closeErr := sink.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	return runErr
}
