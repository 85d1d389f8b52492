// Package driver sequences the four-stage cellular-automaton pipeline over
// one event's hits, mirroring the reference's analyzer Manager's role of
// owning construction-time validation and wiring stages together.
package driver

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/hepqca/qca/internal/cells"
	"github.com/hepqca/qca/internal/evaluate"
	"github.com/hepqca/qca/internal/evolve"
	"github.com/hepqca/qca/internal/hits"
	"github.com/hepqca/qca/internal/neighbours"
	"github.com/hepqca/qca/internal/tracks"
	"github.com/hepqca/qca/internal/truth"
	"github.com/hepqca/qca/pkg/config"
	"github.com/hepqca/qca/pkg/utils"
)

var tracer = otel.Tracer("qca")

// Result bundles the output of every stage for one completed run.
type Result struct {
	Cells     *cells.Table
	Automaton *evolve.Automaton
	Tracks    *tracks.Set

	Sweeps              int
	CellDegenerate      int
	NeighbourDegenerate int

	// Duration is the wall-clock time of the whole Run call, measured
	// through the Driver's Clock so it can be faked in tests.
	Duration time.Duration
	// Timing breaks Duration down per stage. Nil unless a stage ran.
	Timing *utils.Timer
}

// Driver sequences CellFormer, NeighbourLinker, Evolver and TrackExtractor.
type Driver struct {
	former    *cells.Former
	linker    *neighbours.Linker
	extractor *tracks.Extractor
	parallel  bool

	clock  utils.Clock
	logger utils.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger attaches a logger that per-stage timing is reported through.
func WithLogger(logger utils.Logger) Option {
	return func(d *Driver) { d.logger = logger }
}

// WithClock overrides the Driver's Clock, mainly for deterministic tests of
// run timing.
func WithClock(clock utils.Clock) Option {
	return func(d *Driver) { d.clock = clock }
}

// New constructs a Driver, validating every stage's configuration up front
// so a misconfigured pipeline fails before any hits are processed.
func New(cfg *config.PipelineConfig, opts ...Option) (*Driver, error) {
	former, err := cells.NewFormer(cfg.CellAngle, cells.WithParallel(cfg.Parallel))
	if err != nil {
		return nil, fmt.Errorf("driver: %w", err)
	}

	linker, err := neighbours.NewLinker(cfg.NeighAngle, neighbours.WithParallel(cfg.Parallel))
	if err != nil {
		return nil, fmt.Errorf("driver: %w", err)
	}

	extractor, err := tracks.NewExtractor(cfg.MinTrackLength)
	if err != nil {
		return nil, fmt.Errorf("driver: %w", err)
	}

	d := &Driver{
		former:    former,
		linker:    linker,
		extractor: extractor,
		parallel:  cfg.Parallel,
		clock:     utils.NewRealClock(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run executes the pipeline over one event's hits.
func (d *Driver) Run(ctx context.Context, ht *hits.Table) (*Result, error) {
	ctx, span := tracer.Start(ctx, "qca.driver.run")
	defer span.End()

	timer := utils.NewTimer("qca.driver.run", utils.WithClock(d.clock), utils.WithLogger(d.logger))

	ct, err := d.runCellFormer(ctx, ht, timer)
	if err != nil {
		return nil, err
	}

	automaton, err := d.runNeighbourLinker(ctx, ct, timer)
	if err != nil {
		return nil, err
	}

	sweeps := d.runEvolver(ctx, automaton, timer)

	set, err := d.runTrackExtractor(ctx, automaton, timer)
	if err != nil {
		return nil, err
	}

	return &Result{
		Cells:               ct,
		Automaton:           automaton,
		Tracks:              set,
		Sweeps:              sweeps,
		CellDegenerate:      d.former.DegenerateCount(),
		NeighbourDegenerate: d.linker.DegenerateCount(),
		Duration:            timer.TotalDuration(),
		Timing:              timer,
	}, nil
}

func (d *Driver) runCellFormer(ctx context.Context, ht *hits.Table, timer *utils.Timer) (*cells.Table, error) {
	_, span := tracer.Start(ctx, "qca.cellformer")
	defer span.End()
	defer timer.Start("cellformer").Stop()

	ct, err := d.former.Form(ht)
	if err != nil {
		return nil, fmt.Errorf("driver: cell formation: %w", err)
	}
	return ct, nil
}

func (d *Driver) runNeighbourLinker(ctx context.Context, ct *cells.Table, timer *utils.Timer) (*evolve.Automaton, error) {
	_, span := tracer.Start(ctx, "qca.neighbourlinker")
	defer span.End()
	defer timer.Start("neighbourlinker").Stop()

	automaton, err := d.linker.Link(ct)
	if err != nil {
		return nil, fmt.Errorf("driver: neighbour linking: %w", err)
	}
	return automaton, nil
}

func (d *Driver) runEvolver(ctx context.Context, automaton *evolve.Automaton, timer *utils.Timer) int {
	_, span := tracer.Start(ctx, "qca.evolver")
	defer span.End()
	defer timer.Start("evolver").Stop()

	return evolve.Evolve(automaton, evolve.WithParallel(d.parallel))
}

// Evaluate scores a completed Result against ground truth, wrapping the
// evaluator in its own span alongside the four pipeline stages.
func (d *Driver) Evaluate(ctx context.Context, result *Result, tt *truth.Table) evaluate.Report {
	_, span := tracer.Start(ctx, "qca.evaluator")
	defer span.End()

	return evaluate.Evaluate(result.Cells, result.Automaton, result.Tracks, d.extractor.MinLength(), tt)
}

func (d *Driver) runTrackExtractor(ctx context.Context, automaton *evolve.Automaton, timer *utils.Timer) (*tracks.Set, error) {
	_, span := tracer.Start(ctx, "qca.trackextractor")
	defer span.End()
	defer timer.Start("trackextractor").Stop()

	set, err := d.extractor.Extract(automaton)
	if err != nil {
		return nil, fmt.Errorf("driver: track extraction: %w", err)
	}
	return set, nil
}
