// Package engine runs the evolutionary search: it breeds generations of
// candidate expressions with a registered strategy and reports progress
// until the generation limit, a perfect fit, or a stop request.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/stat"

	"github.com/wildfunctions/genetix/pkg/genfile"
	"github.com/wildfunctions/genetix/pkg/pool"
	"github.com/wildfunctions/genetix/pkg/population"
	"github.com/wildfunctions/genetix/pkg/rng"
	"github.com/wildfunctions/genetix/pkg/sample"
	"github.com/wildfunctions/genetix/pkg/storage"
	"github.com/wildfunctions/genetix/pkg/strategy"
)

var tracer = otel.Tracer("genetix.engine")

const eventBuffer = 64

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithSource replaces the random source seeded from Config.Seed.
func WithSource(src *rng.Source) Option {
	return func(e *Engine) { e.src = src }
}

// WithProgressFunc registers a callback invoked on the engine goroutine after
// every generation. It is not throttled. Calling RequestStop from it is
// allowed.
func WithProgressFunc(fn func(Progress)) Option {
	return func(e *Engine) { e.onProgress = fn }
}

// WithTerminalFunc registers a callback invoked once the run terminates.
func WithTerminalFunc(fn func(State)) Option {
	return func(e *Engine) { e.onTerminal = fn }
}

// WithArchive appends the best expression of each generation to f. The
// record index equals the generation number minus one.
func WithArchive(f *genfile.File) Option {
	return func(e *Engine) { e.archive = f }
}

// WithStore records the run and its generations in s. s must be initialized.
func WithStore(s storage.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithMetrics exports progress through m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// Engine runs one evolutionary search. It is single-use.
type Engine struct {
	cfg      Config
	sample   sample.Sample
	strategy strategy.Strategy
	breeder  *strategy.Breeder
	cache    *population.FitnessCache
	src      *rng.Source
	seed     uint64
	workers  int
	runID    string

	logger     *slog.Logger
	metrics    *Metrics
	archive    *genfile.File
	store      storage.Store
	onProgress func(Progress)
	onTerminal func(State)

	events   chan Event
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	lastPush time.Time
	created  int64

	mu       sync.Mutex
	state    State
	err      error
	pop      population.Population
	progress Progress
	started  time.Time
	finished time.Time
}

// New validates cfg and the sample and builds a configured engine. Errors
// wrap ErrInvalidConfiguration or ErrInvalidInput.
func New(cfg Config, s sample.Sample, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	strat, err := strategy.Get(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w (available: %v)", ErrInvalidConfiguration, err, strategy.Names())
	}
	p, err := pool.Get(cfg.Pool)
	if err != nil {
		return nil, fmt.Errorf("%w: %w (available: %v)", ErrInvalidConfiguration, err, pool.Names())
	}
	cache, err := population.NewFitnessCache(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	e := &Engine{
		cfg: cfg,
		sample: sample.Sample{
			X: append([]float64(nil), s.X...),
			Y: append([]float64(nil), s.Y...),
		},
		strategy: strat,
		cache:    cache,
		seed:     seed,
		workers:  workers,
		runID:    uuid.NewString(),
		logger:   slog.Default(),
		events:   make(chan Event, eventBuffer),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = rng.New(seed)
	}
	e.breeder = strategy.NewBreeder(p, e.src, cfg.Params())
	e.logger = e.logger.With("run_id", e.runID)
	e.progress = Progress{RunID: e.runID, BestFitness: math.NaN(), MeanFitness: math.NaN(), StdDev: math.NaN()}
	return e, nil
}

// RunID identifies this run in logs, traces and the store.
func (e *Engine) RunID() string { return e.runID }

// Seed returns the seed the random source was built from.
func (e *Engine) Seed() uint64 { return e.seed }

// Config returns the run configuration.
func (e *Engine) Config() Config { return e.cfg }

// Start launches the generation loop on its own goroutine.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Configured {
		return ErrAlreadyStarted
	}
	e.state = Running
	e.started = time.Now()
	go e.run(ctx)
	return nil
}

// Run starts the loop and blocks until it terminates.
func (e *Engine) Run(ctx context.Context) (State, error) {
	if err := e.Start(ctx); err != nil {
		return e.State(), err
	}
	return e.Wait()
}

// Wait blocks until the run terminates and returns the final state. The
// error is non-nil only for Failed runs.
func (e *Engine) Wait() (State, error) {
	if e.State() == Configured {
		return Configured, ErrNotStarted
	}
	<-e.done
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.err
}

// RequestStop asks the loop to stop at the next generation boundary. It is
// safe to call more than once and from any goroutine.
func (e *Engine) RequestStop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

// Events returns the event channel. Progress events are dropped when the
// buffer is full; the terminal event is always delivered, then the channel
// is closed.
func (e *Engine) Events() <-chan Event { return e.events }

// Progress returns the latest generation snapshot.
func (e *Engine) Progress() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Result is a ranked expression with its fitness.
type Result struct {
	Expr    string
	Fitness float64
	Length  int
}

// BestResults returns up to k distinct formatted expressions of the final
// population, best first.
func (e *Engine) BestResults(k int) ([]string, error) {
	res, err := e.Results(k)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(res))
	for i, r := range res {
		out[i] = r.Expr
	}
	return out, nil
}

// Results is BestResults with fitness and length attached.
func (e *Engine) Results(k int) ([]Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Terminal() {
		return nil, ErrNotTerminated
	}
	best := e.pop.Best(k)
	out := make([]Result, len(best))
	for i, c := range best {
		out[i] = Result{Expr: c.String(), Fitness: c.Fitness(), Length: c.Length()}
	}
	return out, nil
}

func (e *Engine) run(ctx context.Context) {
	defer close(e.done)

	ctx, span := tracer.Start(ctx, "genetix.run", trace.WithAttributes(
		attribute.String("genetix.run_id", e.runID),
		attribute.String("genetix.model", e.cfg.Model),
		attribute.String("genetix.pool", e.cfg.Pool),
		attribute.Int("genetix.generation_size", e.cfg.GenerationSize),
		attribute.Int("genetix.generation_limit", e.cfg.GenerationLimit),
		attribute.Int64("genetix.seed", int64(e.seed)),
	))
	defer span.End()

	e.logger.Info("run started",
		"model", e.cfg.Model,
		"pool", e.cfg.Pool,
		"generation_size", e.cfg.GenerationSize,
		"generation_limit", e.cfg.GenerationLimit,
		"points", e.sample.Len(),
		"workers", e.workers,
		"seed", e.seed,
	)

	state, err := e.loop(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(
		attribute.String("genetix.state", state.String()),
		attribute.Int("genetix.generations", e.Progress().Generation),
	)
	e.finish(ctx, state, err)
}

func (e *Engine) loop(ctx context.Context) (State, error) {
	// Persistence outlives cancellation so a cancelled run is still recorded.
	sctx := context.WithoutCancel(ctx)
	if err := e.saveRun(sctx, Running); err != nil {
		return Failed, err
	}

	size := e.cfg.GenerationSize
	pop := e.strategy.Initialize(e.breeder, size)
	e.evaluate(ctx, pop)
	pop.Sort()
	e.created = int64(len(pop))
	e.metrics.created(len(pop))
	initial := e.snapshot(pop, 0)
	if initial.BestFitness <= e.cfg.Epsilon {
		return Finished, nil
	}

	for gen := 1; gen <= e.cfg.GenerationLimit; gen++ {
		if e.stopping(ctx) {
			return Cancelled, nil
		}
		began := time.Now()
		gctx, span := tracer.Start(ctx, "genetix.generation",
			trace.WithAttributes(attribute.Int("genetix.generation", gen)))

		offspring := e.strategy.Evolve(pop, e.breeder, size)
		e.evaluate(gctx, offspring)
		if e.stopping(ctx) {
			span.End()
			return Cancelled, nil
		}

		merged := make(population.Population, 0, len(pop)+len(offspring))
		merged = append(append(merged, pop...), offspring...)
		pop = merged.Truncate(size)
		e.created += int64(len(offspring))
		span.End()

		p := e.snapshot(pop, gen)
		e.metrics.generation(p, len(offspring), time.Since(began))
		e.logger.Debug("generation",
			"generation", gen,
			"best_fitness", p.BestFitness,
			"mean_fitness", p.MeanFitness,
			"best", p.Best,
			"cache_entries", e.cache.Len(),
		)
		e.publish(p)
		if err := e.record(sctx, p); err != nil {
			return Failed, err
		}
		if p.BestFitness <= e.cfg.Epsilon {
			break
		}
	}
	return Finished, nil
}

// snapshot stores pop as the current population and computes its progress.
func (e *Engine) snapshot(pop population.Population, gen int) Progress {
	mean, std := math.NaN(), math.NaN()
	finite := pop.FiniteFitness()
	switch len(finite) {
	case 0:
	case 1:
		mean, std = finite[0], 0
	default:
		mean, std = stat.MeanStdDev(finite, nil)
	}
	p := Progress{
		RunID:          e.runID,
		Generation:     gen,
		Created:        e.created,
		PopulationSize: len(pop),
		BestFitness:    pop.BestFitness(),
		MeanFitness:    mean,
		StdDev:         std,
	}
	if len(pop) > 0 {
		p.Best = pop[0].String()
	}

	e.mu.Lock()
	p.Elapsed = time.Since(e.started)
	e.pop = pop
	e.progress = p
	e.mu.Unlock()
	return p
}

func (e *Engine) stopping(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	select {
	case <-e.stop:
		return true
	default:
		return false
	}
}

// publish hands p to the progress callback and, throttled to
// ProgressInterval, to the events channel. One buffer slot always stays free
// for the terminal event.
func (e *Engine) publish(p Progress) {
	if e.onProgress != nil {
		e.onProgress(p)
	}
	now := time.Now()
	if !e.lastPush.IsZero() && now.Sub(e.lastPush) < e.cfg.ProgressInterval {
		return
	}
	if len(e.events) >= cap(e.events)-1 {
		return
	}
	e.events <- Event{Progress: p, State: Running}
	e.lastPush = now
}

// record writes one generation to the archive and the store.
func (e *Engine) record(ctx context.Context, p Progress) error {
	if e.archive != nil {
		if _, err := e.archive.Write(p.Best); err != nil {
			return fmt.Errorf("archive generation %d: %w", p.Generation, err)
		}
	}
	if e.store != nil {
		err := e.store.AppendGeneration(ctx, storage.GenerationRecord{
			RunID:       e.runID,
			Generation:  p.Generation,
			Created:     p.Created,
			BestFitness: storage.Score(p.BestFitness),
			MeanFitness: storage.Score(p.MeanFitness),
			StdDev:      storage.Score(p.StdDev),
			Best:        p.Best,
		})
		if err != nil {
			return fmt.Errorf("store generation %d: %w", p.Generation, err)
		}
	}
	return nil
}

func (e *Engine) saveRun(ctx context.Context, state State) error {
	if e.store == nil {
		return nil
	}
	cfg, err := json.Marshal(e.cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	e.mu.Lock()
	p := e.progress
	rec := storage.RunRecord{
		ID:          e.runID,
		Model:       e.cfg.Model,
		Pool:        e.cfg.Pool,
		Seed:        e.seed,
		State:       state.String(),
		Generations: p.Generation,
		Created:     p.Created,
		BestFitness: storage.Score(p.BestFitness),
		Best:        e.pop.Best(5).Strings(),
		Config:      cfg,
		StartedAt:   e.started,
		FinishedAt:  e.finished,
	}
	e.mu.Unlock()
	if err := e.store.SaveRun(ctx, rec); err != nil {
		return fmt.Errorf("store run %s: %w", e.runID, err)
	}
	return nil
}

func (e *Engine) finish(ctx context.Context, state State, err error) {
	e.mu.Lock()
	e.finished = time.Now()
	e.mu.Unlock()

	if serr := e.saveRun(context.WithoutCancel(ctx), state); serr != nil && err == nil {
		state, err = Failed, serr
	}

	e.mu.Lock()
	e.state = state
	e.err = err
	p := e.progress
	e.mu.Unlock()

	e.metrics.terminated(state)
	if err != nil {
		e.logger.Error("run failed", "generation", p.Generation, "error", err)
	} else {
		e.logger.Info("run terminated",
			"state", state.String(),
			"generations", p.Generation,
			"created", p.Created,
			"best_fitness", p.BestFitness,
			"best", p.Best,
			"elapsed", p.Elapsed,
		)
	}

	if e.onTerminal != nil {
		e.onTerminal(state)
	}
	e.events <- Event{Progress: p, Terminal: true, State: state, Err: err}
	close(e.events)
}
