package cpu

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/lightningnetwork/lnd/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Amr-9/luckyhunter/pkg/generator"
)

// DefaultBatchMultiplier is the number of attempts per worker in one batch.
const DefaultBatchMultiplier = 2000

// ErrWorkerPanic wraps a panic recovered inside a worker.
var ErrWorkerPanic = errors.New("worker panic")

// Config holds the dependencies and tuning of a CPU search.
type Config struct {
	Provider generator.IdentityProvider
	Matcher  *generator.Matcher
	Recorder generator.Recorder
	Reporter generator.Reporter

	// Workers is the pool size. If 0, it defaults to the number of CPU cores.
	Workers int

	// BatchMultiplier sets the batch size to Workers * BatchMultiplier.
	// If 0, DefaultBatchMultiplier is used.
	BatchMultiplier int

	// Clock defaults to the wall clock.
	Clock clock.Clock

	// Log defaults to a no-op logger.
	Log *zap.Logger
}

// CPUSearcher implements the Searcher interface using a goroutine pool fed
// in bounded batches. Results are collected in completion order on a single
// goroutine, which is the only place stats are mutated and the recorder and
// reporter are invoked.
type CPUSearcher struct {
	provider  generator.IdentityProvider
	matcher   *generator.Matcher
	recorder  generator.Recorder
	reporter  generator.Reporter
	clock     clock.Clock
	log       *zap.Logger
	workers   int
	batchSize int

	state atomic.Int32
}

// NewCPUSearcher creates a new CPU-based searcher.
func NewCPUSearcher(cfg Config) (*CPUSearcher, error) {
	if cfg.Provider == nil {
		return nil, errors.New("identity provider is required")
	}
	if cfg.Matcher == nil {
		return nil, errors.New("matcher is required")
	}
	if cfg.Recorder == nil {
		return nil, errors.New("recorder is required")
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	multiplier := cfg.BatchMultiplier
	if multiplier <= 0 {
		multiplier = DefaultBatchMultiplier
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewDefaultClock()
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}

	return &CPUSearcher{
		provider:  cfg.Provider,
		matcher:   cfg.Matcher,
		recorder:  cfg.Recorder,
		reporter:  reporter,
		clock:     clk,
		log:       log,
		workers:   workers,
		batchSize: workers * multiplier,
	}, nil
}

// Name returns the implementation name.
func (s *CPUSearcher) Name() string {
	return "CPU"
}

// State returns the current lifecycle state.
func (s *CPUSearcher) State() generator.State {
	return generator.State(s.state.Load())
}

// Workers returns the pool size.
func (s *CPUSearcher) Workers() int {
	return s.workers
}

// BatchSize returns the number of attempts issued per batch.
func (s *CPUSearcher) BatchSize() int {
	return s.batchSize
}

// Run searches in back-to-back batches until ctx is cancelled or a worker
// fails. Cancellation stops new attempts from being claimed, lets started
// attempts finish and collects them before returning with a nil error.
func (s *CPUSearcher) Run(ctx context.Context) (generator.Stats, error) {
	if !s.state.CompareAndSwap(int32(generator.Idle), int32(generator.Running)) {
		return generator.Stats{}, fmt.Errorf("searcher already %v", s.State())
	}
	defer s.state.Store(int32(generator.Terminated))

	stopWatch := context.AfterFunc(ctx, func() {
		s.state.CompareAndSwap(int32(generator.Running), int32(generator.Stopping))
	})
	defer stopWatch()

	stats := generator.Stats{StartTime: s.clock.Now()}

	s.log.Info("search started",
		zap.Int("workers", s.workers),
		zap.Int("batch_size", s.batchSize),
		zap.Strings("patterns", s.matcher.Patterns()))

	for batch := 1; ctx.Err() == nil; batch++ {
		if err := s.runBatch(ctx, &stats); err != nil {
			s.log.Error("search aborted",
				zap.Int("batch", batch),
				zap.Uint64("generated", stats.Generated),
				zap.Error(err))
			return stats, err
		}
		if ctx.Err() != nil {
			break
		}

		s.log.Debug("batch complete",
			zap.Int("batch", batch),
			zap.Uint64("generated", stats.Generated))
		s.reporter.Report(stats)
	}

	s.log.Info("search stopped",
		zap.Uint64("generated", stats.Generated),
		zap.Uint64("matches", stats.Matches))

	return stats, nil
}

// runBatch fans one batch out over the pool and collects every completed
// attempt into stats.
func (s *CPUSearcher) runBatch(ctx context.Context, stats *generator.Stats) error {
	// Buffered to the batch size so workers never block on send.
	results := make(chan *generator.Record, s.batchSize)

	var claimed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < s.workers; i++ {
		w := &worker{provider: s.provider, matcher: s.matcher}
		g.Go(func() error {
			return s.work(gctx, w, &claimed, results)
		})
	}

	done := make(chan error, 1)
	go func() {
		err := g.Wait()
		close(results)
		done <- err
	}()

	for rec := range results {
		stats.Generated++
		if rec != nil {
			s.handleMatch(rec, stats)
		}
	}

	return <-done
}

// work claims attempts until the batch is exhausted or the context is done.
func (s *CPUSearcher) work(ctx context.Context, w *worker, claimed *atomic.Int64, results chan<- *generator.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrWorkerPanic, r)
		}
	}()

	for claimed.Add(1) <= int64(s.batchSize) {
		if ctx.Err() != nil {
			return nil
		}

		rec, err := w.attempt()
		if err != nil {
			return err
		}
		results <- rec
	}
	return nil
}

// handleMatch hands a record to the recorder. A failed write is counted and
// logged; the recorder is responsible for the fallback copy.
func (s *CPUSearcher) handleMatch(rec *generator.Record, stats *generator.Stats) {
	stats.Matches++

	if err := s.recorder.Record(rec); err != nil {
		stats.RecordFailures++
		s.log.Error("failed to persist match",
			zap.String("address", rec.Identity.Address),
			zap.String("details", rec.Details()),
			zap.Error(err))
		return
	}

	s.log.Debug("match recorded",
		zap.String("address", rec.Identity.Address),
		zap.String("details", rec.Details()))
}

type nopReporter struct{}

func (nopReporter) Report(generator.Stats) {}
