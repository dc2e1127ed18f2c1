package cpu

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Amr-9/luckyhunter/pkg/generator"
	"github.com/Amr-9/luckyhunter/pkg/generator/ethereum"
)

// seqProvider hands out unique addresses; every hitEvery-th one starts with
// "8888".
type seqProvider struct {
	calls    atomic.Uint64
	hitEvery uint64
	failAt   uint64
	panicAt  uint64
	delay    time.Duration
	onCall   func(n uint64)
}

func (p *seqProvider) Generate() (generator.Identity, error) {
	n := p.calls.Add(1)
	if p.onCall != nil {
		p.onCall(n)
	}
	if p.failAt != 0 && n == p.failAt {
		return generator.Identity{}, errors.New("entropy exhausted")
	}
	if p.panicAt != 0 && n == p.panicAt {
		panic("boom")
	}
	if p.delay > 0 {
		time.Sleep(p.delay)
	}

	body := fmt.Sprintf("%040x", n)
	if p.hitEvery != 0 && n%p.hitEvery == 0 {
		body = "8888" + body[4:]
	}
	return generator.Identity{
		Address:    "0x" + body,
		PrivateKey: fmt.Sprintf("%064x", n),
		Mnemonic:   fmt.Sprintf("word%d", n),
	}, nil
}

type memRecorder struct {
	mu      sync.Mutex
	records []*generator.Record
	err     error
}

func (r *memRecorder) Record(rec *generator.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

type memReporter struct {
	reports  []generator.Stats
	onReport func(generator.Stats)
}

func (r *memReporter) Report(stats generator.Stats) {
	r.reports = append(r.reports, stats)
	if r.onReport != nil {
		r.onReport(stats)
	}
}

func newTestSearcher(t *testing.T, p generator.IdentityProvider, rec generator.Recorder, rep generator.Reporter) *CPUSearcher {
	t.Helper()
	s, err := NewCPUSearcher(Config{
		Provider:        p,
		Matcher:         generator.NewMatcher([]string{"8888"}),
		Recorder:        rec,
		Reporter:        rep,
		Workers:         4,
		BatchMultiplier: 25,
		Clock:           clock.NewTestClock(time.Unix(1700000000, 0)),
		Log:             zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return s
}

func TestNewCPUSearcherDefaults(t *testing.T) {
	s, err := NewCPUSearcher(Config{
		Provider: &seqProvider{},
		Matcher:  generator.NewMatcher(nil),
		Recorder: &memRecorder{},
	})
	require.NoError(t, err)
	require.Positive(t, s.Workers())
	require.Equal(t, s.Workers()*DefaultBatchMultiplier, s.BatchSize())
	require.Equal(t, "CPU", s.Name())
	require.Equal(t, generator.Idle, s.State())

	_, err = NewCPUSearcher(Config{Matcher: generator.NewMatcher(nil), Recorder: &memRecorder{}})
	require.Error(t, err)
}

func TestRunRecordsMatchesAndReportsPerBatch(t *testing.T) {
	p := &seqProvider{hitEvery: 10}
	rec := &memRecorder{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rep := &memReporter{}
	rep.onReport = func(generator.Stats) {
		if len(rep.reports) == 3 {
			cancel()
		}
	}
	s := newTestSearcher(t, p, rec, rep)

	stats, err := s.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, generator.Terminated, s.State())

	require.Len(t, rep.reports, 3)
	for i, r := range rep.reports {
		require.Equal(t, uint64((i+1)*s.BatchSize()), r.Generated)
	}

	// The context is cancelled after the third report, so no fourth batch
	// is started.
	require.Equal(t, uint64(3*s.BatchSize()), stats.Generated)
	require.Equal(t, p.calls.Load(), stats.Generated)
	require.Equal(t, stats.Generated/10, stats.Matches)
	require.Len(t, rec.records, int(stats.Matches))
	require.Zero(t, stats.RecordFailures)

	for _, r := range rec.records {
		require.Equal(t, []generator.Match{{Pattern: "8888", Side: generator.Prefix}}, r.Matches)
	}
}

func TestRunCancelMidBatchKeepsAccounting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &seqProvider{hitEvery: 7, delay: time.Millisecond}
	p.onCall = func(n uint64) {
		if n == 30 {
			cancel()
		}
	}
	rec := &memRecorder{}
	s := newTestSearcher(t, p, rec, &memReporter{})

	stats, err := s.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, generator.Terminated, s.State())

	// Every attempt that started was finished and collected exactly once.
	require.Equal(t, p.calls.Load(), stats.Generated)
	require.Less(t, stats.Generated, uint64(s.BatchSize()))

	var hits uint64
	for n := uint64(1); n <= stats.Generated; n++ {
		if n%7 == 0 {
			hits++
		}
	}
	require.Equal(t, hits, stats.Matches)
	require.Len(t, rec.records, int(hits))
}

func TestRunAlreadyCancelled(t *testing.T) {
	p := &seqProvider{}
	s := newTestSearcher(t, p, &memRecorder{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := s.Run(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.Generated)
	require.Zero(t, p.calls.Load())
}

func TestRunProviderFailureStopsSearch(t *testing.T) {
	p := &seqProvider{failAt: 42}
	s := newTestSearcher(t, p, &memRecorder{}, &memReporter{})

	stats, err := s.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "entropy exhausted")
	require.Equal(t, generator.Terminated, s.State())

	// The failed call produced no identity and is not counted.
	require.Equal(t, p.calls.Load()-1, stats.Generated)
}

func TestRunWorkerPanicIsReported(t *testing.T) {
	p := &seqProvider{panicAt: 5}
	s := newTestSearcher(t, p, &memRecorder{}, &memReporter{})

	_, err := s.Run(context.Background())
	require.ErrorIs(t, err, ErrWorkerPanic)
}

func TestRunRecorderFailureContinues(t *testing.T) {
	p := &seqProvider{hitEvery: 5}
	rec := &memRecorder{err: errors.New("disk full")}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rep := &memReporter{onReport: func(generator.Stats) { cancel() }}
	s := newTestSearcher(t, p, rec, rep)

	stats, err := s.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(s.BatchSize()), stats.Generated)
	require.Equal(t, stats.Generated/5, stats.Matches)
	require.Equal(t, stats.Matches, stats.RecordFailures)
}

func TestRunTwiceFails(t *testing.T) {
	s := newTestSearcher(t, &seqProvider{}, &memRecorder{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Run(ctx)
	require.NoError(t, err)

	_, err = s.Run(ctx)
	require.Error(t, err)
}

func TestStateStoppingWhileDraining(t *testing.T) {
	p := &seqProvider{delay: 20 * time.Millisecond}
	s := newTestSearcher(t, p, &memRecorder{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := s.Run(ctx)
		errc <- err
	}()

	require.Eventually(t, func() bool {
		return s.State() == generator.Running && p.calls.Load() > 0
	}, time.Second, time.Millisecond)

	cancel()
	require.Eventually(t, func() bool {
		st := s.State()
		return st == generator.Stopping || st == generator.Terminated
	}, time.Second, time.Millisecond)

	require.NoError(t, <-errc)
	require.Equal(t, generator.Terminated, s.State())
}

func TestConcurrentAttemptsAreIndependent(t *testing.T) {
	provider, err := ethereum.NewProvider(12)
	require.NoError(t, err)
	w := &worker{provider: provider, matcher: generator.NewMatcher([]string{"0"})}

	const callers = 16
	const perCaller = 4

	var (
		mu        sync.Mutex
		addresses = make(map[string]struct{})
		keys      = make(map[string]struct{})
		wg        sync.WaitGroup
		attempts  atomic.Int64
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perCaller; j++ {
				id, err := w.provider.Generate()
				if !assert.NoError(t, err) {
					return
				}
				attempts.Add(1)

				mu.Lock()
				addresses[id.Address] = struct{}{}
				keys[id.PrivateKey] = struct{}{}
				mu.Unlock()

				_, err = w.attempt()
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	require.Len(t, addresses, callers*perCaller)
	require.Len(t, keys, callers*perCaller)
	require.Equal(t, int64(callers*perCaller), attempts.Load())
}

func TestWorkerAttempt(t *testing.T) {
	w := &worker{
		provider: &seqProvider{hitEvery: 2},
		matcher:  generator.NewMatcher([]string{"8888", "888"}),
	}

	rec, err := w.attempt()
	require.NoError(t, err)
	require.Nil(t, rec)

	rec, err = w.attempt()
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, "8888 (Prefix)", rec.Details())
	require.Equal(t, fmt.Sprintf("%064x", 2), rec.Identity.PrivateKey)
}
