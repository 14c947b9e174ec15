package flipt_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/flags-flipt/pkg/flipt"
)

// fakeEngine records calls and returns canned results.
type fakeEngine struct {
	booleanCalls atomic.Int32
	variantCalls atomic.Int32
	listCalls    atomic.Int32

	mu       sync.Mutex
	requests []flipt.EvaluationRequest

	boolean flipt.BooleanEvaluation
	variant flipt.VariantEvaluation
	flags   []flipt.FlagSummary
	err     error
}

func (e *fakeEngine) record(req flipt.EvaluationRequest) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = append(e.requests, req)
}

func (e *fakeEngine) lastRequest() flipt.EvaluationRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.requests) == 0 {
		return flipt.EvaluationRequest{}
	}
	return e.requests[len(e.requests)-1]
}

func (e *fakeEngine) EvaluateBoolean(_ context.Context, req flipt.EvaluationRequest) (flipt.BooleanEvaluation, error) {
	e.booleanCalls.Add(1)
	e.record(req)
	if e.err != nil {
		return flipt.BooleanEvaluation{}, e.err
	}
	return e.boolean, nil
}

func (e *fakeEngine) EvaluateVariant(_ context.Context, req flipt.EvaluationRequest) (flipt.VariantEvaluation, error) {
	e.variantCalls.Add(1)
	e.record(req)
	if e.err != nil {
		return flipt.VariantEvaluation{}, e.err
	}
	return e.variant, nil
}

func (e *fakeEngine) ListFlags(context.Context) ([]flipt.FlagSummary, error) {
	e.listCalls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	return e.flags, nil
}

// refreshingEngine is a fakeEngine that also implements flipt.Refresher.
type refreshingEngine struct {
	*fakeEngine
	refreshCalls atomic.Int32
	refreshErr   atomic.Pointer[error]
}

func (e *refreshingEngine) Refresh(context.Context) error {
	e.refreshCalls.Add(1)
	if err := e.refreshErr.Load(); err != nil {
		return *err
	}
	return nil
}

// countingFactory is an EngineFactory that counts initializations.
type countingFactory struct {
	calls   atomic.Int32
	engine  flipt.Engine
	err     error
	release chan struct{}

	mu       sync.Mutex
	settings []flipt.Settings
}

func (f *countingFactory) Factory(ctx context.Context, s flipt.Settings) (flipt.Engine, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.settings = append(f.settings, s)
	f.mu.Unlock()

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.engine, nil
}

func (f *countingFactory) lastSettings() flipt.Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.settings) == 0 {
		return flipt.Settings{}
	}
	return f.settings[len(f.settings)-1]
}

// manualClock is a settable clock for refresh scheduling.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 3, 25, 20, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestAdapter builds an adapter with an isolated manager and an empty environment.
func newTestAdapter(f *countingFactory, cfg flipt.Config, opts ...flipt.Option) *flipt.Adapter {
	manager := flipt.NewClientManager(flipt.WithEngineFactory(f.Factory))
	opts = append([]flipt.Option{
		flipt.WithClientManager(manager),
		flipt.WithEnviron(map[string]string{}),
	}, opts...)
	return flipt.New(cfg, opts...)
}
