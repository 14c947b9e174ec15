package flipt_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flags-flipt/pkg/flipt"
)

var testSettings = flipt.Settings{
	URL:         "http://localhost:8080",
	Namespace:   "default",
	ClientToken: "test-token",
}

func TestClientManager(t *testing.T) {
	t.Parallel()

	t.Run("memoizes the client", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{}
		f := &countingFactory{engine: engine}
		m := flipt.NewClientManager(flipt.WithEngineFactory(f.Factory))

		first, err := m.Client(t.Context(), testSettings)
		require.NoError(t, err)
		second, err := m.Client(t.Context(), testSettings)
		require.NoError(t, err)

		assert.Same(t, engine, first)
		assert.Same(t, first, second)
		assert.EqualValues(t, 1, f.calls.Load())
		assert.Equal(t, testSettings, f.lastSettings())
	})

	t.Run("separate clients per connection", func(t *testing.T) {
		t.Parallel()

		f := &countingFactory{engine: &fakeEngine{}}
		m := flipt.NewClientManager(flipt.WithEngineFactory(f.Factory))

		other := testSettings
		other.Namespace = "staging"

		_, err := m.Client(t.Context(), testSettings)
		require.NoError(t, err)
		_, err = m.Client(t.Context(), other)
		require.NoError(t, err)
		_, err = m.Client(t.Context(), other)
		require.NoError(t, err)

		assert.EqualValues(t, 2, f.calls.Load())
	})

	t.Run("concurrent first calls share one initialization", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{}
		f := &countingFactory{engine: engine, release: make(chan struct{})}
		m := flipt.NewClientManager(flipt.WithEngineFactory(f.Factory))

		const callers = 10
		var wg sync.WaitGroup
		results := make([]flipt.Engine, callers)
		errs := make([]error, callers)
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = m.Client(t.Context(), testSettings)
			}()
		}

		require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, time.Millisecond)
		close(f.release)
		wg.Wait()

		assert.EqualValues(t, 1, f.calls.Load())
		for i := range callers {
			require.NoError(t, errs[i])
			assert.Same(t, engine, results[i])
		}
	})

	t.Run("cancelled caller does not fail concurrent callers", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{}
		f := &countingFactory{engine: engine, release: make(chan struct{})}
		m := flipt.NewClientManager(flipt.WithEngineFactory(f.Factory))

		ctx, cancel := context.WithCancel(t.Context())
		firstErr := make(chan error, 1)
		go func() {
			_, err := m.Client(ctx, testSettings)
			firstErr <- err
		}()
		require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, time.Millisecond)

		type result struct {
			engine flipt.Engine
			err    error
		}
		second := make(chan result, 1)
		go func() {
			e, err := m.Client(t.Context(), testSettings)
			second <- result{e, err}
		}()

		cancel()
		err := <-firstErr
		assert.ErrorIs(t, err, flipt.ErrClientInitialization)
		assert.ErrorIs(t, err, context.Canceled)

		close(f.release)
		res := <-second
		require.NoError(t, res.err)
		assert.Same(t, engine, res.engine)
		assert.EqualValues(t, 1, f.calls.Load())

		cached, err := m.Client(t.Context(), testSettings)
		require.NoError(t, err)
		assert.Same(t, engine, cached)
		assert.EqualValues(t, 1, f.calls.Load(), "initialization outlives the cancelled caller")
	})

	t.Run("initialization failure is not cached", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		f := &countingFactory{err: cause}
		m := flipt.NewClientManager(flipt.WithEngineFactory(f.Factory))

		_, err := m.Client(t.Context(), testSettings)
		require.Error(t, err)
		assert.ErrorIs(t, err, flipt.ErrClientInitialization)
		assert.ErrorIs(t, err, cause)

		_, err = m.Client(t.Context(), testSettings)
		assert.ErrorIs(t, err, cause)
		assert.EqualValues(t, 2, f.calls.Load(), "every call retries")
	})

	t.Run("nil engine is an initialization failure", func(t *testing.T) {
		t.Parallel()

		f := &countingFactory{}
		m := flipt.NewClientManager(flipt.WithEngineFactory(f.Factory))

		_, err := m.Client(t.Context(), testSettings)
		assert.ErrorIs(t, err, flipt.ErrClientInitialization)
	})

	t.Run("reset drops cached clients", func(t *testing.T) {
		t.Parallel()

		f := &countingFactory{engine: &fakeEngine{}}
		m := flipt.NewClientManager(flipt.WithEngineFactory(f.Factory))

		_, err := m.Client(t.Context(), testSettings)
		require.NoError(t, err)
		m.Reset()
		_, err = m.Client(t.Context(), testSettings)
		require.NoError(t, err)

		assert.EqualValues(t, 2, f.calls.Load())
	})
}

func TestClientManagerRefresh(t *testing.T) {
	t.Parallel()

	settings := testSettings
	settings.UpdateInterval = time.Minute

	newManager := func(engine flipt.Engine) (*flipt.ClientManager, *manualClock) {
		clock := newManualClock()
		f := &countingFactory{engine: engine}
		return flipt.NewClientManager(flipt.WithEngineFactory(f.Factory), flipt.WithClock(clock.Now)), clock
	}

	t.Run("refreshes once the interval has elapsed", func(t *testing.T) {
		t.Parallel()

		engine := &refreshingEngine{fakeEngine: &fakeEngine{}}
		m, clock := newManager(engine)

		_, err := m.Client(t.Context(), settings)
		require.NoError(t, err)

		clock.Advance(30 * time.Second)
		_, err = m.Client(t.Context(), settings)
		require.NoError(t, err)
		assert.Zero(t, engine.refreshCalls.Load())

		clock.Advance(time.Minute)
		got, err := m.Client(t.Context(), settings)
		require.NoError(t, err)
		assert.Same(t, engine, got)
		assert.EqualValues(t, 1, engine.refreshCalls.Load())

		_, err = m.Client(t.Context(), settings)
		require.NoError(t, err)
		assert.EqualValues(t, 1, engine.refreshCalls.Load(), "interval restarts after a refresh")
	})

	t.Run("refresh errors propagate and retry", func(t *testing.T) {
		t.Parallel()

		engine := &refreshingEngine{fakeEngine: &fakeEngine{}}
		m, clock := newManager(engine)

		_, err := m.Client(t.Context(), settings)
		require.NoError(t, err)

		cause := errors.New("namespace not found")
		engine.refreshErr.Store(&cause)
		clock.Advance(2 * time.Minute)

		_, err = m.Client(t.Context(), settings)
		assert.ErrorIs(t, err, flipt.ErrClientRefresh)
		assert.ErrorIs(t, err, cause)

		engine.refreshErr.Store(nil)
		_, err = m.Client(t.Context(), settings)
		require.NoError(t, err)
		assert.EqualValues(t, 2, engine.refreshCalls.Load())
	})

	t.Run("disabled without interval", func(t *testing.T) {
		t.Parallel()

		engine := &refreshingEngine{fakeEngine: &fakeEngine{}}
		m, clock := newManager(engine)

		_, err := m.Client(t.Context(), testSettings)
		require.NoError(t, err)
		clock.Advance(time.Hour)
		_, err = m.Client(t.Context(), testSettings)
		require.NoError(t, err)

		assert.Zero(t, engine.refreshCalls.Load())
	})

	t.Run("engines without refresh support are reused", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{}
		m, clock := newManager(engine)

		_, err := m.Client(t.Context(), settings)
		require.NoError(t, err)
		clock.Advance(time.Hour)
		got, err := m.Client(t.Context(), settings)
		require.NoError(t, err)
		assert.Same(t, engine, got)
	})
}

func TestDefaultClientManager(t *testing.T) {
	t.Parallel()

	assert.Same(t, flipt.DefaultClientManager(), flipt.DefaultClientManager())
}
