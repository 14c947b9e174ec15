package flipt

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/flags-flipt/pkg/logger"
	"github.com/dmitrymomot/flags-flipt/pkg/metrics"
)

// ClientManager owns initialized engine clients, one per (url, namespace, token).
// It is safe for concurrent use. Adapters built without an explicit manager share
// the package default returned by DefaultClientManager.
type ClientManager struct {
	factory EngineFactory
	logger  *slog.Logger
	metrics *metrics.Collector
	now     func() time.Time

	mu         sync.Mutex
	clients    map[string]*cachedClient
	generation uint64
	group      singleflight.Group
}

type cachedClient struct {
	engine      Engine
	refreshedAt time.Time
	refreshing  bool
}

// ManagerOption configures a ClientManager.
type ManagerOption func(*ClientManager)

// WithEngineFactory sets the factory used to initialize clients.
// Defaults to HTTPEngineFactory().
func WithEngineFactory(f EngineFactory) ManagerOption {
	return func(m *ClientManager) {
		if f != nil {
			m.factory = f
		}
	}
}

// WithManagerLogger sets the logger for client lifecycle events.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *ClientManager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithManagerMetrics records client initializations on c.
func WithManagerMetrics(c *metrics.Collector) ManagerOption {
	return func(m *ClientManager) { m.metrics = c }
}

// WithClock replaces time.Now for refresh scheduling.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *ClientManager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewClientManager creates an empty manager.
func NewClientManager(opts ...ManagerOption) *ClientManager {
	m := &ClientManager{
		factory: HTTPEngineFactory(),
		logger:  logger.Discard(),
		now:     time.Now,
		clients: make(map[string]*cachedClient),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var defaultManager = NewClientManager()

// DefaultClientManager returns the process-wide manager.
func DefaultClientManager() *ClientManager {
	return defaultManager
}

// Client returns the engine client for s, initializing it on first use.
// Concurrent first callers share one initialization. It is detached from
// the cancellation of the caller that started it, and each caller waits for
// it only as long as its own ctx allows. A failed initialization is not
// cached. When s.UpdateInterval is positive and the engine implements
// Refresher, a cached client is refreshed before reuse once the interval
// has elapsed; callers arriving while a refresh is running get the cached
// client without waiting.
func (m *ClientManager) Client(ctx context.Context, s Settings) (Engine, error) {
	key := s.key()

	m.mu.Lock()
	if c, ok := m.clients[key]; ok {
		refresher, due := m.refreshDue(c, s)
		if due {
			c.refreshing = true
		}
		m.mu.Unlock()
		if !due {
			return c.engine, nil
		}
		return m.refresh(ctx, c, refresher, s)
	}
	m.mu.Unlock()

	initCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (any, error) {
		m.mu.Lock()
		if c, ok := m.clients[key]; ok {
			m.mu.Unlock()
			return c.engine, nil
		}
		generation := m.generation
		m.mu.Unlock()

		return m.initialize(initCtx, s, key, generation)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Engine), nil
	case <-ctx.Done():
		return nil, errors.Join(ErrClientInitialization, ctx.Err())
	}
}

// Reset drops every cached client. Initializations in flight when Reset is
// called complete for their callers but are not cached.
func (m *ClientManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clients = make(map[string]*cachedClient)
	m.generation++
}

func (m *ClientManager) initialize(ctx context.Context, s Settings, key string, generation uint64) (Engine, error) {
	start := m.now()
	engine, err := m.factory(ctx, s)
	if err == nil && engine == nil {
		err = errors.New("engine factory returned no client")
	}
	if err != nil {
		m.metrics.ObserveClientInit(metrics.OutcomeError)
		m.logger.ErrorContext(ctx, "flipt client initialization failed",
			logger.Component("flipt"),
			logger.Namespace(s.Namespace),
			logger.Error(err),
		)
		return nil, errors.Join(ErrClientInitialization, err)
	}

	m.mu.Lock()
	if m.generation == generation {
		m.clients[key] = &cachedClient{engine: engine, refreshedAt: m.now()}
	}
	m.mu.Unlock()

	m.metrics.ObserveClientInit(metrics.OutcomeSuccess)
	m.logger.InfoContext(ctx, "flipt client initialized",
		logger.Component("flipt"),
		logger.Namespace(s.Namespace),
		logger.Duration(m.now().Sub(start)),
	)
	return engine, nil
}

// refreshDue must be called with m.mu held.
func (m *ClientManager) refreshDue(c *cachedClient, s Settings) (Refresher, bool) {
	if s.UpdateInterval <= 0 || c.refreshing {
		return nil, false
	}
	refresher, ok := c.engine.(Refresher)
	if !ok {
		return nil, false
	}
	return refresher, m.now().Sub(c.refreshedAt) >= s.UpdateInterval
}

func (m *ClientManager) refresh(ctx context.Context, c *cachedClient, r Refresher, s Settings) (Engine, error) {
	err := r.Refresh(ctx)

	m.mu.Lock()
	c.refreshing = false
	if err == nil {
		c.refreshedAt = m.now()
	}
	m.mu.Unlock()

	if err != nil {
		m.logger.WarnContext(ctx, "flipt client refresh failed",
			logger.Component("flipt"),
			logger.Namespace(s.Namespace),
			logger.Error(err),
		)
		return nil, errors.Join(ErrClientRefresh, err)
	}

	m.logger.DebugContext(ctx, "flipt client refreshed",
		logger.Component("flipt"),
		logger.Namespace(s.Namespace),
	)
	return c.engine, nil
}
