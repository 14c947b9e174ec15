package flipt

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/flags-flipt/pkg/config"
	"github.com/dmitrymomot/flags-flipt/pkg/flags"
	"github.com/dmitrymomot/flags-flipt/pkg/logger"
	"github.com/dmitrymomot/flags-flipt/pkg/metrics"
)

// Evaluation kinds, used as log and metric labels.
const (
	KindBoolean = "boolean"
	KindVariant = "variant"
)

// BooleanResult is the projection input for boolean flags.
type BooleanResult struct {
	Enabled bool
}

// VariantResult is the projection input for variant flags.
type VariantResult struct {
	VariantKey string
	// Attachment is the raw variant attachment, nil when the variant has none.
	Attachment *string
}

// Adapter binds flags to a Flipt namespace.
type Adapter struct {
	cfg                Config
	manager            *ClientManager
	logger             *slog.Logger
	metrics            *metrics.Collector
	environ            map[string]string
	envFiles           []string
	requireCredentials bool

	once        sync.Once
	env         EnvConfig
	settings    Settings
	settingsErr error
}

// New creates an adapter. Configuration is resolved on first use:
// explicit cfg fields, then FLIPT_* environment variables, then built-in defaults.
func New(cfg Config, opts ...Option) *Adapter {
	a := &Adapter{
		cfg:     cfg,
		manager: DefaultClientManager(),
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAdapter = sync.OnceValue(func() *Adapter { return New(Config{}) })

// Default returns an adapter configured from the environment only.
func Default() *Adapter {
	return defaultAdapter()
}

// Settings returns the effective configuration.
func (a *Adapter) Settings() (Settings, error) {
	a.once.Do(a.resolve)
	return a.settings, a.settingsErr
}

func (a *Adapter) resolve() {
	environ := a.environ
	if environ == nil {
		var err error
		environ, err = config.Environ(a.envFiles...)
		if err != nil {
			a.settingsErr = errors.Join(ErrInvalidConfig, err)
			return
		}
	}

	env, err := ParseEnv(environ)
	if err != nil {
		a.settingsErr = err
		return
	}
	a.env = env
	a.settings = ResolveSettings(a.cfg, env.Config(), Defaults())
}

// Initialize returns the engine client for this adapter, creating it if needed.
func (a *Adapter) Initialize(ctx context.Context) (Engine, error) {
	s, err := a.Settings()
	if err != nil {
		return nil, err
	}
	return a.manager.Client(ctx, s)
}

// Boolean returns a flags adapter evaluating boolean flags.
// project maps the engine result into the flag's value type.
func Boolean[V any](a *Adapter, project func(BooleanResult) V) flags.Adapter[V, Entities] {
	return flags.AdapterFunc[V, Entities](func(ctx context.Context, req flags.Request[Entities]) (V, error) {
		return decide(ctx, a, KindBoolean, req, func(ctx context.Context, e Engine, r EvaluationRequest) (V, error) {
			res, err := e.EvaluateBoolean(ctx, r)
			if err != nil {
				var zero V
				return zero, err
			}
			return project(BooleanResult{Enabled: res.Enabled}), nil
		})
	})
}

// Variant returns a flags adapter evaluating variant flags.
// project maps the engine result into the flag's value type.
func Variant[V any](a *Adapter, project func(VariantResult) V) flags.Adapter[V, Entities] {
	return flags.AdapterFunc[V, Entities](func(ctx context.Context, req flags.Request[Entities]) (V, error) {
		return decide(ctx, a, KindVariant, req, func(ctx context.Context, e Engine, r EvaluationRequest) (V, error) {
			res, err := e.EvaluateVariant(ctx, r)
			if err != nil {
				var zero V
				return zero, err
			}
			out := VariantResult{VariantKey: res.VariantKey}
			if res.VariantAttachment != "" {
				attachment := res.VariantAttachment
				out.Attachment = &attachment
			}
			return project(out), nil
		})
	})
}

// Enabled is a Boolean projection returning the enabled state.
func Enabled(r BooleanResult) bool { return r.Enabled }

// VariantKey is a Variant projection returning the variant key.
func VariantKey(r VariantResult) string { return r.VariantKey }

type evaluateFunc[V any] func(ctx context.Context, e Engine, r EvaluationRequest) (V, error)

func decide[V any](ctx context.Context, a *Adapter, kind string, req flags.Request[Entities], eval evaluateFunc[V]) (V, error) {
	var zero V

	evalCtx, err := Validate(req.Entities)
	if err != nil {
		a.metrics.ObserveEvaluation(kind, metrics.OutcomeInvalidContext, 0)
		a.logger.DebugContext(ctx, "flipt evaluation rejected",
			logger.FlagKey(req.Key),
			logger.EvaluationKind(kind),
			logger.Error(err),
		)
		return zero, err
	}

	start := time.Now()
	engine, err := a.Initialize(ctx)
	if err != nil {
		a.metrics.ObserveEvaluation(kind, metrics.OutcomeError, time.Since(start))
		return zero, err
	}

	v, err := eval(ctx, engine, evalCtx.request(req.Key))
	if err != nil {
		a.metrics.ObserveEvaluation(kind, metrics.OutcomeError, time.Since(start))
		a.logger.DebugContext(ctx, "flipt evaluation failed",
			logger.FlagKey(req.Key),
			logger.EntityID(evalCtx.EntityID),
			logger.EvaluationKind(kind),
			logger.Error(err),
		)
		return zero, errors.Join(ErrEvaluation, err)
	}

	a.metrics.ObserveEvaluation(kind, metrics.OutcomeSuccess, time.Since(start))
	return v, nil
}
