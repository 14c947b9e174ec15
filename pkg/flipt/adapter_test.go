package flipt_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flags-flipt/pkg/flags"
	"github.com/dmitrymomot/flags-flipt/pkg/flipt"
	"github.com/dmitrymomot/flags-flipt/pkg/metrics"
)

var testConfig = flipt.Config{
	URL:            "http://localhost:8080",
	Namespace:      "default",
	Authentication: &flipt.Authentication{ClientToken: "test-token"},
}

func TestBoolean(t *testing.T) {
	t.Parallel()

	t.Run("evaluates with transformed context", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{boolean: flipt.BooleanEvaluation{FlagKey: "new-feature", Enabled: true}}
		f := &countingFactory{engine: engine}
		a := newTestAdapter(f, testConfig)

		enabled, err := flipt.Boolean(a, flipt.Enabled).Decide(t.Context(), flags.Request[flipt.Entities]{
			Key:      "new-feature",
			Entities: flipt.Entities{"id": "user-123", "email": "user@example.com", "beta": true},
		})
		require.NoError(t, err)
		assert.True(t, enabled)

		assert.Equal(t, flipt.EvaluationRequest{
			FlagKey:  "new-feature",
			EntityID: "user-123",
			Context:  map[string]string{"email": "user@example.com", "beta": "true"},
		}, engine.lastRequest())
		assert.Equal(t, testSettings, f.lastSettings())
	})

	t.Run("projection result is returned verbatim", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{boolean: flipt.BooleanEvaluation{Enabled: false}}
		a := newTestAdapter(&countingFactory{engine: engine}, testConfig)

		label, err := flipt.Boolean(a, func(r flipt.BooleanResult) string {
			if r.Enabled {
				return "on"
			}
			return "off"
		}).Decide(t.Context(), flags.Request[flipt.Entities]{Key: "new-feature", Entities: flipt.Entities{"id": "user-123"}})
		require.NoError(t, err)
		assert.Equal(t, "off", label)
	})

	t.Run("invalid context never reaches the engine", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{}
		f := &countingFactory{engine: engine}
		a := newTestAdapter(f, testConfig)
		adapter := flipt.Boolean(a, flipt.Enabled)

		for _, entities := range []flipt.Entities{nil, {}, {"email": "user@example.com"}, {"id": ""}} {
			_, err := adapter.Decide(t.Context(), flags.Request[flipt.Entities]{Key: "new-feature", Entities: entities})
			require.ErrorIs(t, err, flipt.ErrInvalidContext)
			assert.EqualError(t, err, "flipt: invalid or missing context from identify")
		}

		assert.Zero(t, f.calls.Load(), "client is not initialized")
		assert.Zero(t, engine.booleanCalls.Load())
	})

	t.Run("engine errors are wrapped", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("flag not found")
		engine := &fakeEngine{err: cause}
		a := newTestAdapter(&countingFactory{engine: engine}, testConfig)

		_, err := flipt.Boolean(a, flipt.Enabled).Decide(t.Context(), flags.Request[flipt.Entities]{
			Key:      "missing",
			Entities: flipt.Entities{"id": "user-123"},
		})
		assert.ErrorIs(t, err, flipt.ErrEvaluation)
		assert.ErrorIs(t, err, cause)
		assert.EqualValues(t, 1, engine.booleanCalls.Load(), "no retries")
	})

	t.Run("initialization errors surface", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		f := &countingFactory{err: cause}
		a := newTestAdapter(f, testConfig)

		_, err := flipt.Boolean(a, flipt.Enabled).Decide(t.Context(), flags.Request[flipt.Entities]{
			Key:      "new-feature",
			Entities: flipt.Entities{"id": "user-123"},
		})
		assert.ErrorIs(t, err, flipt.ErrClientInitialization)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, flipt.ErrEvaluation)
	})
}

func TestVariant(t *testing.T) {
	t.Parallel()

	request := flags.Request[flipt.Entities]{Key: "user_theme", Entities: flipt.Entities{"id": "user-123"}}

	t.Run("passes the attachment through", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{variant: flipt.VariantEvaluation{
			FlagKey:           "user_theme",
			Match:             true,
			VariantKey:        "dark",
			VariantAttachment: `{"style":"modern"}`,
		}}
		a := newTestAdapter(&countingFactory{engine: engine}, testConfig)

		res, err := flipt.Variant(a, func(r flipt.VariantResult) flipt.VariantResult { return r }).Decide(t.Context(), request)
		require.NoError(t, err)
		assert.Equal(t, "dark", res.VariantKey)
		require.NotNil(t, res.Attachment)
		assert.JSONEq(t, `{"style":"modern"}`, *res.Attachment)
		assert.EqualValues(t, 1, engine.variantCalls.Load())
	})

	t.Run("invalid context never reaches the engine", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{}
		f := &countingFactory{engine: engine}
		a := newTestAdapter(f, testConfig)
		adapter := flipt.Variant(a, flipt.VariantKey)

		for _, entities := range []flipt.Entities{nil, {}, {"email": "user@example.com"}, {"id": ""}} {
			_, err := adapter.Decide(t.Context(), flags.Request[flipt.Entities]{Key: "user_theme", Entities: entities})
			require.ErrorIs(t, err, flipt.ErrInvalidContext)
			assert.EqualError(t, err, "flipt: invalid or missing context from identify")
		}

		assert.Zero(t, f.calls.Load(), "client is not initialized")
		assert.Zero(t, engine.variantCalls.Load())
	})

	t.Run("empty attachment is nil", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{variant: flipt.VariantEvaluation{VariantKey: "light"}}
		a := newTestAdapter(&countingFactory{engine: engine}, testConfig)

		res, err := flipt.Variant(a, func(r flipt.VariantResult) flipt.VariantResult { return r }).Decide(t.Context(), request)
		require.NoError(t, err)
		assert.Equal(t, "light", res.VariantKey)
		assert.Nil(t, res.Attachment)
	})

	t.Run("variant key projection", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{variant: flipt.VariantEvaluation{VariantKey: "dark"}}
		a := newTestAdapter(&countingFactory{engine: engine}, testConfig)

		key, err := flipt.Variant(a, flipt.VariantKey).Decide(t.Context(), request)
		require.NoError(t, err)
		assert.Equal(t, "dark", key)
	})
}

func TestAdapterSharesClient(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{boolean: flipt.BooleanEvaluation{Enabled: true}}
	f := &countingFactory{engine: engine}
	a := newTestAdapter(f, testConfig)

	initialized, err := a.Initialize(t.Context())
	require.NoError(t, err)
	assert.Same(t, engine, initialized)

	request := flags.Request[flipt.Entities]{Key: "new-feature", Entities: flipt.Entities{"id": "user-123"}}
	for range 3 {
		_, err := flipt.Boolean(a, flipt.Enabled).Decide(t.Context(), request)
		require.NoError(t, err)
		_, err = flipt.Variant(a, flipt.VariantKey).Decide(t.Context(), request)
		require.NoError(t, err)
	}

	assert.EqualValues(t, 1, f.calls.Load())
	assert.EqualValues(t, 3, engine.booleanCalls.Load())
	assert.EqualValues(t, 3, engine.variantCalls.Load())
}

func TestAdapterMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	collector := metrics.New("test")
	require.NoError(t, collector.Register(reg))

	engine := &fakeEngine{boolean: flipt.BooleanEvaluation{Enabled: true}}
	a := newTestAdapter(&countingFactory{engine: engine}, testConfig, flipt.WithMetrics(collector))
	adapter := flipt.Boolean(a, flipt.Enabled)

	_, err := adapter.Decide(t.Context(), flags.Request[flipt.Entities]{Key: "a", Entities: flipt.Entities{"id": "user-123"}})
	require.NoError(t, err)
	_, err = adapter.Decide(t.Context(), flags.Request[flipt.Entities]{Key: "a"})
	require.Error(t, err)

	count, err := testutil.GatherAndCount(reg, "test_flags_evaluations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "success and invalid_context series")
}
