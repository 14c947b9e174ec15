package flags_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flags-flipt/pkg/flags"
)

type user struct {
	ID   string
	Plan string
}

func staticAdapter(enabled map[string]bool) flags.Adapter[bool, *user] {
	return flags.AdapterFunc[bool, *user](func(ctx context.Context, req flags.Request[*user]) (bool, error) {
		if req.Entities == nil {
			return false, errors.New("no user")
		}
		v, ok := enabled[req.Key]
		if !ok {
			return false, errors.New("unknown flag")
		}
		return v && req.Entities.Plan == "pro", nil
	})
}

func TestFlag_Value(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	adapter := staticAdapter(map[string]bool{"new-checkout": true})
	identify := func(ctx context.Context) (*user, error) { return &user{ID: "u1", Plan: "pro"}, nil }

	t.Run("decides with identified entity", func(t *testing.T) {
		t.Parallel()
		f := flags.New("new-checkout", adapter, flags.WithIdentify[bool](identify))
		assert.Equal(t, "new-checkout", f.Key())

		v, err := f.Value(ctx)
		require.NoError(t, err)
		assert.True(t, v)
	})

	t.Run("adapter error without default", func(t *testing.T) {
		t.Parallel()
		f := flags.New("missing", adapter, flags.WithIdentify[bool](identify))

		_, err := f.Value(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown flag")
	})

	t.Run("adapter error falls back to default", func(t *testing.T) {
		t.Parallel()
		f := flags.New("missing", adapter,
			flags.WithIdentify[bool](identify),
			flags.WithDefault[bool, *user](true),
		)

		v, err := f.Value(ctx)
		require.NoError(t, err)
		assert.True(t, v)

		_, err = f.Decide(ctx)
		assert.Error(t, err, "Decide ignores the default")
	})

	t.Run("identify error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("session expired")
		f := flags.New("new-checkout", adapter, flags.WithIdentify[bool](func(ctx context.Context) (*user, error) {
			return nil, boom
		}))

		_, err := f.Value(ctx)
		assert.ErrorIs(t, err, flags.ErrIdentify)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("no identify passes zero entities", func(t *testing.T) {
		t.Parallel()
		f := flags.New("new-checkout", adapter)

		_, err := f.Value(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no user")
	})

	t.Run("nil adapter", func(t *testing.T) {
		t.Parallel()
		f := flags.New[bool, *user]("orphan", nil)

		_, err := f.Value(ctx)
		assert.ErrorIs(t, err, flags.ErrNoAdapter)
	})
}

func TestDefinitions(t *testing.T) {
	t.Parallel()

	adapter := staticAdapter(nil)
	checkout := flags.New("new-checkout", adapter,
		flags.WithDescription[bool, *user]("New checkout flow"),
		flags.WithOptions[bool, *user](flags.Option{Value: true, Label: "On"}, flags.Option{Value: false, Label: "Off"}),
	)
	plain := flags.New("plain", adapter)

	data := flags.Definitions(checkout, plain)
	require.Len(t, data.Definitions, 2)
	assert.Equal(t, "New checkout flow", data.Definitions["new-checkout"].Description)
	assert.Len(t, data.Definitions["new-checkout"].Options, 2)
	assert.Empty(t, data.Definitions["plain"].Options)
	assert.NotNil(t, data.Hints)
}
