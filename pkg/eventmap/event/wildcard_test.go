package event_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/eventmap/pkg/eventmap/event"
)

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"foo.*", "foo.bar", true},
		{"foo.*", "foo.baz", true},
		{"foo.*", "foo.", true},
		{"foo.*", "bar.foo", false},
		{"foo.*", "foo", false},
		{"*.created", "user.created", true},
		{"*", "anything", true},
		{"user.(x)*", "user.(x)y", true},
		{"user.?", "user.a", false},
		{"exact", "exact", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, event.MatchPattern(tt.pattern, tt.name))
		})
	}
}

func TestWildcard_ReceivesEventNameFirst(t *testing.T) {
	d := event.NewDispatcher()
	var got []any

	_, err := d.Listen("user.*", event.ListenerFunc(func(_ context.Context, payload ...any) error {
		got = payload
		return nil
	}))
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), event.NewGeneric("user.created", "calvin", 1))
	require.NoError(t, err)
	assert.Equal(t, []any{"user.created", "calvin", 1}, got)
}

func TestWildcard_RegisteredAfterDispatch(t *testing.T) {
	d := event.NewDispatcher()
	var names []string
	listener := event.ListenerFunc(func(_ context.Context, payload ...any) error {
		names = append(names, payload[0].(string))
		return nil
	})

	ctx := context.Background()
	_, err := d.Dispatch(ctx, event.NewGeneric("foo.bar"))
	require.NoError(t, err)

	_, err = d.Listen("foo.*", listener)
	require.NoError(t, err)

	for _, name := range []string{"foo.bar", "foo.baz", "bar.foo"} {
		_, err = d.Dispatch(ctx, event.NewGeneric(name))
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"foo.bar", "foo.baz"}, names)
}

func TestWildcard_Remove(t *testing.T) {
	d := event.NewDispatcher()
	var calls int
	listener := event.ListenerFunc(func(context.Context, ...any) error {
		calls++
		return nil
	})

	id, err := d.Listen("foo.*", listener)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, d.ListenerIDs("foo.*"))

	ctx := context.Background()
	_, err = d.Dispatch(ctx, event.NewGeneric("foo.bar"))
	require.NoError(t, err)

	require.NoError(t, d.Remove("foo.*", id))
	_, err = d.Dispatch(ctx, event.NewGeneric("foo.bar"))
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.False(t, d.HasListeners("foo.bar"))
}

func TestWildcard_UnremovableAll(t *testing.T) {
	d := event.NewDispatcher()
	noop := event.ListenerFunc(func(context.Context, ...any) error { return nil })

	_, err := d.Listen("foo.*", noop, event.WithUnremovable())
	require.NoError(t, err)

	assert.ErrorIs(t, d.Remove("foo.*", ""), event.ErrCantRemoveListener)
	assert.True(t, d.HasListeners("foo.bar"))
}

func TestWildcard_TypedEventName(t *testing.T) {
	d := event.NewDispatcher()
	var names []string

	_, err := d.Listen("order.*", event.ListenerFunc(func(_ context.Context, payload ...any) error {
		names = append(names, payload[0].(string))
		_, isOrder := payload[1].(*OrderShipped)
		assert.True(t, isOrder)
		return nil
	}))
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), &OrderShipped{Order: "A-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"order.shipped"}, names)
}
