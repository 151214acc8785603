package multicast_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/statekit/pkg/multicast"
)

func TestDispatcherRaise(t *testing.T) {
	t.Parallel()

	t.Run("delivers in subscription order", func(t *testing.T) {
		t.Parallel()

		d := multicast.New[int]()
		defer d.Close()

		var order []string
		d.Subscribe(func(v int) error {
			order = append(order, "first")
			return nil
		})
		d.Subscribe(func(v int) error {
			order = append(order, "second")
			return nil
		})
		d.Subscribe(func(v int) error {
			order = append(order, "third")
			return nil
		})

		require.NoError(t, d.Raise(1))
		assert.Equal(t, []string{"first", "second", "third"}, order)
	})

	t.Run("listener error aborts later listeners", func(t *testing.T) {
		t.Parallel()

		d := multicast.New[int]()
		defer d.Close()

		boom := errors.New("boom")
		var reached []int

		d.Subscribe(func(v int) error {
			reached = append(reached, 1)
			return nil
		})
		d.Subscribe(func(v int) error {
			return boom
		})
		d.Subscribe(func(v int) error {
			reached = append(reached, 3)
			return nil
		})

		err := d.Raise(42)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, []int{1}, reached)

		// The failing listener stays subscribed; a later raise retries it.
		err = d.Raise(43)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, []int{1, 1}, reached)
	})

	t.Run("unsubscribed listener receives nothing", func(t *testing.T) {
		t.Parallel()

		d := multicast.New[string]()
		defer d.Close()

		calls := 0
		tok := d.Subscribe(func(string) error {
			calls++
			return nil
		})

		require.NoError(t, d.Raise("a"))
		require.True(t, d.Unsubscribe(tok))
		require.NoError(t, d.Raise("b"))

		assert.Equal(t, 1, calls)
		assert.False(t, d.Unsubscribe(tok), "second unsubscribe must be a no-op")
	})

	t.Run("self-unsubscribe mid-delivery stops only that listener", func(t *testing.T) {
		t.Parallel()

		d := multicast.New[int]()
		defer d.Close()

		var first, second int
		var tok multicast.Token
		tok = d.Subscribe(func(v int) error {
			first++
			d.Unsubscribe(tok)
			return nil
		})
		d.Subscribe(func(v int) error {
			second++
			return nil
		})

		require.NoError(t, d.Raise(1))
		require.NoError(t, d.Raise(2))

		assert.Equal(t, 1, first)
		assert.Equal(t, 2, second)
	})

	t.Run("listener can unsubscribe a later listener mid-raise", func(t *testing.T) {
		t.Parallel()

		d := multicast.New[int]()
		defer d.Close()

		var victimCalls int
		var victim multicast.Token
		d.Subscribe(func(v int) error {
			d.Unsubscribe(victim)
			return nil
		})
		victim = d.Subscribe(func(v int) error {
			victimCalls++
			return nil
		})

		require.NoError(t, d.Raise(1))
		assert.Zero(t, victimCalls)
	})
}

func TestDispatcherClose(t *testing.T) {
	t.Parallel()

	t.Run("done callbacks fire exactly once in order", func(t *testing.T) {
		t.Parallel()

		d := multicast.New[int]()

		var done []string
		d.Subscribe(func(int) error { return nil },
			multicast.WithDone(func() { done = append(done, "a") }))
		d.Subscribe(func(int) error { return nil },
			multicast.WithDone(func() { done = append(done, "b") }))

		require.NoError(t, d.Close())
		require.NoError(t, d.Close())
		assert.Equal(t, []string{"a", "b"}, done)
	})

	t.Run("raise after close returns ErrClosed", func(t *testing.T) {
		t.Parallel()

		d := multicast.New[int]()
		require.NoError(t, d.Close())
		assert.ErrorIs(t, d.Raise(1), multicast.ErrClosed)
	})

	t.Run("subscribe after close returns inert token and completes immediately", func(t *testing.T) {
		t.Parallel()

		d := multicast.New[int]()
		require.NoError(t, d.Close())

		doneCalls := 0
		tok := d.Subscribe(func(int) error { return nil },
			multicast.WithDone(func() { doneCalls++ }))

		assert.True(t, tok.IsZero())
		assert.Equal(t, 1, doneCalls)
		assert.False(t, d.Unsubscribe(tok))
	})

	t.Run("unsubscribe does not trigger done", func(t *testing.T) {
		t.Parallel()

		d := multicast.New[int]()

		doneCalls := 0
		tok := d.Subscribe(func(int) error { return nil },
			multicast.WithDone(func() { doneCalls++ }))

		d.Unsubscribe(tok)
		assert.Zero(t, doneCalls)

		require.NoError(t, d.Close())
		assert.Zero(t, doneCalls, "done of an unsubscribed listener must not fire on close")
	})
}

func TestDispatcherLen(t *testing.T) {
	t.Parallel()

	d := multicast.New[int]()
	defer d.Close()

	assert.Zero(t, d.Len())
	tok := d.Subscribe(func(int) error { return nil })
	d.Subscribe(func(int) error { return nil })
	assert.Equal(t, 2, d.Len())

	d.Unsubscribe(tok)
	assert.Equal(t, 1, d.Len())
}
