package multicast_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/statekit/pkg/multicast"
)

type sink struct {
	got []int
}

func (s *sink) observe(v int) error {
	s.got = append(s.got, v)
	return nil
}

func TestWeak(t *testing.T) {
	t.Parallel()

	t.Run("delivers while target is reachable", func(t *testing.T) {
		t.Parallel()

		d := multicast.New[int]()
		defer d.Close()

		s := &sink{}
		multicast.Weak(d, s, (*sink).observe)

		require.NoError(t, d.Raise(1))
		require.NoError(t, d.Raise(2))
		assert.Equal(t, []int{1, 2}, s.got)
	})

	t.Run("reclaimed target is skipped and pruned", func(t *testing.T) {
		t.Parallel()

		d := multicast.New[int]()
		defer d.Close()

		hits := 0
		s := &sink{}
		// The callback must not capture s, or it would keep it alive.
		multicast.Weak(d, s, func(_ *sink, v int) error {
			hits++
			return nil
		})

		require.NoError(t, d.Raise(1))
		require.Equal(t, 1, hits)

		s = nil
		for range 5 {
			runtime.GC()
		}

		require.NoError(t, d.Raise(2))
		assert.Equal(t, 1, hits, "reclaimed listener must receive no further calls")
		assert.Zero(t, d.Len(), "dead entry must be pruned by the raise")
	})

	t.Run("explicit unsubscribe behaves like reclamation", func(t *testing.T) {
		t.Parallel()

		d := multicast.New[int]()
		defer d.Close()

		s := &sink{}
		tok := d.Subscribe(s.observe)
		w := &sink{}
		wtok := multicast.Weak(d, w, (*sink).observe)

		require.NoError(t, d.Raise(1))
		require.True(t, d.Unsubscribe(tok))
		require.True(t, d.Unsubscribe(wtok))
		require.NoError(t, d.Raise(2))

		assert.Equal(t, []int{1}, s.got)
		assert.Equal(t, []int{1}, w.got)
	})
}
