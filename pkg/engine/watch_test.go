package engine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/statekit/pkg/engine"
)

func drained(ch <-chan engine.State) func() bool {
	return func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}
}

func TestWatch(t *testing.T) {
	t.Parallel()

	t.Run("buffers state changes for pulling", func(t *testing.T) {
		t.Parallel()

		eng := newCounterEngine(t)
		ch := eng.Watch(context.Background())

		ctx := context.Background()
		require.NoError(t, eng.Submit(ctx, engine.StringEvent("increment")))
		require.NoError(t, eng.Submit(ctx, engine.StringEvent("increment")))
		require.NoError(t, eng.Submit(ctx, engine.StringEvent("decrement")))

		var got []int
		for range 3 {
			got = append(got, (<-ch).(counter).N)
		}
		assert.Equal(t, []int{1, 2, 1}, got)
	})

	t.Run("engine close closes the channel", func(t *testing.T) {
		t.Parallel()

		eng := newCounterEngine(t)
		ch := eng.Watch(context.Background())

		require.NoError(t, eng.Submit(context.Background(), engine.StringEvent("increment")))
		require.NoError(t, eng.Close())

		s, ok := <-ch
		require.True(t, ok, "buffered value survives close")
		assert.Equal(t, counter{N: 1}, s)

		_, ok = <-ch
		assert.False(t, ok)
	})

	t.Run("context cancellation closes the channel", func(t *testing.T) {
		t.Parallel()

		eng := newCounterEngine(t)

		ctx, cancel := context.WithCancel(context.Background())
		ch := eng.Watch(ctx)
		cancel()

		assert.Eventually(t, drained(ch), time.Second, 10*time.Millisecond)
	})

	t.Run("slow consumer drops instead of blocking the engine", func(t *testing.T) {
		t.Parallel()

		eng := newCounterEngine(t, engine.WithWatchBuffer(1))
		ch := eng.Watch(context.Background())

		ctx := context.Background()
		require.NoError(t, eng.Submit(ctx, engine.StringEvent("increment")))
		require.NoError(t, eng.Submit(ctx, engine.StringEvent("increment")))

		// Only the first change fits the buffer; the second was dropped.
		assert.Equal(t, counter{N: 1}, <-ch)
		select {
		case s := <-ch:
			t.Fatalf("unexpected buffered state %v", s)
		default:
		}
	})

	t.Run("cancellation racing submissions never panics the engine", func(t *testing.T) {
		t.Parallel()

		eng := newCounterEngine(t)
		ctx := context.Background()

		var last []<-chan engine.State
		for range 50 {
			wctx, cancel := context.WithCancel(context.Background())

			chans := make([]<-chan engine.State, 0, 4)
			for range 4 {
				chans = append(chans, eng.Watch(wctx))
			}
			last = chans

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				cancel()
			}()

			// Submissions raise into the watchers while the cancellation
			// goroutine tears them down.
			for range 10 {
				require.NoError(t, eng.Submit(ctx, engine.StringEvent("increment")))
			}
			wg.Wait()
		}

		for _, ch := range last {
			assert.Eventually(t, drained(ch), time.Second, time.Millisecond)
		}
	})

	t.Run("watch on a closed engine yields a closed channel", func(t *testing.T) {
		t.Parallel()

		eng := newCounterEngine(t)
		require.NoError(t, eng.Close())

		ch := eng.Watch(context.Background())
		_, ok := <-ch
		assert.False(t, ok)
	})
}
