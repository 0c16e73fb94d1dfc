package broadcast_test

import (
	"testing"

	"github.com/UnknownOlympus/outreach/internal/broadcast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatest(t *testing.T) {
	t.Run("no value before first publish", func(t *testing.T) {
		latest := broadcast.NewLatest[int]()

		_, ok := latest.Get()
		assert.False(t, ok)

		ch, cancel := latest.Subscribe()
		defer cancel()
		assert.Empty(t, ch)
	})

	t.Run("subscriber is primed with retained value", func(t *testing.T) {
		latest := broadcast.NewLatestWith("initial")

		ch, cancel := latest.Subscribe()
		defer cancel()

		assert.Equal(t, "initial", <-ch)
	})

	t.Run("slow subscriber observes only the newest value", func(t *testing.T) {
		latest := broadcast.NewLatest[int]()
		ch, cancel := latest.Subscribe()
		defer cancel()

		latest.Publish(1)
		latest.Publish(2)
		latest.Publish(3)

		assert.Equal(t, 3, <-ch)
		assert.Empty(t, ch)

		value, ok := latest.Get()
		require.True(t, ok)
		assert.Equal(t, 3, value)
	})

	t.Run("every subscriber receives the value", func(t *testing.T) {
		latest := broadcast.NewLatest[int]()
		first, cancelFirst := latest.Subscribe()
		defer cancelFirst()
		second, cancelSecond := latest.Subscribe()
		defer cancelSecond()

		latest.Publish(42)

		assert.Equal(t, 42, <-first)
		assert.Equal(t, 42, <-second)
	})

	t.Run("cancel closes the channel and stops delivery", func(t *testing.T) {
		latest := broadcast.NewLatest[int]()
		ch, cancel := latest.Subscribe()

		cancel()
		cancel()
		latest.Publish(7)

		_, open := <-ch
		assert.False(t, open)
	})
}
