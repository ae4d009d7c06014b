package shared

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClock_SleepAdvancesAndRecords(t *testing.T) {
	// Arrange
	start := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	// Act
	clock.Sleep(time.Second)
	<-clock.After(100 * time.Millisecond)
	clock.Advance(time.Minute)

	// Assert
	assert.Equal(t, start.Add(time.Minute+1100*time.Millisecond), clock.Now())
	assert.Equal(t, []time.Duration{time.Second, 100 * time.Millisecond}, clock.Sleeps())
}

func TestSleepContext(t *testing.T) {
	t.Run("waits on the clock", func(t *testing.T) {
		clock := NewMockClock(time.Time{})

		err := SleepContext(context.Background(), clock, time.Second)

		assert.NoError(t, err)
		assert.Equal(t, []time.Duration{time.Second}, clock.Sleeps())
	})

	t.Run("zero duration does not sleep", func(t *testing.T) {
		clock := NewMockClock(time.Time{})

		assert.NoError(t, SleepContext(context.Background(), clock, 0))
		assert.Empty(t, clock.Sleeps())
	})

	t.Run("cancelled context returns before sleeping", func(t *testing.T) {
		clock := NewMockClock(time.Time{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := SleepContext(ctx, clock, time.Second)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, clock.Sleeps())
	})
}
