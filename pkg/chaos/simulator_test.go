package chaos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingSleep(slept *[]time.Duration) Option {
	return WithSleep(func(d time.Duration) { *slept = append(*slept, d) })
}

func TestApply_NoFault(t *testing.T) {
	var slept []time.Duration
	sim := NewSimulator(recordingSleep(&slept))

	for range 100 {
		require.NoError(t, sim.Apply(Fault{}))
	}
	assert.Empty(t, slept, "zero latency never sleeps")
}

func TestApply_AlwaysFails(t *testing.T) {
	sim := NewSimulator(WithSleep(func(time.Duration) {}))
	for range 100 {
		assert.ErrorIs(t, sim.Apply(Fault{FailureRate: 1.0}), ErrSimulatedFailure)
	}
}

func TestApply_SleepsBeforeRolling(t *testing.T) {
	var slept []time.Duration
	sim := NewSimulator(recordingSleep(&slept))

	err := sim.Apply(Fault{Latency: 250 * time.Millisecond, FailureRate: 1})
	assert.ErrorIs(t, err, ErrSimulatedFailure)
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, slept)
}

func TestApply_RateIsRoughlyHonoured(t *testing.T) {
	sim := NewSimulator(WithSeed(7), WithSleep(func(time.Duration) {}))

	failures := 0
	const n = 2000
	for range n {
		if sim.Apply(Fault{FailureRate: 0.25}) != nil {
			failures++
		}
	}
	assert.InDelta(t, 0.25, float64(failures)/n, 0.05)
}

func TestApply_ClampsRate(t *testing.T) {
	sim := NewSimulator(WithSleep(func(time.Duration) {}))
	assert.ErrorIs(t, sim.Apply(Fault{FailureRate: 3}), ErrSimulatedFailure)
	assert.NoError(t, sim.Apply(Fault{FailureRate: -1}))
}

func TestApply_RealSleep(t *testing.T) {
	sim := NewSimulator()
	start := time.Now()
	require.NoError(t, sim.Apply(Fault{Latency: 20 * time.Millisecond}))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
