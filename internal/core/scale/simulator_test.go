package scale

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoiseAmplitude_CalmThenTurbulent(t *testing.T) {
	for tick := 0; tick < simulatorCycle; tick++ {
		amp := noiseAmplitude(tick)
		if tick < calmTicks {
			assert.Equal(t, calmAmplitude, amp, "tick %d should be calm", tick)
		} else {
			assert.Equal(t, noisyAmplitude, amp, "tick %d should be turbulent", tick)
		}
	}
	// The cycle wraps.
	assert.Equal(t, noiseAmplitude(0), noiseAmplitude(simulatorCycle))
}

func TestSimulator_EmitsAroundBaseWeight(t *testing.T) {
	sim := NewSimulator(12500.0)
	sim.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan Sample, 64)
	errCh := make(chan error, 1)
	go func() { errCh <- sim.Run(ctx, out) }()

	var samples []Sample
	timeout := time.After(2 * time.Second)
	for len(samples) < 20 {
		select {
		case s := <-out:
			samples = append(samples, s)
		case <-timeout:
			t.Fatalf("timed out after %d samples", len(samples))
		}
	}
	cancel()

	require.NoError(t, func() error {
		err := <-errCh
		if err == context.Canceled {
			return nil
		}
		return err
	}())

	for _, s := range samples {
		assert.InDelta(t, 12500.0, s.Kg, noisyAmplitude)
		assert.False(t, s.At.IsZero())
	}
}

func TestSimulator_StopsOnCancel(t *testing.T) {
	sim := NewSimulator(500.0)
	sim.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan Sample, 1)
	errCh := make(chan error, 1)
	go func() { errCh <- sim.Run(ctx, out) }()

	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("simulator did not stop after cancellation")
	}
}
