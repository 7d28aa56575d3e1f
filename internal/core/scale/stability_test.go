package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStabilityDetector_UnstableUntilWindowFull(t *testing.T) {
	d := NewStabilityDetector()

	for i := 0; i < DefaultWindowSize-1; i++ {
		assert.False(t, d.Observe(12500.0), "sample %d: window not yet full", i+1)
	}
	// 5th sample fills the window; all identical values => stable.
	assert.True(t, d.Observe(12500.0))
}

func TestStabilityDetector_StableWithinTolerance(t *testing.T) {
	d := NewStabilityDetector()

	samples := []float64{12500.0, 12501.5, 12499.8, 12500.9, 12501.0}
	var verdict bool
	for _, kg := range samples {
		verdict = d.Observe(kg)
	}
	// Spread is 1.7, within the 2.0 tolerance.
	assert.True(t, verdict)

	// Further in-tolerance samples keep it stable.
	assert.True(t, d.Observe(12500.4))
	assert.True(t, d.Observe(12501.1))
}

func TestStabilityDetector_SpreadBeyondToleranceIsUnstable(t *testing.T) {
	d := NewStabilityDetector()

	for i := 0; i < DefaultWindowSize; i++ {
		d.Observe(12500.0)
	}
	assert.True(t, d.Stable())

	// One outlier breaks the bound...
	assert.False(t, d.Observe(12503.0))

	// ...and it stays unstable until the outlier is evicted.
	for i := 0; i < DefaultWindowSize-1; i++ {
		assert.False(t, d.Observe(12500.0))
	}
	assert.True(t, d.Observe(12500.0))
}

func TestStabilityDetector_SpreadExactlyAtToleranceIsStable(t *testing.T) {
	d := NewStabilityDetector()

	d.Observe(12500.0)
	d.Observe(12502.0)
	d.Observe(12501.0)
	d.Observe(12500.5)
	assert.True(t, d.Observe(12501.5), "max-min == tolerance should be stable")
}

func TestStabilityDetector_VerdictIsIdempotent(t *testing.T) {
	d := NewStabilityDetector()

	for _, kg := range []float64{100, 100.5, 101, 100.2, 100.9} {
		d.Observe(kg)
	}
	first := d.Stable()
	second := d.Stable()
	assert.Equal(t, first, second)
	assert.True(t, first)
}

func TestStabilityDetector_WindowEvictsOldest(t *testing.T) {
	d := NewStabilityDetector()

	// Fill with a wild first value, then settle.
	d.Observe(9000.0)
	for _, kg := range []float64{12500, 12500.1, 12500.2, 12500.3} {
		assert.False(t, d.Observe(kg))
	}
	// 6th sample evicts the 9000 outlier; remaining spread is tiny.
	assert.True(t, d.Observe(12500.4))
}

func TestStabilityDetector_Reset(t *testing.T) {
	d := NewStabilityDetector()

	for i := 0; i < DefaultWindowSize; i++ {
		d.Observe(500.0)
	}
	assert.True(t, d.Stable())

	d.Reset()
	assert.False(t, d.Stable())
	// Needs a full window again after reset.
	for i := 0; i < DefaultWindowSize-1; i++ {
		assert.False(t, d.Observe(500.0))
	}
	assert.True(t, d.Observe(500.0))
}
