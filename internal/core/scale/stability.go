package scale

const (
	// DefaultWindowSize is the number of consecutive samples the detector
	// considers when classifying a reading.
	DefaultWindowSize = 5
	// DefaultToleranceKg is the maximum spread (max - min) a full window may
	// have and still be considered stable.
	DefaultToleranceKg = 2.0
)

// StabilityDetector classifies the current scale reading as stable or
// unstable from a fixed-capacity FIFO window of recent samples. The verdict
// is a pure function of the window contents: no hysteresis, no debouncing.
// It is not safe for concurrent use; the monitor loop is its only caller.
type StabilityDetector struct {
	window      []float64
	size        int
	toleranceKg float64
}

// NewStabilityDetector returns a detector with the default window size and tolerance.
func NewStabilityDetector() *StabilityDetector {
	return NewStabilityDetectorWith(DefaultWindowSize, DefaultToleranceKg)
}

// NewStabilityDetectorWith returns a detector with an explicit window size and tolerance.
func NewStabilityDetectorWith(size int, toleranceKg float64) *StabilityDetector {
	if size < 1 {
		size = DefaultWindowSize
	}
	return &StabilityDetector{
		window:      make([]float64, 0, size),
		size:        size,
		toleranceKg: toleranceKg,
	}
}

// Observe pushes a sample into the window, evicting the oldest sample when the
// window is full, and returns the resulting stability verdict.
func (d *StabilityDetector) Observe(kg float64) bool {
	if len(d.window) == d.size {
		copy(d.window, d.window[1:])
		d.window = d.window[:d.size-1]
	}
	d.window = append(d.window, kg)
	return d.Stable()
}

// Stable reports the verdict for the current window contents: the window must
// be full and its spread within tolerance. Re-evaluating without new samples
// always yields the same answer.
func (d *StabilityDetector) Stable() bool {
	if len(d.window) < d.size {
		return false
	}
	minKg, maxKg := d.window[0], d.window[0]
	for _, kg := range d.window[1:] {
		if kg < minKg {
			minKg = kg
		}
		if kg > maxKg {
			maxKg = kg
		}
	}
	return maxKg-minKg <= d.toleranceKg
}

// Reset empties the window, e.g. after a connection error.
func (d *StabilityDetector) Reset() {
	d.window = d.window[:0]
}
