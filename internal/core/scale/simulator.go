package scale

import (
	"context"
	"math/rand"
	"time"
)

const (
	simulatorInterval = 500 * time.Millisecond
	// The simulator cycles through 16 ticks: the first calmTicks emit low
	// noise so the stability detector can latch, the rest emit high noise to
	// knock it loose again.
	simulatorCycle = 16
	calmTicks      = 10
	calmAmplitude  = 1.5
	noisyAmplitude = 5.0
)

// Simulator emits base weight plus alternating calm/turbulent noise on a
// fixed cadence. It exists so the whole pipeline can be exercised without a
// physical scale attached.
type Simulator struct {
	BaseKg   float64
	Interval time.Duration

	rnd  *rand.Rand
	tick int
}

// NewSimulator returns a simulator producing readings around baseKg.
func NewSimulator(baseKg float64) *Simulator {
	return &Simulator{
		BaseKg:   baseKg,
		Interval: simulatorInterval,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run emits samples until ctx is cancelled. It never fails.
func (s *Simulator) Run(ctx context.Context, out chan<- Sample) error {
	interval := s.Interval
	if interval <= 0 {
		interval = simulatorInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			amp := noiseAmplitude(s.tick)
			kg := s.BaseKg + (s.rnd.Float64()*2-1)*amp
			s.tick = (s.tick + 1) % simulatorCycle
			select {
			case out <- Sample{Kg: kg, At: time.Now()}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// noiseAmplitude returns the noise amplitude for a given tick of the
// simulator cycle.
func noiseAmplitude(tick int) float64 {
	if tick%simulatorCycle < calmTicks {
		return calmAmplitude
	}
	return noisyAmplitude
}
