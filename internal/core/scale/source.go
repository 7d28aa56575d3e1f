// Package scale implements the live scale-reading pipeline: sample sources
// (simulated or serial), the sliding-window stability detector, and the
// monitor loop that fans readings out to the rest of the application.
package scale

import (
	"context"
	"time"
)

// Sample is a single timestamped weight reading in kilograms.
type Sample struct {
	Kg float64
	At time.Time
}

// Source produces an unbounded sequence of weight samples on out until the
// context is cancelled or the underlying device fails. Implementations must
// only write to out from the Run goroutine and must never close it; the
// caller owns the channel lifecycle. A non-nil return value other than the
// context's error indicates a connection failure, reported exactly once.
type Source interface {
	Run(ctx context.Context, out chan<- Sample) error
}
