package scale

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// EventType identifies what a monitor event carries.
type EventType string

const (
	EventSample          EventType = "sample"
	EventStability       EventType = "stability"
	EventConnectionError EventType = "connection_error"
)

// Event is a single notification published by the monitor loop.
type Event struct {
	Type   EventType
	Kg     float64
	Stable bool
	Error  string
	At     time.Time
}

// Snapshot is the monitor's current view of the scale, safe to read from any
// goroutine.
type Snapshot struct {
	Kg              float64
	Stable          bool
	Connected       bool
	ConnectionError string
}

// Monitor owns the control loop of the reading pipeline: one background
// goroutine runs the Source, one consumer goroutine feeds the detector and
// publishes events in strict arrival order. All store writes stay on the
// caller's side; the monitor only ever hands out copies.
type Monitor struct {
	source   Source
	detector *StabilityDetector
	logger   *slog.Logger

	mu       sync.RWMutex
	lastKg   float64
	stable   bool
	connErr  string
	started  bool
	subs     map[int]chan Event
	nextSub  int
	runErr   error
	done     chan struct{}
}

// NewMonitor wires a source to a fresh stability detector.
func NewMonitor(source Source, logger *slog.Logger) *Monitor {
	return &Monitor{
		source:   source,
		detector: NewStabilityDetector(),
		logger:   logger,
		subs:     make(map[int]chan Event),
		done:     make(chan struct{}),
	}
}

// Start launches the producer and consumer goroutines. It is a no-op when
// called twice.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	samples := make(chan Sample, 16)
	go func() {
		err := m.source.Run(ctx, samples)
		m.mu.Lock()
		m.runErr = err
		m.mu.Unlock()
		close(samples)
	}()
	go m.loop(ctx, samples)
}

// Wait blocks until the control loop has exited; call after cancelling the
// context passed to Start and before releasing the store connection.
func (m *Monitor) Wait() {
	<-m.done
}

// Snapshot returns the current weight, stability verdict and connection state.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Kg:              m.lastKg,
		Stable:          m.stable,
		Connected:       m.connErr == "",
		ConnectionError: m.connErr,
	}
}

// Subscribe registers a listener for monitor events. The returned cancel
// function must be called when the listener goes away. Slow listeners miss
// events rather than stalling the control loop.
func (m *Monitor) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
	return ch, cancel
}

func (m *Monitor) loop(ctx context.Context, samples <-chan Sample) {
	defer close(m.done)

	for s := range samples {
		stable := m.detector.Observe(s.Kg)

		m.mu.Lock()
		m.lastKg = s.Kg
		m.stable = stable
		m.mu.Unlock()

		m.publish(Event{Type: EventSample, Kg: s.Kg, Stable: stable, At: s.At})
		// Status is re-announced on every sample; observers handle repeats
		// idempotently.
		m.publish(Event{Type: EventStability, Kg: s.Kg, Stable: stable, At: s.At})
	}

	m.mu.Lock()
	err := m.runErr
	m.mu.Unlock()

	if err != nil && ctx.Err() == nil {
		m.logger.Error("scale source failed", slog.String("error", err.Error()))
		m.mu.Lock()
		m.connErr = err.Error()
		m.stable = false
		m.mu.Unlock()
		m.detector.Reset()
		m.publish(Event{Type: EventConnectionError, Error: err.Error(), At: time.Now()})
		return
	}
	m.logger.Info("scale monitor stopped")
}

func (m *Monitor) publish(ev Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
