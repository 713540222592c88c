package chaos

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"
)

// ErrSimulatedFailure is returned by Apply when the failure roll hits.
var ErrSimulatedFailure = errors.New("simulated failure")

// Fault describes the behaviour injected into one request.
type Fault struct {
	Latency     time.Duration
	FailureRate float64
}

// Simulator applies faults. It is safe for concurrent use.
type Simulator struct {
	mu    sync.Mutex // guards rng
	rng   *rand.Rand
	sleep func(time.Duration)
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithSeed makes failure rolls reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithSleep replaces time.Sleep.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *Simulator) { s.sleep = sleep }
}

// NewSimulator creates a Simulator.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{sleep: time.Sleep}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply sleeps for f.Latency, then returns ErrSimulatedFailure with
// probability f.FailureRate (clamped to [0, 1]).
func (s *Simulator) Apply(f Fault) error {
	if f.Latency > 0 {
		s.sleep(f.Latency)
	}
	if s.roll() < clamp(f.FailureRate) {
		return ErrSimulatedFailure
	}
	return nil
}

// roll returns a uniform value in [0, 1).
func (s *Simulator) roll() float64 {
	if s.rng == nil {
		return rand.Float64()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func clamp(p float64) float64 {
	return min(max(p, 0), 1)
}
