// Package feedguard suspends access to a flapping upstream (a gas price
// feed or an RPC node) after repeated consecutive failures, instead of
// hammering it on every cycle. After a cooldown a single probe is let
// through; a successful probe restores normal operation.
package feedguard

import (
	"sync"
	"time"
)

// State represents the guard state
type State int

const (
	StateReady     State = iota // upstream considered healthy, calls pass through
	StateSuspended              // upstream considered down, calls are skipped
	StateProbing                // cooldown elapsed, one probe call is allowed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateSuspended:
		return "suspended"
	case StateProbing:
		return "probing"
	default:
		return "unknown"
	}
}

// Config holds the guard thresholds
type Config struct {
	// TripThreshold is the number of consecutive failures before the
	// upstream is suspended
	TripThreshold int

	// Cooldown is how long the upstream stays suspended before a probe
	// is allowed through
	Cooldown time.Duration
}

// DefaultConfig suits a periodic feed polled every minute: three straight
// failures suspend the feed for two refresh cycles.
func DefaultConfig() Config {
	return Config{
		TripThreshold: 3,
		Cooldown:      2 * time.Minute,
	}
}

// Guard tracks consecutive failures against a single upstream
type Guard struct {
	mu sync.Mutex

	config Config
	state  State

	failures    int
	skipped     uint64
	suspendedAt time.Time
}

// New creates a guard, correcting non-positive config values to defaults
func New(config Config) *Guard {
	def := DefaultConfig()
	if config.TripThreshold <= 0 {
		config.TripThreshold = def.TripThreshold
	}
	if config.Cooldown <= 0 {
		config.Cooldown = def.Cooldown
	}
	return &Guard{config: config, state: StateReady}
}

// Allow reports whether the next call should be attempted. While the
// upstream is suspended it returns false until the cooldown elapses, then
// lets exactly the probing call through.
func (g *Guard) Allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.currentState() {
	case StateSuspended:
		g.skipped++
		return false
	case StateProbing:
		g.state = StateProbing
		return true
	default:
		return true
	}
}

// RecordSuccess marks the last attempt as successful, restoring normal
// operation after a probe.
func (g *Guard) RecordSuccess() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.failures = 0
	g.state = StateReady
}

// RecordFailure marks the last attempt as failed. Reaching the trip
// threshold, or failing a probe, suspends the upstream.
func (g *Guard) RecordFailure() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.failures++
	if g.currentState() == StateProbing || g.failures >= g.config.TripThreshold {
		g.state = StateSuspended
		g.suspendedAt = time.Now()
	}
}

// Reset restores the guard to the ready state and clears counters
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.failures = 0
	g.skipped = 0
	g.state = StateReady
}

// State returns the current guard state
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentState()
}

// currentState transitions suspended to probing once the cooldown has
// elapsed. Must be called with the lock held.
func (g *Guard) currentState() State {
	if g.state == StateSuspended && time.Since(g.suspendedAt) >= g.config.Cooldown {
		return StateProbing
	}
	return g.state
}

// Stats is a snapshot of the guard counters
type Stats struct {
	State    State
	Failures int
	Skipped  uint64
}

// Stats returns the current counters
func (g *Guard) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Stats{
		State:    g.currentState(),
		Failures: g.failures,
		Skipped:  g.skipped,
	}
}
