package feedguard

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		g := New(DefaultConfig())
		if g.State() != StateReady {
			t.Errorf("expected initial state ready, got %v", g.State())
		}
	})

	t.Run("invalid config values corrected", func(t *testing.T) {
		g := New(Config{TripThreshold: 0, Cooldown: -time.Second})
		if g.config.TripThreshold != 3 {
			t.Errorf("expected default TripThreshold 3, got %d", g.config.TripThreshold)
		}
		if g.config.Cooldown != 2*time.Minute {
			t.Errorf("expected default Cooldown 2m, got %v", g.config.Cooldown)
		}
	})
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateReady, "ready"},
		{StateSuspended, "suspended"},
		{StateProbing, "probing"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.expected)
		}
	}
}

func TestTripAfterConsecutiveFailures(t *testing.T) {
	g := New(Config{TripThreshold: 3, Cooldown: time.Hour})

	g.RecordFailure()
	g.RecordFailure()
	if !g.Allow() {
		t.Error("guard should still allow below the trip threshold")
	}

	g.RecordFailure()
	if g.State() != StateSuspended {
		t.Errorf("expected suspended after 3 failures, got %v", g.State())
	}
	if g.Allow() {
		t.Error("suspended guard should not allow calls")
	}
}

func TestSuccessResetsFailures(t *testing.T) {
	g := New(Config{TripThreshold: 2, Cooldown: time.Hour})

	g.RecordFailure()
	g.RecordSuccess()
	g.RecordFailure()
	if g.State() != StateReady {
		t.Errorf("non-consecutive failures should not trip the guard, got %v", g.State())
	}
}

func TestProbeAfterCooldown(t *testing.T) {
	g := New(Config{TripThreshold: 1, Cooldown: 10 * time.Millisecond})

	g.RecordFailure()
	if g.Allow() {
		t.Fatal("guard should be suspended right after tripping")
	}

	time.Sleep(20 * time.Millisecond)
	if !g.Allow() {
		t.Fatal("guard should allow a probe after the cooldown")
	}

	t.Run("failed probe suspends again", func(t *testing.T) {
		g.RecordFailure()
		if g.Allow() {
			t.Error("failed probe should suspend the guard again")
		}
	})

	t.Run("successful probe restores the guard", func(t *testing.T) {
		time.Sleep(20 * time.Millisecond)
		if !g.Allow() {
			t.Fatal("guard should allow a second probe after the cooldown")
		}
		g.RecordSuccess()
		if g.State() != StateReady {
			t.Errorf("expected ready after successful probe, got %v", g.State())
		}
	})
}

func TestSkippedCounter(t *testing.T) {
	g := New(Config{TripThreshold: 1, Cooldown: time.Hour})
	g.RecordFailure()

	g.Allow()
	g.Allow()
	g.Allow()

	stats := g.Stats()
	if stats.Skipped != 3 {
		t.Errorf("expected 3 skipped calls, got %d", stats.Skipped)
	}
	if stats.State != StateSuspended {
		t.Errorf("expected suspended state in stats, got %v", stats.State)
	}
}

func TestReset(t *testing.T) {
	g := New(Config{TripThreshold: 1, Cooldown: time.Hour})
	g.RecordFailure()
	g.Allow()

	g.Reset()
	stats := g.Stats()
	if stats.State != StateReady || stats.Failures != 0 || stats.Skipped != 0 {
		t.Errorf("expected clean stats after reset, got %+v", stats)
	}
}
