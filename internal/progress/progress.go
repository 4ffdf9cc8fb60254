// Package progress simulates upload progress for display. Values are not
// derived from bytes transferred.
package progress

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Defaults for a simulation cycle.
const (
	DefaultCycle = 15 * time.Second
	DefaultPause = 2 * time.Second
)

// Config shapes the simulated ramp.
type Config struct {
	Cycle time.Duration
	Pause time.Duration
}

func (c Config) withDefaults() Config {
	if c.Cycle <= 0 {
		c.Cycle = DefaultCycle
	}
	if c.Pause <= 0 {
		c.Pause = DefaultPause
	}
	return c
}

// State is one step of the simulation. The zero value is not started.
type State struct {
	Config     Config
	CycleStart time.Time
	Pausing    bool
	Value      int
	Done       bool
}

// Start begins a simulation at 0.
func Start(cfg Config, now time.Time) State {
	return State{Config: cfg.withDefaults(), CycleStart: now}
}

// Next advances s to now. The value ramps linearly from 0 to 100 over one
// cycle, holds at 100 for the pause, then restarts from 0. A completed state
// stays at 100.
func Next(s State, now time.Time) State {
	if s.Done {
		s.Value = 100
		return s
	}
	cfg := s.Config.withDefaults()
	s.Config = cfg

	elapsed := now.Sub(s.CycleStart)
	if elapsed < 0 {
		elapsed = 0
	}
	period := cfg.Cycle + cfg.Pause
	if elapsed >= period {
		skip := elapsed / period
		s.CycleStart = s.CycleStart.Add(skip * period)
		elapsed -= skip * period
	}

	if elapsed >= cfg.Cycle {
		s.Pausing = true
		s.Value = 100
		return s
	}
	s.Pausing = false
	s.Value = clamp(int(elapsed * 100 / cfg.Cycle))
	return s
}

// Complete pins s at 100.
func Complete(s State) State {
	s.Done = true
	s.Pausing = false
	s.Value = 100
	return s
}

func clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
