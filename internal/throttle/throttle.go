// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package throttle limits how often a recomputation runs. It does not own a
// timer: callers schedule the deferred run themselves (for example with
// tea.Tick) and report it with Fire.
package throttle

import "time"

// DefaultInterval is the minimum spacing between layout recomputations.
const DefaultInterval = 150 * time.Millisecond

// Decision is the outcome of Allow.
type Decision int

const (
	// Run means the call may run now.
	Run Decision = iota
	// Defer means the caller should schedule one run after the returned wait.
	Defer
	// Skip means a deferred run is already scheduled. The caller only needs
	// to remember its latest input.
	Skip
)

func (d Decision) String() string {
	switch d {
	case Run:
		return "run"
	case Defer:
		return "defer"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

// Throttle tracks the last run and whether a deferred run is pending.
// It is not safe for concurrent use; bubbletea models call it from the
// update loop only.
type Throttle struct {
	interval time.Duration
	now      func() time.Time
	last     time.Time
	pending  bool
}

// Option configures a Throttle.
type Option func(*Throttle)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Throttle) {
		t.now = now
	}
}

// New creates a Throttle. A non-positive interval uses DefaultInterval.
func New(interval time.Duration, opts ...Option) *Throttle {
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := &Throttle{interval: interval, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Interval returns the minimum spacing between runs.
func (t *Throttle) Interval() time.Duration {
	return t.interval
}

// Allow decides whether a call may run now. With Defer, wait is the time
// left until the interval has passed since the last run.
func (t *Throttle) Allow() (Decision, time.Duration) {
	if t.pending {
		return Skip, 0
	}
	now := t.now()
	if t.last.IsZero() || now.Sub(t.last) >= t.interval {
		t.last = now
		return Run, 0
	}
	t.pending = true
	return Defer, t.interval - now.Sub(t.last)
}

// Fire records that the deferred run happened.
func (t *Throttle) Fire() {
	t.pending = false
	t.last = t.now()
}

// Pending reports whether a deferred run is scheduled.
func (t *Throttle) Pending() bool {
	return t.pending
}

// Reset forgets the last run and any pending run.
func (t *Throttle) Reset() {
	t.pending = false
	t.last = time.Time{}
}
