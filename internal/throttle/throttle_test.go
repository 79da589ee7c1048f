// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package throttle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFake() (*Throttle, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(DefaultInterval, WithClock(clock.now)), clock
}

func TestAllow_FirstCallRuns(t *testing.T) {
	th, _ := newFake()
	d, wait := th.Allow()
	assert.Equal(t, Run, d)
	assert.Zero(t, wait)
}

func TestAllow_DefersWithinInterval(t *testing.T) {
	th, clock := newFake()
	th.Allow()

	clock.advance(50 * time.Millisecond)
	d, wait := th.Allow()
	assert.Equal(t, Defer, d)
	assert.Equal(t, 100*time.Millisecond, wait)
	assert.True(t, th.Pending())

	// further calls coalesce into the pending run
	clock.advance(20 * time.Millisecond)
	d, wait = th.Allow()
	assert.Equal(t, Skip, d)
	assert.Zero(t, wait)
}

func TestFire(t *testing.T) {
	th, clock := newFake()
	th.Allow()
	clock.advance(10 * time.Millisecond)
	th.Allow()

	clock.advance(140 * time.Millisecond)
	th.Fire()
	assert.False(t, th.Pending())

	clock.advance(10 * time.Millisecond)
	d, _ := th.Allow()
	assert.Equal(t, Defer, d, "interval restarts at the deferred run")
}

func TestAllow_AfterInterval(t *testing.T) {
	th, clock := newFake()
	th.Allow()
	clock.advance(DefaultInterval)
	d, _ := th.Allow()
	assert.Equal(t, Run, d)
}

func TestNew_DefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, New(0).Interval())
	assert.Equal(t, time.Second, New(time.Second).Interval())
}

func TestReset(t *testing.T) {
	th, clock := newFake()
	th.Allow()
	clock.advance(time.Millisecond)
	th.Allow()
	th.Reset()

	d, _ := th.Allow()
	assert.Equal(t, Run, d)
	assert.Equal(t, "run", d.String())
}
