// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package smartpin

import (
	"github.com/GermanBionicSystems/smartgpio/clock"
)

// Strategy is the variant specific half of the change detection.
type Strategy struct {
	// Changed returns true when the observable value differs from the value
	// recorded by the last Snapshot. A nil Changed never reports a change, so
	// only forced callbacks fire.
	Changed func() bool
	// Snapshot records the current observable value. It is called right
	// before the callbacks fire. May be nil.
	Snapshot func()
}

// Scheduler decides when the change callbacks of a pin fire.
//
// Whether the signal changed is the Strategy's concern, whether the callbacks
// are allowed to run yet is the Scheduler's. A forced fire can be requested
// to re-announce the current value even when nothing changed.
//
// The zero value is not usable, use NewScheduler.
type Scheduler struct {
	clock    clock.Clock
	strategy Strategy
	onChange Callbacks

	lastCallbackMs uint32
	deferMs        uint32
	force          bool
	forceDeferMs   uint32
	// fired latches a fire until the next BeginLoop.
	fired bool
}

// NewScheduler returns a Scheduler using c as its time source.
//
// A forced fire is pending on creation so the first evaluation announces the
// initial value.
func NewScheduler(c clock.Clock, s Strategy) *Scheduler {
	if c == nil {
		c = clock.Default
	}
	return &Scheduler{clock: c, strategy: s, force: true}
}

// SetOnChange registers a change callback. See Callbacks.Set.
func (s *Scheduler) SetOnChange(cb Callback) {
	s.onChange.Set(cb)
}

// MillisSinceLastCallback returns the time elapsed since the last
// non-deferred fire.
func (s *Scheduler) MillisSinceLastCallback() uint32 {
	return clock.Since(s.clock, s.lastCallbackMs)
}

// SetForce requests an unconditional fire once deferMs have elapsed since the
// last fire.
func (s *Scheduler) SetForce(deferMs uint32) {
	s.force = true
	s.forceDeferMs = deferMs
}

// SetDefer sets the minimum spacing between the last fire and the next
// change-triggered fire.
func (s *Scheduler) SetDefer(deferMs uint32) {
	s.deferMs = deferMs
}

// Forced returns true when a forced fire is pending and its window elapsed.
func (s *Scheduler) Forced() bool {
	return s.force && s.MillisSinceLastCallback() >= s.forceDeferMs
}

// BeginLoop re-arms the scheduler for a new Loop() iteration.
func (s *Scheduler) BeginLoop() {
	s.fired = false
}

// Evaluate runs the change detection once and fires the callbacks with p
// when it succeeds. It returns true if the callbacks fired.
//
// At most one fire happens between two calls to BeginLoop.
func (s *Scheduler) Evaluate(p Pin) bool {
	if s.fired || s.MillisSinceLastCallback() < s.deferMs {
		return false
	}
	if !s.Forced() && (s.strategy.Changed == nil || !s.strategy.Changed()) {
		return false
	}
	s.reset()
	s.fired = true
	s.onChange.Fire(p)
	// A callback calling SetDefer keeps the previous stamp, so its window
	// counts from the last undeferred fire.
	if s.deferMs == 0 {
		s.lastCallbackMs = s.clock.Millis()
	}
	return true
}

func (s *Scheduler) reset() {
	s.force = false
	s.forceDeferMs = 0
	s.deferMs = 0
	if s.strategy.Snapshot != nil {
		s.strategy.Snapshot()
	}
}
