// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package smartpin

import (
	"github.com/GermanBionicSystems/smartgpio/clock"
)

// Opts holds the settings common to every pin.
type Opts struct {
	// Name is the display label. The hardware pin name is used when empty.
	Name string
	// Clock is the millisecond source. clock.Default is used when nil.
	Clock clock.Clock
	// Policy selects the behavior of queries made before Setup().
	Policy Policy
}

// Base implements the identity, lifecycle and notification plumbing of a
// pin. It is meant to be embedded by the concrete pins, which must not be
// copied after construction.
type Base struct {
	self   Pin
	name   string
	mode   Mode
	clock  clock.Clock
	policy Policy
	sched  *Scheduler
	onLoop Callbacks

	setupDone bool
}

// Init initializes b. self is the pin embedding b, handed to Func
// callbacks. fallback is used as the name when opts.Name is empty.
func (b *Base) Init(self Pin, mode Mode, fallback string, opts *Opts, s Strategy) {
	if opts == nil {
		opts = &Opts{}
	}
	b.self = self
	b.mode = mode
	b.name = opts.Name
	if b.name == "" {
		b.name = fallback
	}
	b.clock = opts.Clock
	if b.clock == nil {
		b.clock = clock.Default
	}
	b.policy = opts.Policy
	b.sched = NewScheduler(b.clock, s)
}

// Name implements Pin.
func (b *Base) Name() string {
	return b.name
}

// Mode implements Pin.
func (b *Base) Mode() Mode {
	return b.mode
}

func (b *Base) String() string {
	return b.name
}

// Clock returns the millisecond source of the pin.
func (b *Base) Clock() clock.Clock {
	return b.clock
}

// IsSetUp returns true once Setup() completed.
func (b *Base) IsSetUp() bool {
	return b.setupDone
}

// MarkSetUp flags the pin as operative.
func (b *Base) MarkSetUp() {
	b.setupDone = true
}

// Ready returns nil once the pin is set up. Before that it panics or returns
// ErrNotSetUp depending on the pin Policy.
func (b *Base) Ready() error {
	if b.setupDone {
		return nil
	}
	if b.policy == Fatal {
		panic(ErrNotSetUp)
	}
	return ErrNotSetUp
}

// SetOnChangeCallback registers a callback fired when the pin value changes.
//
// Both a Func and a Closure may be registered; the Func fires first.
func (b *Base) SetOnChangeCallback(cb Callback) {
	b.sched.SetOnChange(cb)
}

// SetLoopCallback registers a callback fired at the start of every Loop().
func (b *Base) SetLoopCallback(cb Callback) {
	b.onLoop.Set(cb)
}

// SetForceOnChangeCallback makes the change callbacks fire once deferMs
// elapsed since the last fire, whether the value changed or not.
func (b *Base) SetForceOnChangeCallback(deferMs uint32) {
	b.sched.SetForce(deferMs)
}

// SetDeferOnChangeCallback holds back the next change callback until deferMs
// elapsed since the last fire.
func (b *Base) SetDeferOnChangeCallback(deferMs uint32) {
	b.sched.SetDefer(deferMs)
}

// MillisSinceLastOnChangeCallback returns the time elapsed since the change
// callbacks last fired.
func (b *Base) MillisSinceLastOnChangeCallback() uint32 {
	return b.sched.MillisSinceLastCallback()
}

// BeginLoop starts a Loop() iteration: it re-arms the scheduler and fires the
// loop callbacks.
func (b *Base) BeginLoop() {
	b.sched.BeginLoop()
	b.onLoop.Fire(b.self)
}

// Evaluate runs the change detection. It returns true if the change
// callbacks fired.
func (b *Base) Evaluate() bool {
	return b.sched.Evaluate(b.self)
}
