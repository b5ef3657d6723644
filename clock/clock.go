// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package clock provides the monotonic millisecond counter shared by all the
// pins of a board.
//
// The counter is 32 bits wide and wraps after ~49.7 days. Elapsed times are
// always computed with unsigned subtraction, which is correct across a single
// wraparound.
package clock

import (
	"time"
)

// Clock is a monotonic millisecond counter.
type Clock interface {
	// Millis returns the number of milliseconds since an arbitrary epoch.
	Millis() uint32
}

// System is a Clock backed by the Go runtime monotonic clock.
//
// The epoch is the time the System was created.
type System struct {
	start time.Time
}

// NewSystem returns a System clock starting at 0.
func NewSystem() *System {
	return &System{start: time.Now()}
}

// Millis implements Clock.
func (s *System) Millis() uint32 {
	return uint32(time.Since(s.start) / time.Millisecond)
}

// Since returns the number of milliseconds elapsed between then and the
// current value of c.
func Since(c Clock, then uint32) uint32 {
	return c.Millis() - then
}

// Default is the clock used by pins that are not given one explicitly.
var Default Clock = NewSystem()

var _ Clock = &System{}
