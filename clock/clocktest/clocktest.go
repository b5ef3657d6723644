// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package clocktest is meant to be used to test code driven by a
// clock.Clock.
package clocktest

import (
	"strconv"

	"github.com/GermanBionicSystems/smartgpio/clock"
)

// Clock is a manually driven clock.Clock.
//
// It is not safe for concurrent use, matching the pins it drives.
type Clock struct {
	// Ms is the current value returned by Millis.
	Ms uint32
}

// Millis implements clock.Clock.
func (c *Clock) Millis() uint32 {
	return c.Ms
}

// Advance moves the clock forward by ms milliseconds, wrapping at 32 bits.
func (c *Clock) Advance(ms uint32) {
	c.Ms += ms
}

// Set sets the absolute value of the clock.
func (c *Clock) Set(ms uint32) {
	c.Ms = ms
}

func (c *Clock) String() string {
	return strconv.FormatUint(uint64(c.Ms), 10) + "ms"
}

var _ clock.Clock = &Clock{}
