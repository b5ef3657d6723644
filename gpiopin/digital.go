// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpiopin

import (
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/smartgpio/clock"
	"github.com/GermanBionicSystems/smartgpio/smartpin"
)

// Opts holds the construction settings of a digital pin.
type Opts struct {
	// Name is the display label. The GPIO name is used when empty.
	Name string
	// Inverted flips the logical level against the electrical level.
	Inverted bool
	// Clock is the millisecond source. clock.Default is used when nil.
	Clock clock.Clock
	// Policy selects the behavior of queries made before Setup().
	Policy smartpin.Policy
}

// Digital is the part shared by Input and Output.
type Digital struct {
	smartpin.Base
	in gpio.PinIn

	inverted bool
	// lastLevel is the logical level seen by the previous update.
	lastLevel bool
	// lastChangeHandlerLevel is the logical level when the change callbacks
	// last fired.
	lastChangeHandlerLevel bool
	lastChangeToOnMs       uint32
	lastChangeToOffMs      uint32

	err error
}

func (d *Digital) init(self smartpin.Pin, in gpio.PinIn, mode smartpin.Mode, opts *Opts) {
	if opts == nil {
		opts = &Opts{}
	}
	d.in = in
	d.inverted = opts.Inverted
	d.Init(self, mode, in.Name(), &smartpin.Opts{Name: opts.Name, Clock: opts.Clock, Policy: opts.Policy}, smartpin.Strategy{
		Changed:  func() bool { return d.lastChangeHandlerLevel != d.level() },
		Snapshot: func() { d.lastChangeHandlerLevel = d.level() },
	})
}

// level returns the logical level without checking the setup state.
func (d *Digital) level() bool {
	return (d.in.Read() == gpio.High) != d.inverted
}

// State returns the logical level of the pin.
//
// It returns smartpin.ErrNotSetUp before Setup().
func (d *Digital) State() (bool, error) {
	if err := d.Ready(); err != nil {
		return false, err
	}
	return d.level(), nil
}

// IsOn returns true when the logical level is on.
//
// It returns false before Setup().
func (d *Digital) IsOn() bool {
	on, err := d.State()
	return err == nil && on
}

// IsOff returns true when the logical level is off.
//
// It returns false before Setup().
func (d *Digital) IsOff() bool {
	on, err := d.State()
	return err == nil && !on
}

// Inverted returns the current polarity inversion flag.
func (d *Digital) Inverted() bool {
	return d.inverted
}

// SetInverted changes the polarity inversion.
//
// The remembered levels are flipped with it so the change of polarity is not
// reported as a change of level.
func (d *Digital) SetInverted(inverted bool) {
	if inverted == d.inverted {
		return
	}
	d.lastLevel = !d.lastLevel
	d.lastChangeHandlerLevel = !d.lastChangeHandlerLevel
	d.inverted = inverted
}

// MillisSinceLastOn returns the time elapsed since the pin last turned on.
func (d *Digital) MillisSinceLastOn() uint32 {
	return clock.Since(d.Clock(), d.lastChangeToOnMs)
}

// MillisSinceLastOff returns the time elapsed since the pin last turned off.
func (d *Digital) MillisSinceLastOff() uint32 {
	return clock.Since(d.Clock(), d.lastChangeToOffMs)
}

// MillisSinceLastChange returns the time elapsed since the pin entered its
// current level.
func (d *Digital) MillisSinceLastChange() uint32 {
	if d.IsOn() {
		return d.MillisSinceLastOn()
	}
	return d.MillisSinceLastOff()
}

// Err returns the last hardware error seen by the pin, if any.
func (d *Digital) Err() error {
	return d.err
}

// update records the transitions since the previous update and runs the
// change detection.
func (d *Digital) update() {
	now := d.Clock().Millis()
	on := d.level()
	if on && !d.lastLevel {
		d.lastChangeToOnMs = now
	} else if !on && d.lastLevel {
		d.lastChangeToOffMs = now
	}
	d.lastLevel = on
	d.Evaluate()
}
