// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpiopin

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/smartgpio/smartpin"
)

// Function is the commanded behavior of an Output.
type Function uint8

// Valid Function values.
const (
	Off Function = iota
	On
	Blink
)

func (f Function) String() string {
	switch f {
	case Off:
		return "Off"
	case On:
		return "On"
	case Blink:
		return "Blink"
	default:
		return "Function(?)"
	}
}

// Output is a digital output pin.
//
// Every command is ignored until Setup() returned successfully.
type Output struct {
	Digital
	out gpio.PinOut

	fn         Function
	blinkOnMs  uint32
	blinkOffMs uint32
}

// NewOutput returns an Output driving p.
//
// p must read back the level it drives. It is switched to an output, driven
// off, on Setup().
func NewOutput(p gpio.PinIO, opts *Opts) *Output {
	o := &Output{out: p}
	o.init(o, p, smartpin.DigitalOut, opts)
	return o
}

// Setup implements smartpin.Pin.
func (o *Output) Setup() error {
	if err := o.out.Out(o.raw(false)); err != nil {
		o.err = err
		return fmt.Errorf("gpiopin: %s: %w", o.Name(), err)
	}
	o.err = nil
	o.fn = Off
	o.MarkSetUp()
	return nil
}

// Loop implements smartpin.Pin.
//
// The commanded level is driven again on every call. While blinking, the pin
// is switched once the on or off duration elapsed.
func (o *Output) Loop() {
	if !o.IsSetUp() {
		return
	}
	o.BeginLoop()
	o.update()
	switch o.fn {
	case On:
		o.SetOn()
	case Off:
		o.SetOff()
	case Blink:
		if o.level() {
			if o.MillisSinceLastOn() >= o.blinkOnMs {
				o.SetOff()
			}
		} else if o.MillisSinceLastOff() >= o.blinkOffMs {
			o.SetOn()
		}
		o.fn = Blink
	}
}

// Function returns the commanded function.
func (o *Output) Function() Function {
	return o.fn
}

// BlinkTiming returns the on and off durations of the blink cycle.
func (o *Output) BlinkTiming() (onMs, offMs uint32) {
	return o.blinkOnMs, o.blinkOffMs
}

// SetOn drives the pin steadily on.
func (o *Output) SetOn() {
	if !o.IsSetUp() {
		return
	}
	o.fn = On
	o.drive(true)
	o.update()
}

// SetOff drives the pin steadily off.
func (o *Output) SetOff() {
	if !o.IsSetUp() {
		return
	}
	o.fn = Off
	o.drive(false)
	o.update()
}

// Toggle switches a pin commanded on to off, and anything else to on.
func (o *Output) Toggle() {
	if !o.IsSetUp() {
		return
	}
	if o.fn == On {
		o.SetOff()
	} else {
		o.SetOn()
	}
}

// SetBlink makes the pin blink, onMs on then offMs off.
//
// offMs == 0 means the same duration as onMs. onMs == 0 is the same as
// SetOff(). A pin not already blinking starts with the on phase.
func (o *Output) SetBlink(onMs, offMs uint32) {
	if !o.IsSetUp() {
		return
	}
	if onMs == 0 {
		o.SetOff()
		return
	}
	if offMs == 0 {
		offMs = onMs
	}
	o.blinkOnMs = onMs
	o.blinkOffMs = offMs
	if o.fn != Blink {
		o.SetOn()
	}
	o.fn = Blink
}

// SetInverted changes the polarity inversion.
//
// The pin is driven again with the flipped polarity so its logical level, and
// the timing of the current phase, do not change.
func (o *Output) SetInverted(inverted bool) {
	if inverted == o.inverted {
		return
	}
	o.inverted = inverted
	if o.IsSetUp() {
		o.drive(o.lastLevel)
	}
}

// raw converts a logical level to the electrical level.
func (o *Output) raw(on bool) gpio.Level {
	return gpio.Level(on != o.inverted)
}

// drive writes the level. Err() reports the outcome of the last write.
func (o *Output) drive(on bool) {
	o.err = o.out.Out(o.raw(on))
}

var _ smartpin.Pin = &Output{}
