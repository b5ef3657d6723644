// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpiopin

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/smartgpio/smartpin"
)

// Input is a digital input pin.
type Input struct {
	Digital
}

// NewInput returns an Input reading p.
//
// p is configured as an input on Setup().
func NewInput(p gpio.PinIn, opts *Opts) *Input {
	i := &Input{}
	i.init(i, p, smartpin.DigitalIn, opts)
	return i
}

// Setup implements smartpin.Pin.
func (i *Input) Setup() error {
	if err := i.in.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		i.err = err
		return fmt.Errorf("gpiopin: %s: %w", i.Name(), err)
	}
	i.err = nil
	i.MarkSetUp()
	return nil
}

// Loop implements smartpin.Pin.
//
// It does nothing before Setup().
func (i *Input) Loop() {
	if !i.IsSetUp() {
		return
	}
	i.BeginLoop()
	i.update()
}

var _ smartpin.Pin = &Input{}
